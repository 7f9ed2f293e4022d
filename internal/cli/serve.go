package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/njchilds90/metnum/internal/api"
)

const shutdownGrace = 5 * time.Second

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tool API over HTTP",
		Long: `serve exposes every metnum operation as a JSON tool call:

  POST /tool    execute a tool call, e.g. {"tool":"integrate","params":{...}}
  GET  /schema  tool schema for agent registration
  GET  /health  liveness check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := a.cfg.Server
			srv := &http.Server{
				Addr:              sc.Addr,
				Handler:           api.NewHandler(a.log, sc.MaxBodyBytes),
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       sc.ReadTimeout,
				WriteTimeout:      sc.WriteTimeout,
				IdleTimeout:       60 * time.Second,
			}
			ln, err := net.Listen("tcp", sc.Addr)
			if err != nil {
				return err
			}
			a.log.Info("metnum server listening", "addr", ln.Addr().String())
			return serve(cmd.Context(), srv, ln)
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	bindOnRun(cmd, "addr", "server.addr")
	return cmd
}

// serve runs srv on ln until ctx is done, then shuts down gracefully.
func serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	if ctx == nil {
		ctx = context.Background()
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
