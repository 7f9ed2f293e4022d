// cmd/metnum-server/main.go: standalone HTTP tool server for metnum
//
// Exposes every metnum operation as a JSON tool call for agent frameworks.
//
// Usage:
//
//	go run ./cmd/metnum-server --addr :8080
//
// Tool call endpoint: POST /tool
// Schema endpoint:    GET  /schema
// Health endpoint:    GET  /health
//
// Settings come from metnum.yaml, .env and METNUM_SERVER_* variables, the
// same as "metnum serve".
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/njchilds90/metnum/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand()
	root.SetArgs(append([]string{"serve"}, os.Args[1:]...))
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "metnum-server:", err)
		stop()
		os.Exit(1)
	}
}
