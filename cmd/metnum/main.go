// Command metnum integrates functions with the trapezoidal rule and solves
// 3×3 nonlinear systems with Newton–Raphson.
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
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "metnum:", err)
		os.Exit(1)
	}
}
