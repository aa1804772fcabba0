package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/paldeploy/cmd/paldeploy"
	"github.com/arthur-debert/paldeploy/pkg/errors"
	"github.com/arthur-debert/paldeploy/pkg/style"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := paldeploy.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, style.Get("error").Render(fmt.Sprintf("Error: %v", err)))
		if hint := errors.Hint(err); hint != "" {
			fmt.Fprintln(os.Stderr, style.Get("muted").Render("hint: "+hint))
		}
		stop()
		os.Exit(1)
	}
}
