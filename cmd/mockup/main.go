package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/mockup/internal/cli"
	mkerrors "github.com/matzehuels/mockup/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		if code := mkerrors.GetCode(err); code != "" {
			fmt.Fprintf(os.Stderr, "Error: %s (%s)\n", mkerrors.UserMessage(err), code)
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// --verbose is applied by the root command's PersistentPreRunE.
	root := cli.New(os.Stderr, cli.LogInfo).RootCommand()
	root.SilenceErrors = true
	return root.ExecuteContext(ctx)
}
