package main

import (
	"context"
	"errors"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"

	"github.com/matzehuels/photowall/internal/cli"
	"github.com/matzehuels/photowall/pkg/buildinfo"
)

func main() {
	root := cli.New(os.Stderr, cli.LogInfo).RootCommand()

	// fang adds styled help and errors, --version, manpages and cancels the
	// command context on SIGINT/SIGTERM.
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(buildinfo.Version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		os.Exit(1)
	}
}
