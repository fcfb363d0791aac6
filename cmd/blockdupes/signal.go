package main

import (
	"os"
	"os/signal"
	"syscall"

	blockdupes "github.com/mattkeenan/blockdupes/pkg"
)

// setupSignalHandler returns a channel closed on SIGINT or SIGTERM.
// The run stops before its next size class.
func setupSignalHandler() <-chan struct{} {
	shutdown := make(chan struct{})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		signal.Stop(sigChan)
		blockdupes.Logger().Warn().Str("signal", sig.String()).Msg("shutdown requested, stopping after the current size classes")
		close(shutdown)
	}()

	return shutdown
}
