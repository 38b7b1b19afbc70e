package cmdutil

import (
	"os"
	"os/signal"
	"syscall"
)

// InterruptChan returns a channel that is closed on SIGINT or SIGTERM.
func InterruptChan() <-chan struct{} {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	interruptChan := make(chan struct{})
	go func() {
		<-sigChan
		close(interruptChan)
	}()

	return interruptChan
}
