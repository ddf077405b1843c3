//go:build unix

package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sakif/navidash/internal/syncer"
)

// watchVisibility maps SIGUSR1 to hide and SIGUSR2 to show until the
// returned function is called.
func watchVisibility(vis *syncer.Visibility) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGUSR1, syscall.SIGUSR2)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case sig := <-ch:
				vis.Set(sig == syscall.SIGUSR2)
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}
