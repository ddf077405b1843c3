//go:build !unix

package cli

import "github.com/sakif/navidash/internal/syncer"

// No user signals here; the dashboard stays visible.
func watchVisibility(*syncer.Visibility) (stop func()) {
	return func() {}
}
