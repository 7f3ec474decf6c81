// Package staff holds the HTTP handlers behind the staff session.
package staff

import "github.com/fournil-next/internal/provider"

// Handler bundles every staff endpoint over the shared container.
type Handler struct {
	*provider.Container
}

// NewHandler creates the staff handler set.
func NewHandler(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
