// Package site serves the embedded standings page.
package site

import (
	"context"
	"net/http"
)

// Register serves the standings page and its assets at /.
// More specific routes registered on mux take precedence.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/", http.FileServer(FS()))
}
