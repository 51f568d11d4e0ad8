// Package pagerender writes full HTML pages from templ components.
package pagerender

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/gdresist/optimizer/internal/services/web/platform/httpx"
)

type emptyComponent struct{}

func (emptyComponent) Render(context.Context, io.Writer) error {
	return nil
}

// WritePage renders page into a buffer and writes it with statusCode. Nothing
// reaches the client when rendering fails, so the caller can still write an
// error response.
func WritePage(w http.ResponseWriter, r *http.Request, statusCode int, page templ.Component) error {
	if w == nil {
		return nil
	}
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	if page == nil {
		page = emptyComponent{}
	}
	var buf bytes.Buffer
	if err := page.Render(httpx.RequestContext(r), &buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(statusCode)
	_, _ = w.Write(buf.Bytes())
	return nil
}
