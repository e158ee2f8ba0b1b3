package printing

import (
	"context"
	"time"
)

// HTMLOnlyRenderer stores the rendered HTML as is. Used when no browser is
// available.
type HTMLOnlyRenderer struct{}

// NewHTMLOnlyRenderer creates an HTMLOnlyRenderer
func NewHTMLOnlyRenderer() *HTMLOnlyRenderer {
	return &HTMLOnlyRenderer{}
}

// Render wraps the fragment into a full document
func (HTMLOnlyRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if err := validateRenderRequest(req); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeRenderTimeout, "rendering was cancelled", err)
	}
	start := time.Now()
	return &RenderResult{
		Data:           []byte(wrapHTML(req)),
		ContentType:    "text/html; charset=utf-8",
		Extension:      ".html",
		PageCount:      1,
		RenderDuration: time.Since(start),
	}, nil
}

// Close is a no-op
func (HTMLOnlyRenderer) Close() error { return nil }

var _ Renderer = HTMLOnlyRenderer{}
