package printing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrintParams(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{Scale: 1.0}}

	t.Run("A4 portrait", func(t *testing.T) {
		params := r.buildPrintParams(&RenderRequest{
			HTML:      "<p>x</p>",
			PaperSize: PaperSizeA4,
			Margins:   DefaultMargins(),
		})
		assert.InDelta(t, mmToInches(210), params.paperWidth, 0.001)
		assert.InDelta(t, mmToInches(297), params.paperHeight, 0.001)
		assert.InDelta(t, mmToInches(10), params.marginTop, 0.001)
		assert.False(t, params.landscape)
		assert.Empty(t, params.footerTemplate)
	})

	t.Run("A5 landscape", func(t *testing.T) {
		params := r.buildPrintParams(&RenderRequest{
			HTML:        "<p>x</p>",
			PaperSize:   PaperSizeA5,
			Orientation: OrientationLandscape,
		})
		assert.InDelta(t, mmToInches(148), params.paperWidth, 0.001)
		assert.True(t, params.landscape)
	})

	t.Run("footer enforces bottom margin", func(t *testing.T) {
		params := r.buildPrintParams(&RenderRequest{
			HTML:       "<p>x</p>",
			PaperSize:  PaperSizeLetter,
			Margins:    Margins{Bottom: 2},
			FooterHTML: `<span class="pageNumber"></span>`,
		})
		assert.InDelta(t, mmToInches(minFooterMarginMM), params.marginBottom, 0.001)
	})
}

func TestValidateRenderRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     *RenderRequest
		wantErr string
	}{
		{"nil", nil, ErrCodeInvalidHTML},
		{"blank html", &RenderRequest{HTML: " \n", PaperSize: PaperSizeA4}, ErrCodeInvalidHTML},
		{"unknown paper", &RenderRequest{HTML: "<p/>", PaperSize: "B5"}, ErrCodeInvalidPaperSize},
		{"valid", &RenderRequest{HTML: "<p/>", PaperSize: PaperSizeA4}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRenderRequest(tt.req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var renderErr *RenderError
			require.ErrorAs(t, err, &renderErr)
			assert.Equal(t, tt.wantErr, renderErr.Code)
		})
	}
}

func TestWrapHTML(t *testing.T) {
	full := "<!DOCTYPE html><html><body>x</body></html>"
	assert.Equal(t, full, wrapHTML(&RenderRequest{HTML: full}))

	wrapped := wrapHTML(&RenderRequest{HTML: "<p>x</p>", Title: "A & B"})
	assert.Contains(t, wrapped, "<title>A &amp; B</title>")
	assert.Contains(t, wrapped, "<body><p>x</p></body>")
}

func TestEstimatePageCount(t *testing.T) {
	pdf := []byte("<< /Type /Pages /Kids [] >> << /Type /Page >> << /Type /Page >>")
	assert.Equal(t, 2, estimatePageCount(pdf))
	assert.Equal(t, 1, estimatePageCount([]byte("garbage")))
}

func TestHTMLOnlyRenderer(t *testing.T) {
	r := NewHTMLOnlyRenderer()
	defer r.Close()

	result, err := r.Render(context.Background(), &RenderRequest{HTML: "<p>hello</p>", PaperSize: PaperSizeA4})
	require.NoError(t, err)
	assert.Equal(t, ".html", result.Extension)
	assert.Contains(t, string(result.Data), "<p>hello</p>")

	_, err = r.Render(context.Background(), &RenderRequest{HTML: "<p>hello</p>", PaperSize: "XL"})
	assert.Error(t, err)
}
