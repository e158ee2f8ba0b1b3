package printing

import (
	"embed"
	"fmt"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
)

//go:embed templates/*.html
var templateFS embed.FS

// layoutFile holds shared blocks parsed into every document template
const layoutFile = "templates/layout.html"

// DefaultTemplate describes a built-in document template
type DefaultTemplate struct {
	DocType     fulfillment.DocumentType
	Name        string
	PaperSize   PaperSize
	Orientation Orientation
	Margins     Margins
	FilePath    string // path within templateFS
}

// GetDefaultTemplates returns the built-in template for each document type
func GetDefaultTemplates() []DefaultTemplate {
	return []DefaultTemplate{
		{
			DocType:     fulfillment.DocumentTypePack,
			Name:        "Packing List",
			PaperSize:   PaperSizeA4,
			Orientation: OrientationPortrait,
			Margins:     DefaultMargins(),
			FilePath:    "templates/pack.html",
		},
		{
			DocType:     fulfillment.DocumentTypeShip,
			Name:        "Shipping Note",
			PaperSize:   PaperSizeA4,
			Orientation: OrientationPortrait,
			Margins:     DefaultMargins(),
			FilePath:    "templates/ship.html",
		},
		{
			DocType:     fulfillment.DocumentTypeDelivery,
			Name:        "Delivery Receipt",
			PaperSize:   PaperSizeA4,
			Orientation: OrientationPortrait,
			Margins:     DefaultMargins(),
			FilePath:    "templates/delivery.html",
		},
	}
}

// LoadTemplateContent reads an embedded template
func LoadTemplateContent(path string) (string, error) {
	content, err := templateFS.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read embedded template %s: %w", path, err)
	}
	return string(content), nil
}
