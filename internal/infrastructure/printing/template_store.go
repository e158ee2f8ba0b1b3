package printing

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sync"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
)

// DocumentTemplate is a parsed template ready to execute
type DocumentTemplate struct {
	DocType     fulfillment.DocumentType
	Name        string
	PaperSize   PaperSize
	Orientation Orientation
	Margins     Margins
	tmpl        *template.Template
}

// TemplateStore holds one parsed template per document type. Files in the
// external directory override the embedded ones by name.
type TemplateStore struct {
	engine      *TemplateEngine
	externalDir string
	templates   map[fulfillment.DocumentType]*DocumentTemplate
	mu          sync.RWMutex
}

// NewTemplateStore loads and parses all templates
func NewTemplateStore(engine *TemplateEngine, externalDir string) (*TemplateStore, error) {
	s := &TemplateStore{engine: engine, externalDir: externalDir}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads every template from disk or the embedded set
func (s *TemplateStore) Reload() error {
	layout, err := s.loadContent(layoutFile)
	if err != nil {
		return err
	}

	templates := make(map[fulfillment.DocumentType]*DocumentTemplate)
	for _, dt := range GetDefaultTemplates() {
		content, err := s.loadContent(dt.FilePath)
		if err != nil {
			return fmt.Errorf("failed to load template %s: %w", dt.Name, err)
		}
		tmpl, err := s.engine.Parse(string(dt.DocType), content)
		if err != nil {
			return err
		}
		if _, err := tmpl.Parse(layout); err != nil {
			return NewRenderError(ErrCodeInvalidHTML, "failed to parse layout for "+dt.Name, err)
		}
		templates[dt.DocType] = &DocumentTemplate{
			DocType:     dt.DocType,
			Name:        dt.Name,
			PaperSize:   dt.PaperSize,
			Orientation: dt.Orientation,
			Margins:     dt.Margins,
			tmpl:        tmpl,
		}
	}

	s.mu.Lock()
	s.templates = templates
	s.mu.Unlock()
	return nil
}

func (s *TemplateStore) loadContent(embeddedPath string) (string, error) {
	if s.externalDir != "" {
		externalPath := filepath.Join(s.externalDir, filepath.Base(embeddedPath))
		if content, err := os.ReadFile(externalPath); err == nil {
			return string(content), nil
		}
	}
	return LoadTemplateContent(embeddedPath)
}

// Get returns the template for a document type, or nil
func (s *TemplateStore) Get(docType fulfillment.DocumentType) *DocumentTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.templates[docType]
}
