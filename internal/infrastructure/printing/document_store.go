package printing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	appfulfillment "github.com/erp/fulfillment/internal/application/fulfillment"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ArtifactStore persists rendered documents. Put returns the storage path.
type ArtifactStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
}

// DocumentStore renders fulfillment documents from their stored payload and
// saves the artifact
type DocumentStore struct {
	templates *TemplateStore
	engine    *TemplateEngine
	renderer  Renderer
	artifacts ArtifactStore
	logger    *zap.Logger
}

// NewDocumentStore wires templates, renderer and storage together
func NewDocumentStore(templates *TemplateStore, engine *TemplateEngine, renderer Renderer, artifacts ArtifactStore, logger *zap.Logger) *DocumentStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentStore{
		templates: templates,
		engine:    engine,
		renderer:  renderer,
		artifacts: artifacts,
		logger:    logger.Named("documents"),
	}
}

// RenderAndStore renders the payload and writes it to
// {tenant}/{type}/{yyyy}/{mm}/{number}.{ext}. The key depends only on the
// payload, so a retry overwrites the same object.
func (s *DocumentStore) RenderAndStore(ctx context.Context, req appfulfillment.RenderStoreRequest) (*appfulfillment.StoredDocument, error) {
	tmpl := s.templates.Get(req.DocumentType)
	if tmpl == nil {
		return nil, NewRenderError(ErrCodeTemplateNotFound, "no template for document type "+string(req.DocumentType), nil)
	}

	data, err := decodePayload(req.Payload)
	if err != nil {
		return nil, err
	}

	html, err := s.engine.Execute(ctx, tmpl.tmpl, data)
	if err != nil {
		return nil, err
	}

	result, err := s.renderer.Render(ctx, &RenderRequest{
		HTML:        html,
		PaperSize:   tmpl.PaperSize,
		Orientation: tmpl.Orientation,
		Margins:     tmpl.Margins,
		Title:       tmpl.Name + " " + req.DocumentNumber,
	})
	if err != nil {
		return nil, err
	}

	key := DocumentKey(req.TenantID, string(req.DocumentType), issuedAt(data), req.DocumentNumber, result.Extension)
	storagePath, err := s.artifacts.Put(ctx, key, result.Data, result.ContentType)
	if err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to store document "+req.DocumentNumber, err)
	}

	s.logger.Info("document stored",
		zap.String("tenant_id", req.TenantID.String()),
		zap.String("document_id", req.DocumentID.String()),
		zap.String("document_number", req.DocumentNumber),
		zap.String("path", storagePath),
		zap.Int("pages", result.PageCount),
		zap.Duration("render_duration", result.RenderDuration))

	return &appfulfillment.StoredDocument{StoragePath: storagePath, DocumentID: req.DocumentID}, nil
}

// Open returns a stored artifact and its content type
func (s *DocumentStore) Open(ctx context.Context, storagePath string) ([]byte, string, error) {
	data, err := s.artifacts.Get(ctx, storagePath)
	if err != nil {
		return nil, "", err
	}
	contentType := "application/pdf"
	if path.Ext(storagePath) == ".html" {
		contentType = "text/html; charset=utf-8"
	}
	return data, contentType, nil
}

// DocumentKey builds the storage key of a document
func DocumentKey(tenantID uuid.UUID, docType string, issued time.Time, number, ext string) string {
	if ext == "" {
		ext = ".pdf"
	}
	return path.Join(
		tenantID.String(),
		docType,
		fmt.Sprintf("%04d", issued.Year()),
		fmt.Sprintf("%02d", int(issued.Month())),
		number+ext,
	)
}

func decodePayload(payload []byte) (map[string]any, error) {
	if len(payload) == 0 {
		return nil, NewRenderError(ErrCodeInvalidPayload, "document payload is empty", nil)
	}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return nil, NewRenderError(ErrCodeInvalidPayload, "document payload is not valid JSON", err)
	}
	return data, nil
}

// issuedAt reads the payload timestamp, falling back to now in UTC
func issuedAt(data map[string]any) time.Time {
	if t := toTime(data["issued_at"]); !t.IsZero() {
		return t.UTC()
	}
	return time.Now().UTC()
}

var _ appfulfillment.DocumentStore = (*DocumentStore)(nil)
