package adapters

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ppiankov/campusfaq/internal/model"
)

// Adapter turns the raw bytes of one document format into page texts
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// CanHandle checks if this adapter can read a document with the given name/content type
	CanHandle(name string, contentType string) bool

	// ExtractPages returns the text of every page (or sheet), numbered from 1
	ExtractPages(data []byte) ([]model.Page, error)
}

// Registry manages document format adapters
type Registry struct {
	adapters []Adapter
	fallback Adapter
}

// NewRegistry creates a registry with the built-in adapters.
// Plain text is the fallback for anything unrecognized.
func NewRegistry() *Registry {
	registry := &Registry{
		adapters: make([]Adapter, 0),
	}

	registry.Register(NewPDFAdapter())
	registry.Register(NewDOCXAdapter())
	registry.Register(NewXLSXAdapter())
	registry.Register(NewXLSAdapter())
	registry.Register(NewHTMLAdapter())

	registry.fallback = NewTextAdapter()

	return registry
}

// Register registers a new adapter; later registrations are tried last
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// FindAdapter finds the adapter for the given document name and content type
func (r *Registry) FindAdapter(name string, contentType string) Adapter {
	for _, adapter := range r.adapters {
		if adapter.CanHandle(name, contentType) {
			return adapter
		}
	}
	return r.fallback
}

// Extract reads pages with the matching adapter. Parser panics on malformed
// input are returned as errors.
func (r *Registry) Extract(name string, contentType string, data []byte) (pages []model.Page, adapterName string, err error) {
	adapter := r.FindAdapter(name, contentType)
	adapterName = adapter.Name()

	defer func() {
		if rec := recover(); rec != nil {
			pages = nil
			err = fmt.Errorf("%s adapter: %w: %v", adapterName, model.ErrUnsupportedFormat, rec)
		}
	}()

	pages, err = adapter.ExtractPages(data)
	if err != nil {
		return nil, adapterName, fmt.Errorf("%s adapter: %w", adapterName, err)
	}
	return pages, adapterName, nil
}

// hasExtension reports whether name ends in one of exts (case-insensitive)
func hasExtension(name string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// hasContentType reports whether contentType starts with one of types
func hasContentType(contentType string, types ...string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	for _, t := range types {
		if strings.HasPrefix(ct, t) {
			return true
		}
	}
	return false
}

// singlePage wraps text as page 1, or returns nothing for blank text
func singlePage(text string) []model.Page {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return []model.Page{{Number: 1, Text: text}}
}
