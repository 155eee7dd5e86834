// Package loader provides document loading adapters.
// Clean Architecture: Adapters implementing ports.DocumentLoader.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/0xcro3dile/hybridrag-go/internal/domain/entities"
	"github.com/0xcro3dile/hybridrag-go/internal/domain/ports"
)

// TextLoader loads plain text documents (.txt, .md). They have no pages,
// so the whole file becomes one page with an unknown number.
type TextLoader struct{}

// NewTextLoader creates a new text document loader.
func NewTextLoader() *TextLoader {
	return &TextLoader{}
}

// Load reads a text document from the given path.
func (l *TextLoader) Load(ctx context.Context, path string) (*entities.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return newDocument(path, []entities.Page{
		{Number: entities.PageUnknown, Text: cleanText(string(content))},
	}), nil
}

// SupportedExtensions returns file extensions this loader handles.
func (l *TextLoader) SupportedExtensions() []string {
	return []string{".txt", ".md", ".markdown"}
}

// PDFLoader loads PDF documents through a DocumentParser.
type PDFLoader struct {
	parser ports.DocumentParser
}

// NewPDFLoader creates a PDF loader backed by parser.
func NewPDFLoader(parser ports.DocumentParser) *PDFLoader {
	return &PDFLoader{parser: parser}
}

// Load reads a PDF and extracts its pages.
func (l *PDFLoader) Load(ctx context.Context, path string) (*entities.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	pages, err := l.parser.Parse(ctx, data, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	for i := range pages {
		pages[i].Text = cleanText(pages[i].Text)
	}

	return newDocument(path, pages), nil
}

// SupportedExtensions returns file extensions.
func (l *PDFLoader) SupportedExtensions() []string {
	return []string{".pdf"}
}

// MultiLoader combines multiple loaders, dispatching on file extension.
type MultiLoader struct {
	loaders map[string]ports.DocumentLoader
}

// NewMultiLoader creates a loader that handles text files and, when parser
// is not nil, PDFs.
func NewMultiLoader(parser ports.DocumentParser) *MultiLoader {
	m := &MultiLoader{loaders: make(map[string]ports.DocumentLoader)}
	m.Register(NewTextLoader())
	if parser != nil {
		m.Register(NewPDFLoader(parser))
	}
	return m
}

// Register adds l for each of its extensions, replacing earlier loaders.
func (m *MultiLoader) Register(l ports.DocumentLoader) {
	for _, ext := range l.SupportedExtensions() {
		m.loaders[ext] = l
	}
}

// Load dispatches to the appropriate loader based on extension.
func (m *MultiLoader) Load(ctx context.Context, path string) (*entities.Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	loader, ok := m.loaders[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported file type %q", ext)
	}
	return loader.Load(ctx, path)
}

// SupportedExtensions returns all supported extensions, sorted.
func (m *MultiLoader) SupportedExtensions() []string {
	exts := make([]string, 0, len(m.loaders))
	for ext := range m.loaders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func newDocument(path string, pages []entities.Page) *entities.Document {
	modTime := time.Now()
	if info, err := os.Stat(path); err == nil {
		modTime = info.ModTime()
	}
	return &entities.Document{
		ID:        entities.DocumentID(path),
		Name:      filepath.Base(path),
		Path:      path,
		Pages:     pages,
		CreatedAt: modTime,
		UpdatedAt: time.Now(),
	}
}

// cleanText drops invalid UTF-8 and control characters other than
// newlines and tabs.
func cleanText(content string) string {
	var cleaned strings.Builder
	cleaned.Grow(len(content))
	for i, r := range content {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(content[i:]); size == 1 {
				continue
			}
		}
		if r == '\n' || r == '\t' || !unicode.IsControl(r) {
			cleaned.WriteRune(r)
		}
	}
	return strings.TrimSpace(cleaned.String())
}

var (
	_ ports.DocumentLoader = (*TextLoader)(nil)
	_ ports.DocumentLoader = (*PDFLoader)(nil)
	_ ports.DocumentLoader = (*MultiLoader)(nil)
)
