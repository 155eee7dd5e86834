// Package parser provides document parsing adapters.
// Clean Architecture: Adapter implementing ports.DocumentParser.
// Calls external Python service for PDF extraction.
package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/0xcro3dile/hybridrag-go/internal/domain/entities"
	"github.com/0xcro3dile/hybridrag-go/internal/domain/ports"
)

// DefaultServiceURL is where the PDF service listens unless configured.
const DefaultServiceURL = "http://localhost:8081"

// PythonPDFParser implements ports.DocumentParser using a Python service.
// Dependency Inversion: Usecases depend on DocumentParser interface, not this.
type PythonPDFParser struct {
	serviceURL string
	client     *http.Client
	pythonCmd  *exec.Cmd
}

// NewPythonPDFParser creates a new PDF parser that calls Python service.
func NewPythonPDFParser(serviceURL string) *PythonPDFParser {
	if serviceURL == "" {
		serviceURL = DefaultServiceURL
	}
	return &PythonPDFParser{
		serviceURL: serviceURL,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// parseResponse is the Python service response format. Services that know
// page boundaries fill PageTexts; otherwise pages are separated by form
// feeds in Text.
type parseResponse struct {
	Text      string   `json:"text"`
	Pages     int      `json:"pages"`
	PageTexts []string `json:"page_texts,omitempty"`
	Library   string   `json:"library,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// Parse extracts numbered pages from PDF bytes via the Python service.
func (p *PythonPDFParser) Parse(ctx context.Context, data []byte, filename string) ([]entities.Page, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", p.serviceURL+"/parse", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("X-Filename", filepath.Base(filename))

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling PDF service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var result parseResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if result.Error != "" {
		return nil, fmt.Errorf("PDF parse error: %s", result.Error)
	}

	return result.pages(), nil
}

// pages numbers the extracted text from 1. Empty pages are dropped but
// keep their number slot.
func (r parseResponse) pages() []entities.Page {
	texts := r.PageTexts
	if len(texts) == 0 {
		texts = strings.Split(r.Text, "\f")
	}

	pages := make([]entities.Page, 0, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, entities.Page{Number: i + 1, Text: text})
	}
	return pages
}

// SupportedFormats returns formats this parser handles.
func (p *PythonPDFParser) SupportedFormats() []string {
	return []string{"pdf"}
}

// StartService starts the Python PDF service as a subprocess.
// Returns a cleanup function to stop the service.
func (p *PythonPDFParser) StartService(ctx context.Context, scriptDir string) (func(), error) {
	scriptPath := filepath.Join(scriptDir, "pdf_service.py")
	if _, err := os.Stat(scriptPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("pdf_service.py not found at %s", scriptPath)
	}

	p.pythonCmd = exec.Command("python3", scriptPath)
	p.pythonCmd.Stdout = os.Stderr
	p.pythonCmd.Stderr = os.Stderr

	if err := p.pythonCmd.Start(); err != nil {
		return nil, fmt.Errorf("starting Python service: %w", err)
	}

	cleanup := func() {
		if p.pythonCmd != nil && p.pythonCmd.Process != nil {
			p.pythonCmd.Process.Kill()
			p.pythonCmd.Wait()
		}
	}

	// Wait for service to be ready
	deadline := time.Now().Add(10 * time.Second)
	for !p.IsServiceHealthy(ctx) {
		if time.Now().After(deadline) {
			cleanup()
			return nil, fmt.Errorf("PDF service did not become healthy at %s", p.serviceURL)
		}
		select {
		case <-ctx.Done():
			cleanup()
			return nil, ctx.Err()
		case <-time.After(250 * time.Millisecond):
		}
	}

	return cleanup, nil
}

// IsServiceHealthy checks if the Python service is running.
func (p *PythonPDFParser) IsServiceHealthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, "GET", p.serviceURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

var _ ports.DocumentParser = (*PythonPDFParser)(nil)
