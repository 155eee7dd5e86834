package parser

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPythonPDFParser_Parse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/parse" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"text":  "Hello from PDF",
			"pages": 1,
		})
	}))
	defer server.Close()

	parser := NewPythonPDFParser(server.URL)
	pages, err := parser.Parse(context.Background(), []byte("fake pdf"), "test.pdf")

	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(pages) != 1 || pages[0].Text != "Hello from PDF" || pages[0].Number != 1 {
		t.Errorf("unexpected pages: %+v", pages)
	}
}

func TestPythonPDFParser_SplitsFormFeeds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"text":  "first\f\fthird",
			"pages": 3,
		})
	}))
	defer server.Close()

	pages, err := NewPythonPDFParser(server.URL).Parse(context.Background(), nil, "book.pdf")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if len(pages) != 2 {
		t.Fatalf("blank page should be dropped, got %+v", pages)
	}
	if pages[1].Number != 3 || pages[1].Text != "third" {
		t.Errorf("page numbers should survive blank pages: %+v", pages[1])
	}
}

func TestPythonPDFParser_PrefersPageTexts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"text":       "ignored",
			"page_texts": []string{"one", "two"},
		})
	}))
	defer server.Close()

	pages, _ := NewPythonPDFParser(server.URL).Parse(context.Background(), nil, "x.pdf")
	if len(pages) != 2 || pages[0].Text != "one" {
		t.Errorf("unexpected pages: %+v", pages)
	}
}

func TestPythonPDFParser_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": "parsing failed",
			"text":  "",
		})
	}))
	defer server.Close()

	parser := NewPythonPDFParser(server.URL)
	_, err := parser.Parse(context.Background(), []byte("bad"), "test.pdf")

	if err == nil {
		t.Error("should error on parse failure")
	}
}

func TestPythonPDFParser_SupportedFormats(t *testing.T) {
	parser := NewPythonPDFParser("")
	formats := parser.SupportedFormats()

	if len(formats) != 1 || formats[0] != "pdf" {
		t.Error("should support only pdf")
	}
}

func TestPythonPDFParser_DefaultURL(t *testing.T) {
	parser := NewPythonPDFParser("")
	if parser.serviceURL != DefaultServiceURL {
		t.Error("should default to localhost:8081")
	}
}

func TestPythonPDFParser_IsServiceHealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		}
	}))
	defer server.Close()

	parser := NewPythonPDFParser(server.URL)
	if !parser.IsServiceHealthy(context.Background()) {
		t.Error("should be healthy")
	}
}

func TestPythonPDFParser_UnhealthyService(t *testing.T) {
	parser := NewPythonPDFParser("http://localhost:99999")
	if parser.IsServiceHealthy(context.Background()) {
		t.Error("should be unhealthy")
	}
}

func TestPythonPDFParser_StartServiceMissingScript(t *testing.T) {
	parser := NewPythonPDFParser("")
	if _, err := parser.StartService(context.Background(), t.TempDir()); err == nil {
		t.Error("missing script should be an error")
	}
}
