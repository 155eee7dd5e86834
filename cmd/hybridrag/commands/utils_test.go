package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/0xcro3dile/hybridrag-go/internal/domain/entities"
	"github.com/0xcro3dile/hybridrag-go/internal/domain/usecases"
)

func TestRenderResult_Text(t *testing.T) {
	quiet = false
	res := entities.QueryResult{
		Answer:        "Use exponential backoff.",
		Sources:       []string{"guide.pdf, page 3", "notes.txt"},
		LocalHitCount: 2,
	}

	var out bytes.Buffer
	if err := renderResult(&out, res, "auto"); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"Use exponential backoff.", "Sources:", "  - guide.pdf, page 3", "  - notes.txt", "[local documents, 2 passages]"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output should contain %q:\n%s", want, out.String())
		}
	}
}

func TestRenderResult_WebAndQuiet(t *testing.T) {
	t.Cleanup(func() { quiet = false })

	res := entities.QueryResult{Answer: "a", Sources: []string{}, UsedWebSearch: true, WebHitCount: 3}

	quiet = false
	var out bytes.Buffer
	renderResult(&out, res, "text")
	if !strings.Contains(out.String(), "[web search, 3 results]") {
		t.Errorf("missing route line:\n%s", out.String())
	}
	if strings.Contains(out.String(), "Sources:") {
		t.Error("no sources header expected for empty sources")
	}

	quiet = true
	out.Reset()
	renderResult(&out, res, "text")
	if strings.TrimSpace(out.String()) != "a" {
		t.Errorf("quiet output should be the answer only, got %q", out.String())
	}
}

func TestRenderResult_JSON(t *testing.T) {
	res := entities.QueryResult{Answer: "a", Sources: []string{"s"}, UsedWebSearch: true, WebHitCount: 1}

	var out bytes.Buffer
	if err := renderResult(&out, res, "json"); err != nil {
		t.Fatal(err)
	}

	var got entities.QueryResult
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Answer != "a" || !got.UsedWebSearch || got.WebHitCount != 1 {
		t.Errorf("unexpected decoded result: %+v", got)
	}
}

func TestRenderReport(t *testing.T) {
	var out bytes.Buffer
	renderReport(&out, &usecases.IngestReport{Dir: "data", Files: 2, Pages: 5, Chunks: 9}, "text")
	if !strings.Contains(out.String(), "Indexed 9 chunks from 2 files (5 pages) in data") {
		t.Errorf("unexpected report: %s", out.String())
	}

	out.Reset()
	renderReport(&out, &usecases.IngestReport{Chunks: 9, Reused: true}, "text")
	if !strings.Contains(out.String(), "Reused existing index with 9 chunks") {
		t.Errorf("unexpected report: %s", out.String())
	}
}

type stubAsker struct {
	queries []string
}

func (s *stubAsker) Ask(ctx context.Context, query string) entities.QueryResult {
	s.queries = append(s.queries, query)
	return entities.QueryResult{Answer: "answer to " + query, Sources: []string{}}
}

func TestChatLoop(t *testing.T) {
	quiet = true
	t.Cleanup(func() { quiet = false })

	in := strings.NewReader("first\n\n/history\n/reset\n/history\nsecond\n/exit\nignored\n")
	var out bytes.Buffer
	a := &stubAsker{}

	if err := chatLoop(context.Background(), in, &out, a); err != nil {
		t.Fatal(err)
	}

	if len(a.queries) != 2 || a.queries[0] != "first" || a.queries[1] != "second" {
		t.Errorf("unexpected queries: %v", a.queries)
	}
	text := out.String()
	for _, want := range []string{"answer to first", "user: first", "assistant: answer to first", "Conversation cleared.", "No messages yet.", "answer to second"} {
		if !strings.Contains(text, want) {
			t.Errorf("output should contain %q:\n%s", want, text)
		}
	}
}

func TestChatLoop_EOF(t *testing.T) {
	a := &stubAsker{}
	if err := chatLoop(context.Background(), strings.NewReader("only\n"), &bytes.Buffer{}, a); err != nil {
		t.Fatal(err)
	}
	if len(a.queries) != 1 {
		t.Errorf("expected one query, got %v", a.queries)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a longer sentence", 10, "a longe..."},
		{"héllo wörld", 8, "héllo..."},
		{"abcdef", 2, "ab"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
