package entities

import (
	"reflect"
	"testing"
)

func TestDocument_Content(t *testing.T) {
	doc := Document{
		ID:   "doc-123",
		Name: "guide.pdf",
		Pages: []Page{
			{Number: 1, Text: "first"},
			{Number: 2, Text: "second"},
		},
	}

	if got := doc.Content(); got != "first\nsecond" {
		t.Errorf("unexpected content: %q", got)
	}
}

func TestChunk_Provenance(t *testing.T) {
	withPage := Chunk{SourceID: "guide.pdf", Page: 3}
	noPage := Chunk{SourceID: "notes.md", Page: PageUnknown}

	if withPage.Provenance() != "guide.pdf, page 3" {
		t.Errorf("unexpected provenance: %s", withPage.Provenance())
	}
	if noPage.Provenance() != "notes.md" {
		t.Errorf("unexpected provenance: %s", noPage.Provenance())
	}
	if noPage.PageLabel() != "N/A" {
		t.Errorf("unknown page should render N/A, got %s", noPage.PageLabel())
	}
}

func TestSearchResult_Provenance(t *testing.T) {
	r := SearchResult{Title: "Go", URL: "https://go.dev"}
	if r.Provenance() != "Go - https://go.dev" {
		t.Errorf("unexpected provenance: %s", r.Provenance())
	}
}

func TestSourceSet_Deduplicates(t *testing.T) {
	got := SourceSet([]string{"b", "a", "b", "a", "c"})
	want := []string{"a", "b", "c"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSourceSet_EmptyIsNonNil(t *testing.T) {
	got := SourceSet(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil set, got %#v", got)
	}
}

func TestContextBlock_Empty(t *testing.T) {
	if !(ContextBlock{}).Empty() {
		t.Error("zero block should be empty")
	}
	if (ContextBlock{WebHits: 1}).Empty() {
		t.Error("block with web hits should not be empty")
	}
}

func TestConversation_Turns(t *testing.T) {
	var conv Conversation
	conv.AddUser("what is X?")
	conv.AddAnswer(QueryResult{Answer: "X is Y", Sources: []string{"doc.pdf"}})

	if len(conv.Turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(conv.Turns))
	}
	if conv.Turns[0].Role != RoleUser || conv.Turns[1].Role != RoleAssistant {
		t.Error("roles not set correctly")
	}
	if conv.Turns[1].Sources[0] != "doc.pdf" {
		t.Error("sources should be copied onto the assistant turn")
	}

	conv.Reset()
	if len(conv.Turns) != 0 {
		t.Error("reset should clear turns")
	}
}
