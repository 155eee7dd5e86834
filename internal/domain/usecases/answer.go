package usecases

import (
	"context"
	"fmt"
	"log"

	"github.com/0xcro3dile/hybridrag-go/internal/domain/entities"
	"github.com/0xcro3dile/hybridrag-go/internal/domain/ports"
)

// AnswerGenerator grounds a single model call in a formatted context.
type AnswerGenerator struct {
	model ports.ChatModel
	p     phrases
}

// NewAnswerGenerator creates a generator answering in lang.
func NewAnswerGenerator(model ports.ChatModel, lang Language) *AnswerGenerator {
	return &AnswerGenerator{model: model, p: phrasesFor(lang)}
}

// SystemPrompt builds the instruction preamble with the context embedded.
func (g *AnswerGenerator) SystemPrompt(block entities.ContextBlock) string {
	return fmt.Sprintf(g.p.systemPrompt, g.p.name, block.Text)
}

// Generate invokes the model once. On failure it returns an apology that
// embeds the error, and ok=false.
func (g *AnswerGenerator) Generate(ctx context.Context, query string, block entities.ContextBlock) (answer string, ok bool) {
	if g.model == nil {
		return g.Apology(ports.ErrGenerationFailed), false
	}

	text, err := g.model.Complete(ctx, g.SystemPrompt(block), query)
	if err != nil {
		log.Printf("[ERROR] Generating answer: %v", err)
		return g.Apology(err), false
	}
	return text, true
}

// Apology renders the user-facing failure message for err.
func (g *AnswerGenerator) Apology(err error) string {
	return fmt.Sprintf(g.p.apology, err)
}
