package usecases

import (
	"fmt"
	"strings"

	"github.com/0xcro3dile/hybridrag-go/internal/domain/ports"
)

// Language selects the wording of prompts, context headers and apologies.
type Language string

const (
	LanguageEnglish    Language = "en"
	LanguageIndonesian Language = "id"
)

// ParseLanguage accepts a language code such as "en" or "id".
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LanguageEnglish, "":
		return LanguageEnglish, nil
	case LanguageIndonesian:
		return LanguageIndonesian, nil
	default:
		return "", fmt.Errorf("%w: unsupported response language %q", ports.ErrInvalidConfig, s)
	}
}

// phrases holds every user-visible string for one language.
type phrases struct {
	name         string
	localHeader  string
	webHeader    string
	docLabel     string // "[%s %d: %s, %s %s]"
	pageWord     string
	webLabel     string
	noContext    string
	apology      string
	systemPrompt string // %s = language name, %s = context
}

var phrasebook = map[Language]phrases{
	LanguageEnglish: {
		name:        "English",
		localHeader: "=== INFORMATION FROM LOCAL DOCUMENTS ===",
		webHeader:   "=== INFORMATION FROM THE WEB ===",
		docLabel:    "Document",
		pageWord:    "Page",
		webLabel:    "Web Source",
		noContext:   "No context available.",
		apology:     "Sorry, an error occurred while generating the answer: %v",
		systemPrompt: `You are a helpful and professional AI assistant.

IMPORTANT RULES:
1. Always answer in %s, in a natural and professional tone.
2. You can read source documents written in any language.
3. Answer only from the context given below.
4. When information comes from a local document, cite the document name and page.
5. When information comes from a web search, cite the web source.
6. If you are unsure or the context holds nothing relevant, say so honestly instead of guessing.
7. Keep the answer neatly formatted and easy to read.

Available context:
%s`,
	},
	LanguageIndonesian: {
		name:        "Bahasa Indonesia",
		localHeader: "=== INFORMASI DARI DOKUMEN LOKAL ===",
		webHeader:   "=== INFORMASI DARI WEB ===",
		docLabel:    "Dokumen",
		pageWord:    "Halaman",
		webLabel:    "Sumber Web",
		noContext:   "Tidak ada konteks yang tersedia.",
		apology:     "Maaf, terjadi kesalahan saat menghasilkan jawaban: %v",
		systemPrompt: `Kamu adalah asisten AI yang membantu dan profesional.

ATURAN PENTING:
1. Selalu jawab dalam %s yang natural dan profesional.
2. Kamu dapat membaca dokumen sumber dalam bahasa apa pun.
3. Jawab hanya berdasarkan konteks di bawah ini.
4. Jika informasi berasal dari dokumen lokal, sebutkan nama dokumen dan halamannya.
5. Jika informasi berasal dari pencarian web, sebutkan sumber webnya.
6. Jika tidak yakin atau konteks tidak memuat informasi yang relevan, katakan dengan jujur.
7. Gunakan format yang rapi dan mudah dibaca.

Konteks yang tersedia:
%s`,
	},
}

func phrasesFor(lang Language) phrases {
	if p, ok := phrasebook[lang]; ok {
		return p
	}
	return phrasebook[LanguageEnglish]
}
