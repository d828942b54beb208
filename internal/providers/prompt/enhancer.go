package prompt

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AssistRequest carries the creator's rough pitch text.
type AssistRequest struct {
	Prompt string
	Locale string
}

// AssistResponse is the drafted pitch copy.
type AssistResponse struct {
	Text     string `json:"text"`
	Provider string `json:"-"`
}

// Enhancer drafts pitch copy from a rough prompt.
type Enhancer interface {
	Enhance(ctx context.Context, req AssistRequest) (*AssistResponse, error)
}

// StaticEnhancer is the deterministic fallback used when no AI provider is
// reachable. It tidies the prompt instead of generating new copy.
type StaticEnhancer struct{}

func NewStaticEnhancer() *StaticEnhancer {
	return &StaticEnhancer{}
}

func (s *StaticEnhancer) Enhance(ctx context.Context, req AssistRequest) (*AssistResponse, error) {
	titler := cases.Title(language.Und)
	text := strings.TrimSpace(req.Prompt)
	if text == "" {
		if req.Locale == "id" {
			text = "Ceritakan proyek Anda"
		} else {
			text = "Tell the story of your project"
		}
	}

	var sentences []string
	for _, sentence := range strings.Split(text, ".") {
		words := strings.Fields(sentence)
		if len(words) == 0 {
			continue
		}
		words[0] = titler.String(words[0])
		sentences = append(sentences, strings.Join(words, " "))
	}
	return &AssistResponse{
		Text:     strings.Join(sentences, ". ") + ".",
		Provider: staticProviderName,
	}, nil
}

var _ Enhancer = (*StaticEnhancer)(nil)
