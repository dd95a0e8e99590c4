package services

import (
	"context"
	"strings"

	"github.com/manor5/electraSIR/internal/logger"
	"github.com/manor5/electraSIR/internal/transliterate"
)

// TransliterationService converts Latin input to Tamil for the search form.
type TransliterationService interface {
	// Transliterate returns the Tamil rendering of text. When the upstream
	// call fails the input is returned unchanged along with the error.
	Transliterate(ctx context.Context, text string) (string, error)
}

type transliterationService struct {
	client transliterate.Transliterator
	log    *logger.Logger
}

// NewTransliterationService creates a new instance of TransliterationService.
func NewTransliterationService(client transliterate.Transliterator, log *logger.Logger) TransliterationService {
	return &transliterationService{
		client: client,
		log:    log,
	}
}

func (s *transliterationService) Transliterate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	native, err := s.client.Transliterate(ctx, text)
	if err != nil {
		s.log.Warn("Transliteration failed", map[string]interface{}{
			"text":  text,
			"error": err.Error(),
		})
		return text, err
	}
	return normalize(native), nil
}
