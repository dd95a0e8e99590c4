package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/manor5/electraSIR/internal/middleware"
	"github.com/manor5/electraSIR/internal/services"
)

// TransliterationHandler proxies transliteration for the browser.
type TransliterationHandler struct {
	service services.TransliterationService
}

// NewTransliterationHandler creates a new TransliterationHandler instance.
func NewTransliterationHandler(service services.TransliterationService) *TransliterationHandler {
	return &TransliterationHandler{
		service: service,
	}
}

// TransliterateRequest holds the query parameters of the proxy.
type TransliterateRequest struct {
	Text string `form:"text" binding:"max=500"`
}

// TransliterateResponse carries the Tamil rendering. Fallback is set when
// the upstream failed and Result is the unchanged input.
type TransliterateResponse struct {
	Text     string `json:"text"`
	Result   string `json:"result"`
	Fallback bool   `json:"fallback"`
}

// Transliterate handles GET /api/v1/transliterate.
func (h *TransliterationHandler) Transliterate(c *gin.Context) {
	var req TransliterateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err, "Invalid query parameters")
		return
	}

	result, err := h.service.Transliterate(c.Request.Context(), req.Text)
	if err != nil {
		if log := middleware.GetLogger(c); log != nil {
			log.Warn("Returning untransliterated text", map[string]interface{}{
				"error": err.Error(),
			})
		}
		ok(c, TransliterateResponse{Text: req.Text, Result: result, Fallback: true})
		return
	}

	ok(c, TransliterateResponse{Text: req.Text, Result: result})
}
