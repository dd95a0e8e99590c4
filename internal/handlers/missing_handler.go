package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/manor5/electraSIR/internal/middleware"
	"github.com/manor5/electraSIR/internal/models"
	"github.com/manor5/electraSIR/internal/services"
)

// MissingHandler handles reconciliation of staging rows.
type MissingHandler struct {
	service services.MissingService
}

// NewMissingHandler creates a new MissingHandler instance.
func NewMissingHandler(service services.MissingService) *MissingHandler {
	return &MissingHandler{
		service: service,
	}
}

// MissingListRequest holds the paging query parameters.
type MissingListRequest struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// CandidatesRequest optionally overrides the names and age searched.
type CandidatesRequest struct {
	Name         string `json:"name" binding:"max=200"`
	RelativeName string `json:"relativeName" binding:"max=200"`
	Age          *int   `json:"age" binding:"omitempty,min=1,max=150"`
}

// MapRequest links a staging row to a roll row.
type MapRequest struct {
	Constituency string `json:"constituency" binding:"required,max=100"`
	BoothNo      int    `json:"boothNo" binding:"required,min=1"`
	SerialNo     int    `json:"serialNo" binding:"required,min=1"`
	Source       string `json:"source" binding:"required,oneof=flagship other"`
}

// List handles GET /api/v1/missing.
func (h *MissingHandler) List(c *gin.Context) {
	var req MissingListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err, "Invalid query parameters")
		return
	}

	page, err := h.service.ListUnmapped(c.Request.Context(), req.Page, req.Limit)
	if err != nil {
		serviceError(c, err, "Failed to list unmapped records")
		return
	}
	ok(c, page)
}

// Candidates handles POST /api/v1/missing/:id/candidates.
func (h *MissingHandler) Candidates(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}

	var req CandidatesRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err, "Invalid candidate request")
			return
		}
	}

	set, err := h.service.SearchCandidates(c.Request.Context(), id, services.CandidateRequest{
		Name:         req.Name,
		RelativeName: req.RelativeName,
		Age:          req.Age,
	})
	if err != nil {
		serviceError(c, err, "Failed to search candidates")
		return
	}
	ok(c, set)
}

// Mark handles POST /api/v1/missing/:id/mark.
func (h *MissingHandler) Mark(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := h.service.MarkNoMatch(c.Request.Context(), id); err != nil {
		serviceError(c, err, "Failed to mark record")
		return
	}
	h.logResolution(c, "mark", id)
	ok(c, gin.H{"id": id, "bestMatch": models.BestMatchNone})
}

// Map handles POST /api/v1/missing/:id/map.
func (h *MissingHandler) Map(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}

	var req MapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "Invalid mapping request")
		return
	}

	mapping := models.Mapping{
		Constituency: req.Constituency,
		BoothNo:      req.BoothNo,
		SerialNo:     req.SerialNo,
		Source:       models.CandidateSource(req.Source),
	}
	if err := h.service.MapToCandidate(c.Request.Context(), id, mapping); err != nil {
		serviceError(c, err, "Failed to map record")
		return
	}
	h.logResolution(c, "map", id)
	ok(c, gin.H{"id": id, "bestMatch": mapping.Source.BestMatch()})
}

// Unmark handles POST /api/v1/missing/:id/unmark.
func (h *MissingHandler) Unmark(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := h.service.Unmark(c.Request.Context(), id); err != nil {
		serviceError(c, err, "Failed to unmark record")
		return
	}
	h.logResolution(c, "unmark", id)
	ok(c, gin.H{"id": id})
}

func (h *MissingHandler) logResolution(c *gin.Context, action string, id int64) {
	if log := middleware.GetLogger(c); log != nil {
		log.Info("Missing record resolved", map[string]interface{}{
			"action":    action,
			"record_id": id,
		})
	}
}
