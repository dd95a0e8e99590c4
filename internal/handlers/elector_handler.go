package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/manor5/electraSIR/internal/middleware"
	"github.com/manor5/electraSIR/internal/models"
	"github.com/manor5/electraSIR/internal/services"
)

// ElectorHandler handles roll search, household lookup and the usage
// counter.
type ElectorHandler struct {
	service services.SearchService
}

// NewElectorHandler creates a new ElectorHandler instance.
func NewElectorHandler(service services.SearchService) *ElectorHandler {
	return &ElectorHandler{
		service: service,
	}
}

// SearchRequest is the body of the search endpoint. Every field is
// optional.
type SearchRequest struct {
	Name         string `json:"name" binding:"max=200"`
	RelativeName string `json:"relativeName" binding:"max=200"`
	Relation     string `json:"relation" binding:"max=50"`
	Gender       string `json:"gender" binding:"omitempty,oneof=M F m f"`
	Epic         string `json:"epic" binding:"max=20"`
	BoothNumbers string `json:"boothNumbers" binding:"omitempty,boothlist"`
	Constituency string `json:"constituencyId" binding:"max=100"`
	BirthYear    int    `json:"birthYear" binding:"omitempty,min=1900,max=2100"`
}

// FamilyRequest is the body of the family endpoint: the elector whose
// household is wanted.
type FamilyRequest struct {
	ID           int64  `json:"id" binding:"required,min=1"`
	Name         string `json:"name"`
	Relation     string `json:"relation"`
	RelativeName string `json:"relativeName"`
	DoorNo       string `json:"doorNo"`
	BoothNo      *int   `json:"boothNo" binding:"omitempty,min=0"`
}

// ElectorListResponse wraps a list of roll rows.
type ElectorListResponse struct {
	Results []models.Elector `json:"results"`
	Count   int              `json:"count"`
}

// StatsResponse is the body of the stats endpoint.
type StatsResponse struct {
	Count int64 `json:"count"`
}

// Search handles POST /api/v1/electors/search.
func (h *ElectorHandler) Search(c *gin.Context) {
	log := middleware.GetLogger(c)

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "Invalid search request")
		return
	}

	if log != nil {
		log.Debug("Processing elector search", map[string]interface{}{
			"booths":       req.BoothNumbers,
			"constituency": req.Constituency,
		})
	}

	electors, err := h.service.SearchElectors(c.Request.Context(), services.SearchRequest{
		Name:         req.Name,
		RelativeName: req.RelativeName,
		Relation:     req.Relation,
		Gender:       req.Gender,
		Epic:         req.Epic,
		Booths:       req.BoothNumbers,
		Constituency: req.Constituency,
		BirthYear:    req.BirthYear,
	})
	if err != nil {
		serviceError(c, err, "Failed to search the roll")
		return
	}

	ok(c, ElectorListResponse{Results: electors, Count: len(electors)})
}

// Family handles POST /api/v1/electors/family.
func (h *ElectorHandler) Family(c *gin.Context) {
	var req FamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "Invalid family request")
		return
	}

	members, err := h.service.FindFamily(c.Request.Context(), services.FamilyRequest{
		ID:           req.ID,
		Name:         req.Name,
		Relation:     req.Relation,
		RelativeName: req.RelativeName,
		DoorNo:       req.DoorNo,
		BoothNo:      req.BoothNo,
	})
	if err != nil {
		serviceError(c, err, "Failed to look up family members")
		return
	}

	ok(c, ElectorListResponse{Results: members, Count: len(members)})
}

// Stats handles GET /api/v1/stats.
func (h *ElectorHandler) Stats(c *gin.Context) {
	count, err := h.service.Stats(c.Request.Context())
	if err != nil {
		serviceError(c, err, "Failed to read usage statistics")
		return
	}
	ok(c, StatsResponse{Count: count})
}
