package handlers

import (
	"github.com/gin-gonic/gin"
	apierrors "github.com/manor5/electraSIR/internal/errors"
	"github.com/manor5/electraSIR/internal/reference"
)

// ReferenceHandler serves the static catalog.
type ReferenceHandler struct {
	catalog *reference.Catalog
}

// NewReferenceHandler creates a new ReferenceHandler instance.
func NewReferenceHandler(catalog *reference.Catalog) *ReferenceHandler {
	return &ReferenceHandler{
		catalog: catalog,
	}
}

// ResolveResponse pairs a district with one of its constituencies.
type ResolveResponse struct {
	District     reference.District     `json:"district"`
	Constituency reference.Constituency `json:"constituency"`
}

// Districts handles GET /api/v1/reference/districts.
func (h *ReferenceHandler) Districts(c *gin.Context) {
	ok(c, h.catalog.Districts)
}

// Constituencies handles GET /api/v1/reference/districts/:district/constituencies.
// The district may be given by id or name.
func (h *ReferenceHandler) Constituencies(c *gin.Context) {
	d, found := h.catalog.FindDistrict(c.Param("district"))
	if !found {
		apierrors.NotFound(c, "District not found")
		return
	}
	ok(c, h.catalog.ConstituenciesOf(d.ID))
}

// Genders handles GET /api/v1/reference/genders.
func (h *ReferenceHandler) Genders(c *gin.Context) {
	ok(c, h.catalog.Genders)
}

// Resolve handles GET /api/v1/reference/resolve/:district/:constituency.
func (h *ReferenceHandler) Resolve(c *gin.Context) {
	d, con, found := h.catalog.Resolve(c.Param("district"), c.Param("constituency"))
	if !found {
		apierrors.NotFound(c, "No such constituency in this district")
		return
	}
	ok(c, ResolveResponse{District: d, Constituency: con})
}
