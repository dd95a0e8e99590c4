package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/manor5/electraSIR/internal/console"
	apierrors "github.com/manor5/electraSIR/internal/errors"
	"github.com/manor5/electraSIR/internal/models"
	"github.com/manor5/electraSIR/internal/services"
)

// MaxImportBytes caps the size of an uploaded CSV file.
const MaxImportBytes = 20 << 20

// ConsoleHandler handles the administrative SQL console.
type ConsoleHandler struct {
	service services.ConsoleService
	now     func() time.Time
}

// NewConsoleHandler creates a new ConsoleHandler instance.
func NewConsoleHandler(service services.ConsoleService) *ConsoleHandler {
	return &ConsoleHandler{
		service: service,
		now:     time.Now,
	}
}

// StatementRequest carries one SQL statement.
type StatementRequest struct {
	Query string `json:"query" binding:"required"`
	// FileName labels a CSV export.
	FileName string `json:"fileName" binding:"max=100"`
}

// GenerateRequest is the body of the query-builder endpoint.
type GenerateRequest struct {
	Kind     string            `json:"kind" binding:"required,oneof=SELECT INSERT UPDATE DELETE EXPORT"`
	Table    string            `json:"table" binding:"required,max=63"`
	Columns  []string          `json:"columns" binding:"dive,max=63"`
	Values   map[string]string `json:"values"`
	Where    string            `json:"where"`
	Limit    int               `json:"limit" binding:"omitempty,min=1"`
	FilePath string            `json:"filePath"`
}

// SavedQueryRequest is the body used to create or update a saved query.
type SavedQueryRequest struct {
	Name      string  `json:"name" binding:"required,max=200"`
	Query     string  `json:"query" binding:"required"`
	GroupName *string `json:"groupName" binding:"omitempty,max=100"`
}

// OrderRequest sets a saved query's display order.
type OrderRequest struct {
	DisplayOrder *int `json:"displayOrder" binding:"required,min=0"`
}

// MoveRequest places a saved query at another query's position.
type MoveRequest struct {
	TargetID int64 `json:"targetId" binding:"required,min=1"`
}

// RiskResponse is the body of the risk endpoint.
type RiskResponse struct {
	Risk console.Risk `json:"risk"`
}

// GenerateResponse is the body of the query-builder endpoint.
type GenerateResponse struct {
	Query string       `json:"query"`
	Risk  console.Risk `json:"risk"`
}

// Execute handles POST /api/v1/console/execute.
func (h *ConsoleHandler) Execute(c *gin.Context) {
	var req StatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "Invalid query request")
		return
	}

	result, err := h.service.Execute(c.Request.Context(), callerRole(c), req.Query)
	if err != nil {
		serviceError(c, err, "Failed to execute query")
		return
	}
	ok(c, result)
}

// Export handles POST /api/v1/console/export and streams the result as CSV.
func (h *ConsoleHandler) Export(c *gin.Context) {
	var req StatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "Invalid export request")
		return
	}

	result, err := h.service.Execute(c.Request.Context(), callerRole(c), req.Query)
	if err != nil {
		serviceError(c, err, "Failed to export query")
		return
	}
	h.writeCSV(c, req.FileName, result)
}

func (h *ConsoleHandler) writeCSV(c *gin.Context, label string, result *models.QueryResult) {
	var buf bytes.Buffer
	if err := console.WriteCSV(&buf, result.Columns, result.Rows); err != nil {
		apierrors.InternalServerError(c, "Failed to encode CSV", err)
		return
	}

	name := console.FileName(label, h.now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Risk handles POST /api/v1/console/risk.
func (h *ConsoleHandler) Risk(c *gin.Context) {
	var req StatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "Invalid query request")
		return
	}
	ok(c, RiskResponse{Risk: h.service.Risk(req.Query)})
}

// Generate handles POST /api/v1/console/generate.
func (h *ConsoleHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "Invalid builder request")
		return
	}

	query, err := h.service.Generate(c.Request.Context(), console.GenerateRequest{
		Kind:     console.Kind(req.Kind),
		Table:    req.Table,
		Columns:  req.Columns,
		Values:   req.Values,
		Where:    req.Where,
		Limit:    req.Limit,
		FilePath: req.FilePath,
	})
	if err != nil {
		serviceError(c, err, "Failed to generate query")
		return
	}
	ok(c, GenerateResponse{Query: query, Risk: h.service.Risk(query)})
}

// Import handles POST /api/v1/console/import. The request is a multipart
// form with a "table" field and a "file" upload.
func (h *ConsoleHandler) Import(c *gin.Context) {
	table := strings.TrimSpace(c.PostForm("table"))
	fh, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "A CSV file is required", nil)
		return
	}
	if fh.Size > MaxImportBytes {
		apierrors.BadRequest(c, "File is too large", map[string]interface{}{
			"max_bytes": MaxImportBytes,
		})
		return
	}

	f, err := fh.Open()
	if err != nil {
		apierrors.BadRequest(c, "Failed to read the uploaded file", nil)
		return
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, MaxImportBytes))
	if err != nil {
		apierrors.BadRequest(c, "Failed to read the uploaded file", nil)
		return
	}

	result, err := h.service.Import(c.Request.Context(), callerRole(c), table, string(content))
	if err != nil {
		serviceError(c, err, "Failed to import file")
		return
	}
	ok(c, result)
}

// Tables handles GET /api/v1/console/tables.
func (h *ConsoleHandler) Tables(c *gin.Context) {
	tables, err := h.service.Tables(c.Request.Context())
	if err != nil {
		serviceError(c, err, "Failed to list tables")
		return
	}
	ok(c, tables)
}

// Columns handles GET /api/v1/console/tables/:table/columns.
func (h *ConsoleHandler) Columns(c *gin.Context) {
	cols, err := h.service.Columns(c.Request.Context(), c.Param("table"))
	if err != nil {
		serviceError(c, err, "Failed to list columns")
		return
	}
	ok(c, cols)
}

// ListSaved handles GET /api/v1/console/saved.
func (h *ConsoleHandler) ListSaved(c *gin.Context) {
	queries, err := h.service.ListSaved(c.Request.Context(), callerRole(c))
	if err != nil {
		serviceError(c, err, "Failed to list saved queries")
		return
	}
	ok(c, queries)
}

// SavedGroups handles GET /api/v1/console/saved/groups.
func (h *ConsoleHandler) SavedGroups(c *gin.Context) {
	groups, err := h.service.SavedGroups(c.Request.Context())
	if err != nil {
		serviceError(c, err, "Failed to list groups")
		return
	}
	ok(c, groups)
}

// GetSaved handles GET /api/v1/console/saved/:id.
func (h *ConsoleHandler) GetSaved(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	q, err := h.service.GetSaved(c.Request.Context(), callerRole(c), id)
	if err != nil {
		serviceError(c, err, "Failed to load saved query")
		return
	}
	ok(c, q)
}

// CreateSaved handles POST /api/v1/console/saved.
func (h *ConsoleHandler) CreateSaved(c *gin.Context) {
	var req SavedQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "Invalid saved query")
		return
	}
	q, err := h.service.CreateSaved(c.Request.Context(), callerRole(c), req.Name, req.Query, req.GroupName)
	if err != nil {
		serviceError(c, err, "Failed to save query")
		return
	}
	respond(c, http.StatusCreated, q)
}

// UpdateSaved handles PUT /api/v1/console/saved/:id.
func (h *ConsoleHandler) UpdateSaved(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req SavedQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "Invalid saved query")
		return
	}
	q, err := h.service.UpdateSaved(c.Request.Context(), callerRole(c), id, req.Name, req.Query, req.GroupName)
	if err != nil {
		serviceError(c, err, "Failed to update saved query")
		return
	}
	ok(c, q)
}

// SetSavedOrder handles PUT /api/v1/console/saved/:id/order.
func (h *ConsoleHandler) SetSavedOrder(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "Invalid order request")
		return
	}
	if err := h.service.SetSavedOrder(c.Request.Context(), callerRole(c), id, *req.DisplayOrder); err != nil {
		serviceError(c, err, "Failed to update order")
		return
	}
	ok(c, gin.H{"id": id, "displayOrder": *req.DisplayOrder})
}

// MoveSaved handles POST /api/v1/console/saved/:id/move.
func (h *ConsoleHandler) MoveSaved(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "Invalid move request")
		return
	}
	group, err := h.service.MoveSaved(c.Request.Context(), callerRole(c), id, req.TargetID)
	if err != nil {
		serviceError(c, err, "Failed to move saved query")
		return
	}
	ok(c, group)
}

// DeleteSaved handles DELETE /api/v1/console/saved/:id.
func (h *ConsoleHandler) DeleteSaved(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := h.service.DeleteSaved(c.Request.Context(), callerRole(c), id); err != nil {
		serviceError(c, err, "Failed to delete saved query")
		return
	}
	ok(c, gin.H{"id": id, "deleted": true})
}

// ExportSaved handles GET /api/v1/console/saved/:id/export.
func (h *ConsoleHandler) ExportSaved(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	q, result, err := h.service.RunSaved(c.Request.Context(), callerRole(c), id)
	if err != nil {
		serviceError(c, err, "Failed to export saved query")
		return
	}
	h.writeCSV(c, q.Name, result)
}
