// internal/handlers/fragrance.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/fragrance-catalog/internal/i18n"
	"github.com/javajoker/fragrance-catalog/internal/services"
	"github.com/javajoker/fragrance-catalog/internal/utils"
)

type FragranceHandler struct {
	catalogService   *services.CatalogService
	fragranceService *services.FragranceService
	maxPageSize      int
}

func NewFragranceHandler(catalogService *services.CatalogService, fragranceService *services.FragranceService, maxPageSize int) *FragranceHandler {
	return &FragranceHandler{
		catalogService:   catalogService,
		fragranceService: fragranceService,
		maxPageSize:      maxPageSize,
	}
}

// GET /api/fragrances
func (h *FragranceHandler) ListFragrances(c *gin.Context) {
	pagination := utils.GetPaginationParams(c, h.maxPageSize)

	params := services.ListParams{
		Search:    c.Query("search"),
		Notes:     noteFilter(c),
		NoteMatch: services.ParseNoteMatch(c.Query("note_match")),
		Sort:      services.ParseSortKey(c.Query("sort")),
		Limit:     pagination.Limit,
		Offset:    pagination.Offset(),
	}

	fragrances, err := h.catalogService.ListFragrances(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	if pagination.Limit == 0 {
		utils.SuccessResponse(c, fragrances)
		return
	}

	utils.SetPaginationHeaders(c, pagination, len(fragrances))
	utils.SuccessResponseWithMeta(c, fragrances, gin.H{
		"page":  pagination.Page,
		"limit": pagination.Limit,
		"count": len(fragrances),
	})
}

// noteFilter accepts ?notes=a&notes=b, ?notes[]=a and ?notes=a,b.
func noteFilter(c *gin.Context) []string {
	var notes []string
	for _, key := range []string{"notes", "notes[]"} {
		for _, value := range c.QueryArray(key) {
			notes = append(notes, strings.Split(value, ",")...)
		}
	}
	return notes
}

// GET /api/fragrances/:id
func (h *FragranceHandler) GetFragrance(c *gin.Context) {
	id, ok := parseID(c, i18n.KeyFragranceInvalidID)
	if !ok {
		return
	}

	fragrance, err := h.catalogService.GetFragrance(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, fragrance)
}

// POST /api/fragrances
func (h *FragranceHandler) CreateFragrance(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateFragranceRequest
	if !bindAndValidate(c, &req) {
		return
	}

	id, err := h.fragranceService.CreateFragrance(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"id":      id,
		"message": i18n.T(lang, i18n.KeyFragranceCreated),
	})
}

// DELETE /api/fragrances/:id
func (h *FragranceHandler) DeleteFragrance(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, ok := parseID(c, i18n.KeyFragranceInvalidID)
	if !ok {
		return
	}

	if err := h.fragranceService.DeleteFragrance(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"id":      id,
		"message": i18n.T(lang, i18n.KeyFragranceDeleted),
	})
}

// GET /api/notes
func (h *FragranceHandler) ListNotes(c *gin.Context) {
	notes, err := h.catalogService.ListNotes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, notes)
}
