// internal/handlers/review.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/fragrance-catalog/internal/i18n"
	"github.com/javajoker/fragrance-catalog/internal/services"
	"github.com/javajoker/fragrance-catalog/internal/utils"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
	priceService  *services.PriceService
}

func NewReviewHandler(reviewService *services.ReviewService, priceService *services.PriceService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		priceService:  priceService,
	}
}

// POST /api/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	identity, ok := utils.GetIdentityFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateReviewRequest
	if !bindAndValidate(c, &req) {
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), identity, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, review)
}

// PUT /api/reviews/:id
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	identity, ok := utils.GetIdentityFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, ok := parseID(c, i18n.KeyReviewInvalid)
	if !ok {
		return
	}

	var req services.UpdateReviewRequest
	if !bindAndValidate(c, &req) {
		return
	}

	review, err := h.reviewService.UpdateReview(c.Request.Context(), identity, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, review)
}

// PUT /api/prices/:id
func (h *ReviewHandler) UpdatePrice(c *gin.Context) {
	id, ok := parseID(c, i18n.KeyPriceInvalid)
	if !ok {
		return
	}

	var req services.UpdatePriceRequest
	if !bindAndValidate(c, &req) {
		return
	}

	price, err := h.priceService.UpdatePrice(c.Request.Context(), id, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, price)
}
