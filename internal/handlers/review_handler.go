package handlers

import (
	"net/http"

	"fixer_backend/internal/middleware"
	"fixer_backend/internal/models"
	"fixer_backend/internal/services"
	"fixer_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	*BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(base *BaseHandler, reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   base,
		reviewService: reviewService,
	}
}

func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// Published reviews are public.
	rg.GET("/professionals/:id/reviews", h.ListProfessionalReviews)

	reviews := rg.Group("/reviews")
	reviews.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleClient))
	{
		reviews.POST("", h.CreateReview)
	}

	admin := rg.Group("/admin/reviews")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.GET("/pending", h.ListPendingReviews)
		admin.POST("/:id/moderate", h.ModerateReview)
	}
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.reviewService.CreateReview(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *ReviewHandler) ListProfessionalReviews(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	resp, err := h.reviewService.ListProfessionalReviews(h.GetDB(c), c.Param("id"), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ReviewHandler) ListPendingReviews(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	resp, err := h.reviewService.ListPendingReviews(h.GetDB(c), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ReviewHandler) ModerateReview(c *gin.Context) {
	var req dto.ModerateReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.reviewService.ModerateReview(h.GetDB(c), c.Param("id"), req.Status); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review moderated."})
}
