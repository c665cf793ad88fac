package handlers

import (
	"net/http"

	"fixer_backend/internal/middleware"
	"fixer_backend/internal/models"
	"fixer_backend/internal/services"
	"fixer_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type QuoteHandler struct {
	*BaseHandler
	quoteService services.QuoteService
}

func NewQuoteHandler(base *BaseHandler, quoteService services.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		BaseHandler:  base,
		quoteService: quoteService,
	}
}

func (h *QuoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	proJobs := rg.Group("/jobs")
	proJobs.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleProfessional))
	{
		proJobs.POST("/:id/quotes", h.SubmitQuote)
	}

	clientJobs := rg.Group("/jobs")
	clientJobs.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleClient))
	{
		clientJobs.GET("/:id/quotes", h.ListJobQuotes)
	}

	proQuotes := rg.Group("/quotes")
	proQuotes.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleProfessional))
	{
		proQuotes.GET("/my", h.ListMyQuotes)
		proQuotes.POST("/:id/withdraw", h.WithdrawQuote)
	}

	clientQuotes := rg.Group("/quotes")
	clientQuotes.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleClient))
	{
		clientQuotes.POST("/:id/accept", h.AcceptQuote)
	}
}

func (h *QuoteHandler) SubmitQuote(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitQuoteRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.quoteService.SubmitQuote(h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *QuoteHandler) ListJobQuotes(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.quoteService.ListJobQuotes(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"quotes": resp})
}

func (h *QuoteHandler) ListMyQuotes(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)

	resp, err := h.quoteService.ListMyQuotes(h.GetDB(c), userID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *QuoteHandler) AcceptQuote(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.quoteService.AcceptQuote(h.GetDB(c), userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quote accepted."})
}

func (h *QuoteHandler) WithdrawQuote(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.quoteService.WithdrawQuote(h.GetDB(c), userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quote withdrawn."})
}
