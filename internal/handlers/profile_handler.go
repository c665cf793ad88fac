package handlers

import (
	"net/http"

	"fixer_backend/internal/middleware"
	"fixer_backend/internal/models"
	"fixer_backend/internal/services"
	"fixer_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	*BaseHandler
	profileService services.ProfileService
}

func NewProfileHandler(base *BaseHandler, profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    base,
		profileService: profileService,
	}
}

func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// Public professional card.
	rg.GET("/professionals/:id/profile", h.GetProfessionalProfile)

	pro := rg.Group("/profile")
	pro.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleProfessional))
	{
		pro.PUT("/professional", h.UpdateProfessionalProfile)
	}

	client := rg.Group("/profile")
	client.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleClient))
	{
		client.PUT("/client", h.UpdateClientProfile)
	}
}

func (h *ProfileHandler) GetProfessionalProfile(c *gin.Context) {
	resp, err := h.profileService.GetProfessionalProfile(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ProfileHandler) UpdateProfessionalProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfessionalProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.profileService.UpdateProfessionalProfile(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ProfileHandler) UpdateClientProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateClientProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.profileService.UpdateClientProfile(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
