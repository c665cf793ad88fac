package handlers

import (
	"net/http"

	"fixer_backend/internal/middleware"
	"fixer_backend/internal/models"
	"fixer_backend/internal/services"
	"fixer_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/me", h.GetMe)
	}

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.GET("/users", h.ListUsers)
		admin.POST("/users", h.AdminCreateUser)
		admin.GET("/users/:id", h.GetUser)
		admin.POST("/users/:id/approve", h.ApproveProfessional)
		admin.PATCH("/users/:id/status", h.UpdateUserStatus)
		admin.GET("/stats/registrations", h.GetRegistrationStats)
	}
}

func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.userService.GetUser(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	var filter dto.AdminUserFilter
	if !h.BindAndValidate_Query(c, &filter) {
		return
	}

	resp, err := h.userService.ListUsers(h.GetDB(c), &filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	resp, err := h.userService.GetUser(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) AdminCreateUser(c *gin.Context) {
	var req dto.AdminCreateUserRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	req.Normalize()

	resp, err := h.userService.AdminCreateUser(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *UserHandler) ApproveProfessional(c *gin.Context) {
	if err := h.userService.ApproveProfessional(h.GetDB(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Professional approved."})
}

func (h *UserHandler) UpdateUserStatus(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateUserStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.userService.UpdateUserStatus(h.GetDB(c), adminID, c.Param("id"), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User status updated."})
}

func (h *UserHandler) GetRegistrationStats(c *gin.Context) {
	resp, err := h.userService.GetRegistrationStats(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
