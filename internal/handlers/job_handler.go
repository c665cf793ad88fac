package handlers

import (
	"net/http"

	"fixer_backend/internal/middleware"
	"fixer_backend/internal/models"
	"fixer_backend/internal/services"
	"fixer_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	*BaseHandler
	jobService services.JobService
}

func NewJobHandler(base *BaseHandler, jobService services.JobService) *JobHandler {
	return &JobHandler{
		BaseHandler: base,
		jobService:  jobService,
	}
}

func (h *JobHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// Browsing open jobs is public; everything else needs a session.
	rg.GET("/jobs", h.ListJobs)

	jobs := rg.Group("/jobs")
	jobs.Use(middleware.AuthMiddleware())
	{
		jobs.GET("/:id", h.GetJob)
	}

	clientJobs := rg.Group("/jobs")
	clientJobs.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleClient))
	{
		clientJobs.POST("", h.CreateJob)
		clientJobs.GET("/my", h.ListMyJobs)
		clientJobs.PUT("/:id", h.UpdateJob)
		clientJobs.POST("/:id/complete", h.CompleteJob)
		clientJobs.POST("/:id/cancel", h.CancelJob)
	}
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.jobService.CreateJob(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *JobHandler) GetJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.jobService.GetJob(h.GetDB(c), c.Param("id"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *JobHandler) ListJobs(c *gin.Context) {
	var criteria dto.JobSearchCriteria
	if !h.BindAndValidate_Query(c, &criteria) {
		return
	}

	resp, err := h.jobService.ListJobs(h.GetDB(c), &criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *JobHandler) ListMyJobs(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)

	resp, err := h.jobService.ListClientJobs(h.GetDB(c), userID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *JobHandler) UpdateJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.jobService.UpdateJob(h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *JobHandler) CompleteJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.jobService.CompleteJob(h.GetDB(c), userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job completed."})
}

func (h *JobHandler) CancelJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.jobService.CancelJob(h.GetDB(c), userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job cancelled."})
}
