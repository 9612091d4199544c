package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniflow/uniflow-api/internal/service"
	appErrors "github.com/uniflow/uniflow-api/pkg/errors"
	"github.com/uniflow/uniflow-api/pkg/response"
)

// ScheduleTemplateHandler exposes weekly template endpoints.
type ScheduleTemplateHandler struct {
	templates *service.ScheduleTemplateService
}

// NewScheduleTemplateHandler constructs ScheduleTemplateHandler.
func NewScheduleTemplateHandler(templates *service.ScheduleTemplateService) *ScheduleTemplateHandler {
	return &ScheduleTemplateHandler{templates: templates}
}

// Grid godoc
// @Summary Weekly template grid for a term and study group
// @Tags Templates
// @Produce json
// @Param term query string false "Term ID"
// @Param study_group query string false "Study group ID"
// @Success 200 {object} response.Envelope
// @Router /schedule-templates [get]
func (h *ScheduleTemplateHandler) Grid(c *gin.Context) {
	query := service.TemplateGridQuery{
		TermID:       c.Query("term"),
		StudyGroupID: c.Query("study_group"),
	}
	result, err := h.templates.Grid(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Get godoc
// @Summary Get template slot detail
// @Tags Templates
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} response.Envelope
// @Router /schedule-templates/{id} [get]
func (h *ScheduleTemplateHandler) Get(c *gin.Context) {
	tpl, err := h.templates.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tpl, nil)
}

// Create godoc
// @Summary Create template slot
// @Tags Templates
// @Accept json
// @Produce json
// @Param payload body service.CreateTemplateRequest true "Template payload"
// @Success 201 {object} response.Envelope
// @Router /schedule-templates [post]
func (h *ScheduleTemplateHandler) Create(c *gin.Context) {
	var req service.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	tpl, err := h.templates.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, tpl)
}

// Update godoc
// @Summary Change the subject of a template slot
// @Tags Templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param payload body service.UpdateTemplateRequest true "Template payload"
// @Success 200 {object} response.Envelope
// @Router /schedule-templates/{id} [put]
func (h *ScheduleTemplateHandler) Update(c *gin.Context) {
	var req service.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	tpl, err := h.templates.UpdateSubject(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tpl, nil)
}

// Delete godoc
// @Summary Delete template slot
// @Tags Templates
// @Param id path string true "Template ID"
// @Success 204
// @Router /schedule-templates/{id} [delete]
func (h *ScheduleTemplateHandler) Delete(c *gin.Context) {
	if err := h.templates.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
