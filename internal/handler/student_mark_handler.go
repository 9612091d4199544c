package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniflow/uniflow-api/internal/service"
	appErrors "github.com/uniflow/uniflow-api/pkg/errors"
	"github.com/uniflow/uniflow-api/pkg/response"
)

// StudentMarkHandler exposes per-session mark endpoints.
type StudentMarkHandler struct {
	marks *service.StudentMarkService
}

// NewStudentMarkHandler constructs StudentMarkHandler.
func NewStudentMarkHandler(marks *service.StudentMarkService) *StudentMarkHandler {
	return &StudentMarkHandler{marks: marks}
}

// List godoc
// @Summary List marks of a class session
// @Tags Marks
// @Produce json
// @Param id path string true "Schedule entry ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/marks [get]
func (h *StudentMarkHandler) List(c *gin.Context) {
	marks, err := h.marks.ListBySchedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, marks, nil)
}

// Create godoc
// @Summary Record a mark for a student on a session
// @Tags Marks
// @Accept json
// @Produce json
// @Param id path string true "Schedule entry ID"
// @Param payload body service.CreateMarkRequest true "Mark payload"
// @Success 201 {object} response.Envelope
// @Router /schedules/{id}/marks [post]
func (h *StudentMarkHandler) Create(c *gin.Context) {
	var req service.CreateMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	mark, err := h.marks.Create(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, mark)
}

// Update godoc
// @Summary Change the value of a mark
// @Tags Marks
// @Accept json
// @Produce json
// @Param markId path string true "Mark ID"
// @Param payload body service.UpdateMarkRequest true "Mark payload"
// @Success 200 {object} response.Envelope
// @Router /marks/{markId} [put]
func (h *StudentMarkHandler) Update(c *gin.Context) {
	var req service.UpdateMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	mark, err := h.marks.Update(c.Request.Context(), c.Param("markId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mark, nil)
}

// Delete godoc
// @Summary Delete mark
// @Tags Marks
// @Param markId path string true "Mark ID"
// @Success 204
// @Router /marks/{markId} [delete]
func (h *StudentMarkHandler) Delete(c *gin.Context) {
	if err := h.marks.Delete(c.Request.Context(), c.Param("markId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
