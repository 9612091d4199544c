package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniflow/uniflow-api/internal/service"
	appErrors "github.com/uniflow/uniflow-api/pkg/errors"
	"github.com/uniflow/uniflow-api/pkg/export"
	"github.com/uniflow/uniflow-api/pkg/response"
)

// ScheduleHandler exposes the live weekly schedule endpoints.
type ScheduleHandler struct {
	schedules *service.ScheduleService
	fill      *service.FillService
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
}

// NewScheduleHandler constructs ScheduleHandler.
func NewScheduleHandler(schedules *service.ScheduleService, fill *service.FillService, csv *export.CSVExporter, pdf *export.PDFExporter) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, fill: fill, csv: csv, pdf: pdf}
}

// Grid godoc
// @Summary Weekly schedule grid
// @Tags Schedules
// @Produce json
// @Param study_group query string false "Study group ID (ignored for students)"
// @Param date query string false "Any date of the target week, YYYY-MM-DD"
// @Success 200 {object} response.Envelope
// @Router /schedules [get]
func (h *ScheduleHandler) Grid(c *gin.Context) {
	query := service.WeekGridQuery{
		StudyGroupID: c.Query("study_group"),
		Date:         c.Query("date"),
	}
	result, err := h.schedules.WeekGrid(c.Request.Context(), query, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Fill godoc
// @Summary Materialize a week of schedule entries from the template
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body service.FillScheduleRequest true "Study group and target date"
// @Success 201 {object} response.Envelope
// @Router /schedules/fill [post]
func (h *ScheduleHandler) Fill(c *gin.Context) {
	var req service.FillScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.fill.FillWeek(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Export godoc
// @Summary Export the weekly grid as CSV or PDF
// @Tags Schedules
// @Produce text/csv,application/pdf
// @Param study_group query string true "Study group ID"
// @Param date query string true "Any date of the target week, YYYY-MM-DD"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /schedules/export [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	query := service.WeekGridQuery{
		StudyGroupID: c.Query("study_group"),
		Date:         c.Query("date"),
	}
	dataset, title, err := h.schedules.ExportWeek(c.Request.Context(), query, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	switch c.DefaultQuery("format", "csv") {
	case "csv":
		payload, err := h.csv.Render(dataset)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "schedule.csv"))
		c.Data(http.StatusOK, "text/csv", payload)
	case "pdf":
		payload, err := h.pdf.Render(dataset, title)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "schedule.pdf"))
		c.Data(http.StatusOK, "application/pdf", payload)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
	}
}

// Get godoc
// @Summary Get schedule entry detail
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule entry ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	entry, err := h.schedules.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Create godoc
// @Summary Create a single schedule entry
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body service.CreateScheduleRequest true "Schedule payload"
// @Success 201 {object} response.Envelope
// @Router /schedules [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req service.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.schedules.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Update godoc
// @Summary Change subject or homework of a schedule entry
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Schedule entry ID"
// @Param payload body service.UpdateScheduleRequest true "Schedule payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id} [put]
func (h *ScheduleHandler) Update(c *gin.Context) {
	var req service.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.schedules.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Delete godoc
// @Summary Delete schedule entry
// @Tags Schedules
// @Param id path string true "Schedule entry ID"
// @Success 204
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.schedules.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
