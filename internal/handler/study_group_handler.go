package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniflow/uniflow-api/internal/service"
	appErrors "github.com/uniflow/uniflow-api/pkg/errors"
	"github.com/uniflow/uniflow-api/pkg/response"
)

// StudyGroupHandler exposes study group dictionary endpoints.
type StudyGroupHandler struct {
	groups *service.StudyGroupService
	users  *service.UserService
}

// NewStudyGroupHandler constructs StudyGroupHandler.
func NewStudyGroupHandler(groups *service.StudyGroupService, users *service.UserService) *StudyGroupHandler {
	return &StudyGroupHandler{groups: groups, users: users}
}

// List godoc
// @Summary List study groups
// @Tags StudyGroups
// @Produce json
// @Param search query string false "Search by name"
// @Param active query bool false "Filter by active state"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /study-groups [get]
func (h *StudyGroupHandler) List(c *gin.Context) {
	groups, pagination, err := h.groups.List(c.Request.Context(), dictionaryFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, groups, pagination)
}

// Get godoc
// @Summary Get study group detail
// @Tags StudyGroups
// @Produce json
// @Param id path string true "Study group ID"
// @Success 200 {object} response.Envelope
// @Router /study-groups/{id} [get]
func (h *StudyGroupHandler) Get(c *gin.Context) {
	group, err := h.groups.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, group, nil)
}

// Members godoc
// @Summary List students assigned to a study group
// @Tags StudyGroups
// @Produce json
// @Param id path string true "Study group ID"
// @Success 200 {object} response.Envelope
// @Router /study-groups/{id}/members [get]
func (h *StudyGroupHandler) Members(c *gin.Context) {
	if _, err := h.groups.Get(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	members, err := h.users.ListGroupMembers(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, members, nil)
}

// Create godoc
// @Summary Create study group
// @Tags StudyGroups
// @Accept json
// @Produce json
// @Param payload body service.StudyGroupRequest true "Study group payload"
// @Success 201 {object} response.Envelope
// @Router /study-groups [post]
func (h *StudyGroupHandler) Create(c *gin.Context) {
	var req service.StudyGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	group, err := h.groups.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, group)
}

// Update godoc
// @Summary Update study group
// @Tags StudyGroups
// @Accept json
// @Produce json
// @Param id path string true "Study group ID"
// @Param payload body service.StudyGroupRequest true "Study group payload"
// @Success 200 {object} response.Envelope
// @Router /study-groups/{id} [put]
func (h *StudyGroupHandler) Update(c *gin.Context) {
	var req service.StudyGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	group, err := h.groups.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, group, nil)
}

// Delete godoc
// @Summary Delete study group
// @Tags StudyGroups
// @Param id path string true "Study group ID"
// @Success 204
// @Router /study-groups/{id} [delete]
func (h *StudyGroupHandler) Delete(c *gin.Context) {
	if err := h.groups.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
