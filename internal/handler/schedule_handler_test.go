package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/uniflow/uniflow-api/internal/models"
	"github.com/uniflow/uniflow-api/internal/service"
)

type fillScheduleMock struct {
	exists  bool
	created []models.ScheduleEntry
}

func (m *fillScheduleMock) ExistsInRange(_ context.Context, _ string, _, _ time.Time) (bool, error) {
	return m.exists, nil
}

func (m *fillScheduleMock) CreateBatch(_ context.Context, entries []models.ScheduleEntry) error {
	m.created = entries
	return nil
}

type fillTermMock struct {
	terms []models.Term
}

func (m *fillTermMock) FindOverlapping(_ context.Context, _, _ time.Time) ([]models.Term, error) {
	return m.terms, nil
}

type fillTemplateMock struct {
	templates []models.ScheduleTemplate
}

func (m *fillTemplateMock) FindBySlots(_ context.Context, _ string, _ []models.TemplateSlot) ([]models.ScheduleTemplate, error) {
	return m.templates, nil
}

func date(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return d
}

func newFillHandler(schedules *fillScheduleMock, terms *fillTermMock, templates *fillTemplateMock) *ScheduleHandler {
	fill := service.NewFillService(schedules, terms, templates, nil, nil, nil)
	return NewScheduleHandler(nil, fill, nil, nil)
}

func postFill(t *testing.T, h *ScheduleHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	req, err := http.NewRequest(http.MethodPost, "/schedules/fill", bytes.NewReader([]byte(body)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	h.Fill(c)
	return w
}

func TestFillEndpointSuccess(t *testing.T) {
	schedules := &fillScheduleMock{}
	terms := &fillTermMock{terms: []models.Term{{
		ID: "term-1", DateFrom: date(t, "2024-09-01"), DateTo: date(t, "2024-12-31"), Active: true,
	}}}
	templates := &fillTemplateMock{templates: []models.ScheduleTemplate{
		{ID: "tpl-1", TermID: "term-1", StudyGroupID: "group-1", Weekday: models.Wednesday, OrderNumber: 3, SubjectID: "subj-1"},
	}}
	handler := newFillHandler(schedules, terms, templates)

	w := postFill(t, handler, `{"study_group":"group-1","date":"2024-10-15"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var envelope struct {
		Data service.FillResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, 1, envelope.Data.Created)
	require.Equal(t, "2024-10-14", envelope.Data.WeekStart)
	require.Len(t, schedules.created, 1)
	require.Equal(t, "2024-10-16", schedules.created[0].Date.Format("2006-01-02"))
}

func TestFillEndpointMissingParameters(t *testing.T) {
	handler := newFillHandler(&fillScheduleMock{}, &fillTermMock{}, &fillTemplateMock{})

	w := postFill(t, handler, `{"study_group":"","date":""}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "MISSING_PARAMETERS", envelope.Error.Code)
}

func TestFillEndpointAlreadyFilled(t *testing.T) {
	schedules := &fillScheduleMock{exists: true}
	terms := &fillTermMock{terms: []models.Term{{
		ID: "term-1", DateFrom: date(t, "2024-09-01"), DateTo: date(t, "2024-12-31"), Active: true,
	}}}
	handler := newFillHandler(schedules, terms, &fillTemplateMock{})

	w := postFill(t, handler, `{"study_group":"group-1","date":"2024-10-15"}`)

	require.Equal(t, http.StatusConflict, w.Code)
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "ALREADY_FILLED", envelope.Error.Code)
}

func TestFillEndpointNoTerm(t *testing.T) {
	handler := newFillHandler(&fillScheduleMock{}, &fillTermMock{}, &fillTemplateMock{})

	w := postFill(t, handler, `{"study_group":"group-1","date":"2024-10-15"}`)

	require.Equal(t, http.StatusConflict, w.Code)
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "NO_ACTIVE_TERM", envelope.Error.Code)
}

func TestFillEndpointNoTemplate(t *testing.T) {
	terms := &fillTermMock{terms: []models.Term{{
		ID: "term-1", DateFrom: date(t, "2024-09-01"), DateTo: date(t, "2024-12-31"), Active: true,
	}}}
	handler := newFillHandler(&fillScheduleMock{}, terms, &fillTemplateMock{})

	w := postFill(t, handler, `{"study_group":"group-1","date":"2024-10-15"}`)

	require.Equal(t, http.StatusConflict, w.Code)
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "NO_TEMPLATE_FOUND", envelope.Error.Code)
}

func TestFillEndpointMalformedBody(t *testing.T) {
	handler := newFillHandler(&fillScheduleMock{}, &fillTermMock{}, &fillTemplateMock{})

	w := postFill(t, handler, `{"study_group":`)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
