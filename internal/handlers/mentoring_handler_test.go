package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/campushub/campushub-api/internal/handlers"
	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/internal/services"
	apperrors "github.com/campushub/campushub-api/pkg/errors"
	"github.com/campushub/campushub-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)

	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

// MockMentoringService is a mock implementation of MentoringServiceInterface
type MockMentoringService struct {
	mock.Mock
}

func (m *MockMentoringService) CreateRequest(ctx context.Context, payload *models.CreateMentoringRequestPayload) (*models.MentoringRequest, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MentoringRequest), args.Error(1)
}

func (m *MockMentoringService) GetRequests(ctx context.Context, mentorID int64, group string) (*models.MentoringRequestsResponse, error) {
	args := m.Called(ctx, mentorID, group)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MentoringRequestsResponse), args.Error(1)
}

func (m *MockMentoringService) GetRequestByID(ctx context.Context, mentorID int64, requestID int64) (*models.MentoringRequest, error) {
	args := m.Called(ctx, mentorID, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MentoringRequest), args.Error(1)
}

func (m *MockMentoringService) AcceptRequest(ctx context.Context, mentorID int64, requestID int64, payload *models.AcceptRequestPayload) (*models.MentoringSession, error) {
	args := m.Called(ctx, mentorID, requestID, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MentoringSession), args.Error(1)
}

func (m *MockMentoringService) DeclineRequest(ctx context.Context, mentorID int64, requestID int64, payload *models.DeclineRequestPayload) (*models.MentoringRequest, error) {
	args := m.Called(ctx, mentorID, requestID, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MentoringRequest), args.Error(1)
}

func (m *MockMentoringService) CompleteRequest(ctx context.Context, mentorID int64, requestID int64) (*models.MentoringRequest, error) {
	args := m.Called(ctx, mentorID, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MentoringRequest), args.Error(1)
}

func mentoringRouter(service services.MentoringServiceInterface) *gin.Engine {
	h := handlers.NewMentoringHandler(service)

	router := gin.New()
	router.POST("/api/v1/mentoring/requests", h.CreateRequest)
	router.GET("/api/v1/mentors/:mentorId/requests", h.GetRequests)
	router.GET("/api/v1/mentors/:mentorId/requests/:id", h.GetRequestByID)
	router.POST("/api/v1/mentors/:mentorId/requests/:id/accept", h.AcceptRequest)
	return router
}

func TestCreateRequest_Created(t *testing.T) {
	service := new(MockMentoringService)
	router := mentoringRouter(service)

	service.On("CreateRequest", mock.Anything, mock.Anything).Return(&models.MentoringRequest{
		ID:       42,
		MentorID: 7,
		Status:   models.RequestStatusPending,
	}, nil)

	body := `{
		"mentorId": 7,
		"studentName": "Dana Velin",
		"studentEmail": "dana@example.edu",
		"topic": "Thesis planning",
		"preferredTime": "2025-11-20T14:00:00Z"
	}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/mentoring/requests", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":42`)
}

func TestCreateRequest_ValidationFailure(t *testing.T) {
	service := new(MockMentoringService)
	router := mentoringRouter(service)

	// Missing mentorId and a malformed email
	body := `{"studentName": "Dana", "studentEmail": "not-an-email", "topic": "x", "preferredTime": "2025-11-20T14:00:00Z"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/mentoring/requests", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	service.AssertNotCalled(t, "CreateRequest", mock.Anything, mock.Anything)
}

func TestGetRequests_RequiresGroup(t *testing.T) {
	service := new(MockMentoringService)
	router := mentoringRouter(service)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/mentors/7/requests", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "group")
}

func TestGetRequestByID_NotFound(t *testing.T) {
	service := new(MockMentoringService)
	router := mentoringRouter(service)

	service.On("GetRequestByID", mock.Anything, int64(7), int64(99)).
		Return(nil, apperrors.NotFoundError("mentoring request"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/mentors/7/requests/99", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRequestByID_WrongMentorForbidden(t *testing.T) {
	service := new(MockMentoringService)
	router := mentoringRouter(service)

	service.On("GetRequestByID", mock.Anything, int64(8), int64(42)).
		Return(nil, services.ErrAccessDenied)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/mentors/8/requests/42", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetRequestByID_RejectsNonNumericID(t *testing.T) {
	service := new(MockMentoringService)
	router := mentoringRouter(service)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/mentors/7/requests/latest", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	service.AssertNotCalled(t, "GetRequestByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestAcceptRequest_EmptyBodySchedulesDefaultWindow(t *testing.T) {
	service := new(MockMentoringService)
	router := mentoringRouter(service)

	service.On("AcceptRequest", mock.Anything, int64(7), int64(42), &models.AcceptRequestPayload{}).
		Return(&models.MentoringSession{ID: 5, MentorID: 7, Date: time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC)}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/mentors/7/requests/42/accept", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	service.AssertExpectations(t)
}

func TestAcceptRequest_ConflictSurfacesDetail(t *testing.T) {
	service := new(MockMentoringService)
	router := mentoringRouter(service)

	service.On("AcceptRequest", mock.Anything, int64(7), int64(42), mock.Anything).
		Return(nil, apperrors.ConflictError("overlaps existing tutoring commitment (2025-11-20 14:00-15:00)"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/mentors/7/requests/42/accept", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "tutoring")
}
