package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/event-manager-services/common/errors"
	"github.com/event-manager-services/services/event-lambda/models"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) UpdateEvent(ctx context.Context, req *models.SaveEventRequest, eventID, token string) (*models.Event, error) {
	args := m.Called(ctx, req, eventID, token)
	e, _ := args.Get(0).(*models.Event)
	return e, args.Error(1)
}

func (m *mockService) CreateEvent(ctx context.Context, req *models.SaveEventRequest, token string) (*models.Event, error) {
	args := m.Called(ctx, req, token)
	e, _ := args.Get(0).(*models.Event)
	return e, args.Error(1)
}

func (m *mockService) GetEvents(ctx context.Context, token string) ([]models.Event, error) {
	args := m.Called(ctx, token)
	list, _ := args.Get(0).([]models.Event)
	return list, args.Error(1)
}

func (m *mockService) GetEvent(ctx context.Context, eventID, token string) (*models.Event, error) {
	args := m.Called(ctx, eventID, token)
	e, _ := args.Get(0).(*models.Event)
	return e, args.Error(1)
}

func (m *mockService) DeleteEvent(ctx context.Context, eventID, token string) error {
	return m.Called(ctx, eventID, token).Error(0)
}

func str(s string) *string { return &s }

func updateRequest(headers map[string]string, body string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{
		HTTPMethod:     http.MethodPut,
		Headers:        headers,
		PathParameters: map[string]string{"eventId": "42"},
		Body:           body,
	}
}

func TestHandleUpdateEvent_Success(t *testing.T) {
	svc := &mockService{}
	h := NewEventHandler(svc)
	ctx := context.Background()
	result := &models.Event{EventID: "42", Title: "T"}

	svc.On("UpdateEvent", ctx, &models.SaveEventRequest{Title: str("T")}, "42", "abc123").Return(result, nil)

	resp, err := h.HandleUpdateEvent(ctx, updateRequest(map[string]string{"Authorization": "Bearer abc123"}, `{"title":"T"}`))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	assert.JSONEq(t, `{"item":{"eventId":"42","userId":"","title":"T","eventType":"","description":"","scheduledAt":"","venue":"","createdAt":"0001-01-01T00:00:00Z","updatedAt":"0001-01-01T00:00:00Z"}}`, resp.Body)
	svc.AssertExpectations(t)
}

func TestHandleUpdateEvent_LowercaseHeader(t *testing.T) {
	svc := &mockService{}
	h := NewEventHandler(svc)
	ctx := context.Background()

	svc.On("UpdateEvent", ctx, mock.Anything, "42", "tok").Return(&models.Event{EventID: "42"}, nil)

	resp, err := h.HandleUpdateEvent(ctx, updateRequest(map[string]string{"authorization": "Bearer tok"}, `{"venue":"Hall"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandleUpdateEvent_Failures(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		body    string
	}{
		{"missing header", map[string]string{}, `{"title":"T"}`},
		{"nil headers", nil, `{"title":"T"}`},
		{"no token segment", map[string]string{"Authorization": "Bearer"}, `{"title":"T"}`},
		{"invalid json", map[string]string{"Authorization": "Bearer abc123"}, `{"title":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			h := NewEventHandler(svc)

			resp, err := h.HandleUpdateEvent(context.Background(), updateRequest(tt.headers, tt.body))
			assert.Error(t, err)
			assert.Equal(t, events.APIGatewayProxyResponse{}, resp)
			svc.AssertNotCalled(t, "UpdateEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandleUpdateEvent_ServiceErrorPropagates(t *testing.T) {
	svc := &mockService{}
	h := NewEventHandler(svc)
	ctx := context.Background()
	failure := apperrors.NotFound("Event")

	svc.On("UpdateEvent", ctx, mock.Anything, "42", "abc123").Return(nil, failure)

	_, err := h.HandleUpdateEvent(ctx, updateRequest(map[string]string{"Authorization": "Bearer abc123"}, `{"title":"T"}`))
	assert.ErrorIs(t, err, failure)
}

func TestHandleCreateEvent(t *testing.T) {
	svc := &mockService{}
	h := NewEventHandler(svc)
	ctx := context.Background()

	svc.On("CreateEvent", ctx, mock.MatchedBy(func(r *models.SaveEventRequest) bool {
		return r.Title != nil && *r.Title == "Launch"
	}), "abc123").Return(&models.Event{EventID: "new-id", Title: "Launch"}, nil)

	resp, err := h.HandleCreateEvent(ctx, events.APIGatewayProxyRequest{
		Headers: map[string]string{"Authorization": "Bearer abc123"},
		Body:    `{"title":"Launch"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Contains(t, resp.Body, `"eventId":"new-id"`)
}

func TestHandleCreateEvent_ErrorsBecomeResponses(t *testing.T) {
	svc := &mockService{}
	h := NewEventHandler(svc)
	ctx := context.Background()

	resp, err := h.HandleCreateEvent(ctx, events.APIGatewayProxyRequest{Body: `{}`})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = h.HandleCreateEvent(ctx, events.APIGatewayProxyRequest{
		Headers: map[string]string{"Authorization": "Bearer abc123"},
		Body:    `not json`,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
}

func TestHandleGetEvents(t *testing.T) {
	svc := &mockService{}
	h := NewEventHandler(svc)
	ctx := context.Background()

	svc.On("GetEvents", ctx, "abc123").Return(nil, nil)

	resp, err := h.HandleGetEvents(ctx, events.APIGatewayProxyRequest{
		Headers: map[string]string{"Authorization": "Bearer abc123"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"items":[]}`, resp.Body)
}

func TestHandleGetEvent_NotFound(t *testing.T) {
	svc := &mockService{}
	h := NewEventHandler(svc)
	ctx := context.Background()

	svc.On("GetEvent", ctx, "42", "abc123").Return(nil, apperrors.NotFound("Event"))

	resp, err := h.HandleGetEvent(ctx, events.APIGatewayProxyRequest{
		Headers:        map[string]string{"Authorization": "Bearer abc123"},
		PathParameters: map[string]string{"eventId": "42"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Event not found","code":"E3001"}`, resp.Body)
}

func TestHandleDeleteEvent(t *testing.T) {
	svc := &mockService{}
	h := NewEventHandler(svc)
	ctx := context.Background()

	svc.On("DeleteEvent", ctx, "42", "abc123").Return(nil)
	svc.On("DeleteEvent", ctx, "43", "abc123").Return(errors.New("boom"))

	resp, err := h.HandleDeleteEvent(ctx, events.APIGatewayProxyRequest{
		Headers:        map[string]string{"Authorization": "Bearer abc123"},
		PathParameters: map[string]string{"eventId": "42"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{}`, resp.Body)

	resp, err = h.HandleDeleteEvent(ctx, events.APIGatewayProxyRequest{
		Headers:        map[string]string{"Authorization": "Bearer abc123"},
		PathParameters: map[string]string{"eventId": "43"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
