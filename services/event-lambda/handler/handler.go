package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/event-manager-services/common/jwt"
	"github.com/event-manager-services/common/metrics"
	"github.com/event-manager-services/common/response"
	"github.com/event-manager-services/services/event-lambda/models"
)

// EventService is the business layer behind the handlers.
// *usecase.EventUseCase satisfies it.
type EventService interface {
	UpdateEvent(ctx context.Context, req *models.SaveEventRequest, eventID, token string) (*models.Event, error)
	CreateEvent(ctx context.Context, req *models.SaveEventRequest, token string) (*models.Event, error)
	GetEvents(ctx context.Context, token string) ([]models.Event, error)
	GetEvent(ctx context.Context, eventID, token string) (*models.Event, error)
	DeleteEvent(ctx context.Context, eventID, token string) error
}

// EventHandler handles event-related requests
type EventHandler struct {
	service EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(service EventService) *EventHandler {
	return &EventHandler{service: service}
}

// authorizationHeader looks the header up as sent, then lower-cased (HTTP/2 and some proxies)
func authorizationHeader(request events.APIGatewayProxyRequest) string {
	if v, ok := request.Headers["Authorization"]; ok {
		return v
	}
	return request.Headers["authorization"]
}

func bearerToken(request events.APIGatewayProxyRequest) (string, error) {
	return jwt.TokenFromHeader(authorizationHeader(request))
}

func observe(name string, start time.Time, resp events.APIGatewayProxyResponse, err error) {
	outcome := metrics.OutcomeForStatus(resp.StatusCode)
	if err != nil {
		outcome = metrics.OutcomeFailed
	}
	metrics.ObserveHandler(name, outcome, time.Since(start))
}

// HandleUpdateEvent handles PUT|PATCH /events/{eventId}
//
// Any failure (missing Authorization, bad JSON, service error) is returned as an
// error with an empty response; the Lambda runtime turns it into a 5xx.
//
// Response: 200 {"item": <updated event>}
func (h *EventHandler) HandleUpdateEvent(ctx context.Context, request events.APIGatewayProxyRequest) (resp events.APIGatewayProxyResponse, err error) {
	start := time.Now()
	defer func() { observe("update_event", start, resp, err) }()

	token, err := bearerToken(request)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	var req models.SaveEventRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return events.APIGatewayProxyResponse{}, fmt.Errorf("invalid request body: %w", err)
	}

	eventID := request.PathParameters["eventId"]
	item, err := h.service.UpdateEvent(ctx, &req, eventID, token)
	if err != nil {
		log.Printf("[UPDATE_EVENT] eventId=%s failed: %v", eventID, err)
		return events.APIGatewayProxyResponse{}, err
	}

	return response.Item(http.StatusOK, item)
}

// HandleCreateEvent handles POST /events
func (h *EventHandler) HandleCreateEvent(ctx context.Context, request events.APIGatewayProxyRequest) (resp events.APIGatewayProxyResponse, err error) {
	start := time.Now()
	defer func() { observe("create_event", start, resp, err) }()

	token, err := bearerToken(request)
	if err != nil {
		return response.Error(err)
	}

	var req models.SaveEventRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return response.Message(http.StatusBadRequest, "Invalid request body")
	}

	item, err := h.service.CreateEvent(ctx, &req, token)
	if err != nil {
		log.Printf("[CREATE_EVENT] failed: %v", err)
		return response.Error(err)
	}

	log.Printf("[CREATE_EVENT] created eventId=%s", item.EventID)
	return response.Item(http.StatusCreated, item)
}

// HandleGetEvents handles GET /events
// Response: 200 {"items": [...]}, newest first; never null
func (h *EventHandler) HandleGetEvents(ctx context.Context, request events.APIGatewayProxyRequest) (resp events.APIGatewayProxyResponse, err error) {
	start := time.Now()
	defer func() { observe("get_events", start, resp, err) }()

	token, err := bearerToken(request)
	if err != nil {
		return response.Error(err)
	}

	items, err := h.service.GetEvents(ctx, token)
	if err != nil {
		log.Printf("[GET_EVENTS] failed: %v", err)
		return response.Error(err)
	}
	if items == nil {
		items = []models.Event{}
	}

	return response.Items(items)
}

// HandleGetEvent handles GET /events/{eventId}
func (h *EventHandler) HandleGetEvent(ctx context.Context, request events.APIGatewayProxyRequest) (resp events.APIGatewayProxyResponse, err error) {
	start := time.Now()
	defer func() { observe("get_event", start, resp, err) }()

	token, err := bearerToken(request)
	if err != nil {
		return response.Error(err)
	}

	eventID := request.PathParameters["eventId"]
	if eventID == "" {
		return response.Message(http.StatusBadRequest, "Missing event id")
	}

	item, err := h.service.GetEvent(ctx, eventID, token)
	if err != nil {
		return response.Error(err)
	}

	return response.Item(http.StatusOK, item)
}

// HandleDeleteEvent handles DELETE /events/{eventId}
func (h *EventHandler) HandleDeleteEvent(ctx context.Context, request events.APIGatewayProxyRequest) (resp events.APIGatewayProxyResponse, err error) {
	start := time.Now()
	defer func() { observe("delete_event", start, resp, err) }()

	token, err := bearerToken(request)
	if err != nil {
		return response.Error(err)
	}

	eventID := request.PathParameters["eventId"]
	if eventID == "" {
		return response.Message(http.StatusBadRequest, "Missing event id")
	}

	if err := h.service.DeleteEvent(ctx, eventID, token); err != nil {
		log.Printf("[DELETE_EVENT] eventId=%s failed: %v", eventID, err)
		return response.Error(err)
	}

	return response.JSON(http.StatusOK, struct{}{})
}
