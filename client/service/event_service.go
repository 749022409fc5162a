package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/event-manager-services/client/models"
)

// Config holds the event service client settings
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// EventService calls the backend events API
type EventService struct {
	config Config
	client *http.Client
}

// StatusError is returned for non-2xx responses
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("events API returned %d", e.StatusCode)
	}
	return fmt.Sprintf("events API returned %d: %s", e.StatusCode, e.Message)
}

// NewEventService creates a client; Timeout <= 0 means 30s
func NewEventService(cfg Config) *EventService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &EventService{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// CreateEvent posts event to <BaseURL>/events
func (s *EventService) CreateEvent(ctx context.Context, event *models.SaveEvent) (*models.Result, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	url := strings.TrimRight(s.config.BaseURL, "/") + "/events"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if s.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.Token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var msg struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &msg)
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: msg.Message}
	}

	var result models.Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}
