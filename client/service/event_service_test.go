package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/event-manager-services/client/models"
)

func TestCreateEvent(t *testing.T) {
	var got models.SaveEvent
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/events", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"item":{"eventId":"new-id"}}`))
	}))
	defer srv.Close()

	svc := NewEventService(Config{BaseURL: srv.URL + "/api/", Token: "tok"})
	event := &models.SaveEvent{Title: "Launch", EventType: "Conference", ScheduledAt: "15/02/2024"}

	result, err := svc.CreateEvent(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, "new-id", result.Item["eventId"])
	assert.Equal(t, *event, got)
}

func TestCreateEvent_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Invalid event","code":"E2001"}`))
	}))
	defer srv.Close()

	_, err := NewEventService(Config{BaseURL: srv.URL}).CreateEvent(context.Background(), &models.SaveEvent{})
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, "Invalid event", statusErr.Message)
}

func TestCreateEvent_NoTokenNoHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"item":{}}`))
	}))
	defer srv.Close()

	_, err := NewEventService(Config{BaseURL: srv.URL}).CreateEvent(context.Background(), &models.SaveEvent{})
	assert.NoError(t, err)
}

func TestCreateEvent_Canceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEventService(Config{BaseURL: srv.URL}).CreateEvent(ctx, &models.SaveEvent{})
	assert.ErrorIs(t, err, context.Canceled)
}
