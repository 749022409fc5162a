package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/event-manager-services/common/errors"
	"github.com/event-manager-services/common/jwt"
	"github.com/event-manager-services/common/logger"
	"github.com/event-manager-services/common/metrics"
	"github.com/event-manager-services/common/validator"
	"github.com/event-manager-services/services/event-lambda/models"
)

// TokenVerifier turns a bearer token into claims
type TokenVerifier interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// EventStore is the persistence used by EventUseCase.
// *repository.EventRepository satisfies it.
type EventStore interface {
	Create(ctx context.Context, e *models.Event) error
	GetByID(ctx context.Context, eventID string) (*models.Event, error)
	ListByUser(ctx context.Context, userID string) ([]models.Event, error)
	Update(ctx context.Context, eventID, userID string, req *models.SaveEventRequest, now time.Time) (*models.Event, error)
	Delete(ctx context.Context, eventID, userID string) (bool, error)
	Exists(ctx context.Context, eventID string) (bool, error)
}

// EventUseCase handles event business logic
type EventUseCase struct {
	repo   EventStore
	tokens TokenVerifier
	log    *logger.Logger
	now    func() time.Time
	newID  func() string
}

// NewEventUseCase creates a new event use case
func NewEventUseCase(repo EventStore, tokens TokenVerifier) *EventUseCase {
	return &EventUseCase{
		repo:   repo,
		tokens: tokens,
		log:    logger.With("component", "event_usecase"),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

func (uc *EventUseCase) authenticate(token string) (string, error) {
	if token == "" {
		return "", apperrors.Unauthorized("Missing token")
	}
	claims, err := uc.tokens.ValidateToken(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

func (uc *EventUseCase) record(action, userID, eventID string, err error) {
	evt := logger.EventLog{
		Event:    "EVENT_" + action,
		UserID:   userID,
		EntityID: eventID,
		Entity:   "event",
		Action:   action,
		Success:  err == nil,
	}
	if err != nil {
		evt.Error = err.Error()
	}
	uc.log.LogEvent(evt)
	metrics.ObserveMutation(action, err == nil)
}

// missingOrForeign tells a nonexistent event apart from one owned by someone else
func (uc *EventUseCase) missingOrForeign(ctx context.Context, eventID string) error {
	exists, err := uc.repo.Exists(ctx, eventID)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	if exists {
		return apperrors.AccessDenied()
	}
	return apperrors.NotFound("Event")
}

func invalidEvent(problems []string) error {
	return apperrors.ValidationError("Invalid event").WithField("errors", problems)
}

// ============================================================
// UpdateEvent - partial update of an event owned by the caller
// Only the fields present in req are written
// ============================================================
func (uc *EventUseCase) UpdateEvent(ctx context.Context, req *models.SaveEventRequest, eventID, token string) (*models.Event, error) {
	userID, err := uc.authenticate(token)
	if err != nil {
		return nil, err
	}

	if eventID == "" {
		return nil, apperrors.MissingField("eventId")
	}
	if req == nil || req.IsEmpty() {
		return nil, apperrors.ValidationError("At least one field must be provided")
	}
	problems, err := validator.ValidateUpdateEvent(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Internal server error")
	}
	if len(problems) > 0 {
		return nil, invalidEvent(problems)
	}

	updated, err := uc.repo.Update(ctx, eventID, userID, req, uc.now())
	if err != nil {
		err = apperrors.DatabaseError(err)
	} else if updated == nil {
		err = uc.missingOrForeign(ctx, eventID)
	}
	uc.record("UPDATE", userID, eventID, err)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CreateEvent stores a new event for the caller; every field is required
func (uc *EventUseCase) CreateEvent(ctx context.Context, req *models.SaveEventRequest, token string) (*models.Event, error) {
	userID, err := uc.authenticate(token)
	if err != nil {
		return nil, err
	}

	if req == nil {
		req = &models.SaveEventRequest{}
	}
	problems, err := validator.ValidateCreateEvent(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Internal server error")
	}
	if len(problems) > 0 {
		return nil, invalidEvent(problems)
	}

	now := uc.now()
	event := &models.Event{
		EventID:   uc.newID(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	req.ApplyTo(event)

	err = uc.repo.Create(ctx, event)
	if err != nil && !apperrors.IsCode(err, apperrors.ErrCodeAlreadyExists) {
		err = apperrors.DatabaseError(err)
	}
	uc.record("CREATE", userID, event.EventID, err)
	if err != nil {
		return nil, err
	}
	return event, nil
}

// GetEvents lists the caller's events, newest first
func (uc *EventUseCase) GetEvents(ctx context.Context, token string) ([]models.Event, error) {
	userID, err := uc.authenticate(token)
	if err != nil {
		return nil, err
	}

	events, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return events, nil
}

// GetEvent returns one event owned by the caller
func (uc *EventUseCase) GetEvent(ctx context.Context, eventID, token string) (*models.Event, error) {
	userID, err := uc.authenticate(token)
	if err != nil {
		return nil, err
	}

	event, err := uc.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if event == nil {
		return nil, apperrors.NotFound("Event")
	}
	if event.UserID != userID {
		return nil, apperrors.AccessDenied()
	}
	return event, nil
}

// DeleteEvent removes one event owned by the caller
func (uc *EventUseCase) DeleteEvent(ctx context.Context, eventID, token string) error {
	userID, err := uc.authenticate(token)
	if err != nil {
		return err
	}

	deleted, err := uc.repo.Delete(ctx, eventID, userID)
	if err != nil {
		err = apperrors.DatabaseError(err)
	} else if !deleted {
		err = uc.missingOrForeign(ctx, eventID)
	}
	uc.record("DELETE", userID, eventID, err)
	return err
}
