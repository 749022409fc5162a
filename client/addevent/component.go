// Package addevent is the add-event form controller of the client application.
//
// It owns no UI. Rendering, the loading spinner, modal dialogs and navigation
// are collaborators passed to New, and the form's current values come from a
// FormSource. Submit validates, maps the values to a models.SaveEvent and sends
// it through an EventService on its own goroutine.
package addevent

import (
	"context"
	"sync"
	"time"

	"github.com/event-manager-services/client/models"
	"github.com/event-manager-services/common/logger"
)

// Field names reported by Validate
const (
	FieldTitle       = "title"
	FieldType        = "type"
	FieldDescription = "description"
	FieldDate        = "date"
	FieldVenue       = "venue"
)

// FormValues is a snapshot of the form controls. A zero Date means no date was picked.
type FormValues struct {
	Title       string
	Type        string
	Description string
	Date        time.Time
	Venue       string
}

// FormSource supplies the current form values
type FormSource interface {
	Values() FormValues
}

// Spinner is the global loading indicator
type Spinner interface {
	Show()
	Hide()
}

// DialogIcon selects the dialog's icon
type DialogIcon string

const (
	IconSuccess DialogIcon = "success"
	IconError   DialogIcon = "error"
)

// DialogOptions configures a modal dialog
type DialogOptions struct {
	Title              string
	Text               string
	Icon               DialogIcon
	ShowCancelButton   bool
	ConfirmButtonColor string
	ConfirmButtonText  string
}

// DialogResult is what the user did with the dialog; Value is true when confirmed
type DialogResult struct {
	Value bool
}

// Dialog shows a modal dialog. Fire must return without waiting for the user;
// then is invoked once the dialog is acknowledged.
type Dialog interface {
	Fire(opts DialogOptions, then func(DialogResult))
}

// Router changes the current client route
type Router interface {
	NavigateByURL(url string)
}

// EventService sends events to the backend
type EventService interface {
	CreateEvent(ctx context.Context, event *models.SaveEvent) (*models.Result, error)
}

const confirmButtonColor = "#5533ff"

// SuccessDialog is shown after the event was created
var SuccessDialog = DialogOptions{
	Title:              "Thank You",
	Text:               "Your event has been created successfully.",
	Icon:               IconSuccess,
	ShowCancelButton:   false,
	ConfirmButtonColor: confirmButtonColor,
	ConfirmButtonText:  "Close",
}

// ErrorDialog is shown when the create call failed
var ErrorDialog = DialogOptions{
	Title:              "Opps!",
	Text:               "Sorry event creation was not successful, please try again.",
	Icon:               IconError,
	ShowCancelButton:   false,
	ConfirmButtonColor: confirmButtonColor,
	ConfirmButtonText:  "Close",
}

// ValidationResult lists the required fields that are empty
type ValidationResult struct {
	Missing []string
}

// Valid reports whether every required field is filled in
func (v ValidationResult) Valid() bool {
	return len(v.Missing) == 0
}

// Component is the add-event form controller
type Component struct {
	form    FormSource
	spinner Spinner
	dialog  Dialog
	router  Router
	events  EventService
	log     *logger.Logger

	// MinDate is the earliest date the date picker offers
	MinDate time.Time

	mu  sync.Mutex
	sub *Subscription
}

// New creates the component. MinDate is the construction time.
func New(form FormSource, spinner Spinner, dialog Dialog, router Router, events EventService) *Component {
	return &Component{
		form:    form,
		spinner: spinner,
		dialog:  dialog,
		router:  router,
		events:  events,
		log:     logger.With("component", "add_event"),
		MinDate: time.Now(),
	}
}

// Validate checks the required fields against the current form values
func (c *Component) Validate() ValidationResult {
	return validate(c.form.Values())
}

// validate treats any non-empty string as present, whitespace included
func validate(v FormValues) ValidationResult {
	var missing []string
	if v.Title == "" {
		missing = append(missing, FieldTitle)
	}
	if v.Type == "" {
		missing = append(missing, FieldType)
	}
	if v.Description == "" {
		missing = append(missing, FieldDescription)
	}
	if v.Date.IsZero() {
		missing = append(missing, FieldDate)
	}
	if v.Venue == "" {
		missing = append(missing, FieldVenue)
	}
	return ValidationResult{Missing: missing}
}

// toSaveEvent maps form values to the backend payload
func toSaveEvent(v FormValues) *models.SaveEvent {
	return &models.SaveEvent{
		Title:       v.Title,
		Description: v.Description,
		EventType:   v.Type,
		Venue:       v.Venue,
		ScheduledAt: models.FormatScheduledAt(v.Date),
	}
}

// Submit sends the form if it is valid and returns the in-flight subscription.
// An invalid form is a no-op and returns nil.
//
// The spinner is hidden as soon as the request has been started, not when it
// completes.
func (c *Component) Submit() *Subscription {
	values := c.form.Values()
	if !validate(values).Valid() {
		return nil
	}

	c.spinner.Show()
	event := toSaveEvent(values)
	sub := c.subscribe(event)
	c.spinner.Hide()
	return sub
}

func (c *Component) subscribe(event *models.SaveEvent) *Subscription {
	ctx, cancel := context.WithCancel(context.Background())
	sub := &Subscription{cancel: cancel, done: make(chan struct{})}

	c.mu.Lock()
	c.sub = sub
	c.mu.Unlock()

	go func() {
		defer close(sub.done)
		defer cancel()

		_, err := c.events.CreateEvent(ctx, event)
		if err != nil {
			c.log.WithError(err).Error("create event failed")
			sub.deliver(func() { c.dialog.Fire(ErrorDialog, sub.continuation(func(DialogResult) {})) })
			return
		}

		sub.deliver(func() {
			c.dialog.Fire(SuccessDialog, sub.continuation(func(res DialogResult) {
				if res.Value {
					c.router.NavigateByURL("/")
				}
			}))
		})
	}()

	return sub
}

// Destroy cancels the latest submission, if any. After it returns no dialog
// from that submission will be shown.
func (c *Component) Destroy() {
	c.mu.Lock()
	sub := c.sub
	c.mu.Unlock()

	sub.Unsubscribe()
}

// Subscription is a handle on one in-flight create call
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu       sync.Mutex
	canceled bool

	// qmu guards delivering and queued. Continuations answered while a
	// dialog is being fired run after mu is released.
	qmu        sync.Mutex
	delivering bool
	queued     []func()
}

// Unsubscribe cancels the call and suppresses its outcome. Safe on nil and when repeated.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.canceled = true
	s.mu.Unlock()
	s.cancel()
}

// Done is closed once the call and its outcome handling have finished
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// deliver runs fn unless the subscription was canceled. It holds the lock
// while fn runs so Unsubscribe cannot interleave with a dialog being fired.
// Continuations invoked from inside fn are deferred until the lock is
// released, so they may call Unsubscribe.
func (s *Subscription) deliver(fn func()) {
	s.mu.Lock()
	if s.canceled {
		s.mu.Unlock()
		return
	}

	s.qmu.Lock()
	s.delivering = true
	s.qmu.Unlock()

	fn()

	s.qmu.Lock()
	s.delivering = false
	queued := s.queued
	s.queued = nil
	s.qmu.Unlock()
	s.mu.Unlock()

	for _, run := range queued {
		run()
	}
}

// continuation wraps a dialog callback. A callback answered synchronously
// while deliver holds the lock is queued; a later answer runs directly.
func (s *Subscription) continuation(then func(DialogResult)) func(DialogResult) {
	return func(res DialogResult) {
		s.qmu.Lock()
		if s.delivering {
			s.queued = append(s.queued, func() { then(res) })
			s.qmu.Unlock()
			return
		}
		s.qmu.Unlock()
		then(res)
	}
}
