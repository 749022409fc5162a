package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/event-manager-services/client/addevent"
)

const dateLayout = "2006-01-02"

// flagForm is the add-event form filled from command-line flags
type flagForm struct {
	values addevent.FormValues
	date   string
}

func (f *flagForm) parse() error {
	if f.date == "" {
		f.values.Date = time.Time{}
		return nil
	}
	d, err := time.Parse(dateLayout, f.date)
	if err != nil {
		return fmt.Errorf("invalid --date %q, want YYYY-MM-DD", f.date)
	}
	f.values.Date = d
	return nil
}

func (f *flagForm) Values() addevent.FormValues {
	return f.values
}

type terminalSpinner struct{ out io.Writer }

func (s terminalSpinner) Show() { fmt.Fprintln(s.out, "⏳ sending...") }
func (s terminalSpinner) Hide() {}

// terminalDialog prints the dialog and acknowledges it with its confirm button.
// It remembers whether an error dialog was shown.
type terminalDialog struct {
	out io.Writer

	mu     sync.Mutex
	failed bool
}

func (d *terminalDialog) Fire(opts addevent.DialogOptions, then func(addevent.DialogResult)) {
	icon := "✅"
	if opts.Icon == addevent.IconError {
		icon = "❌"
		d.mu.Lock()
		d.failed = true
		d.mu.Unlock()
	}
	fmt.Fprintf(d.out, "%s %s\n%s\n", icon, opts.Title, opts.Text)
	then(addevent.DialogResult{Value: true})
}

// Failed reports whether an error dialog has been shown
func (d *terminalDialog) Failed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.failed
}

type terminalRouter struct{ out io.Writer }

func (r terminalRouter) NavigateByURL(url string) {
	fmt.Fprintf(r.out, "→ %s\n", url)
}
