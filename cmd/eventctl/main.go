// Command eventctl is a developer tool for the event service: it issues local
// JWTs and submits events through the same form controller the client uses.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/event-manager-services/client/addevent"
	"github.com/event-manager-services/client/service"
	"github.com/event-manager-services/common/config"
	"github.com/event-manager-services/common/jwt"
)

var (
	apiURL   string
	apiToken string

	tokenUser  string
	tokenEmail string

	form flagForm
)

var rootCmd = &cobra.Command{
	Use:           "eventctl",
	Short:         "Event service developer tool",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a JWT signed with the configured secret",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		token, err := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiration).GenerateToken(tokenUser, tokenEmail)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Submit a new event through the add-event form",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := form.parse(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		events := service.NewEventService(service.Config{BaseURL: apiURL, Token: apiToken})
		dialog := &terminalDialog{out: out}
		comp := addevent.New(&form, terminalSpinner{out: cmd.ErrOrStderr()}, dialog, terminalRouter{out: out}, events)

		if result := comp.Validate(); !result.Valid() {
			return fmt.Errorf("missing fields: %v", result.Missing)
		}
		return submitAndWait(comp, dialog, time.Minute)
	},
}

// submitAndWait submits the form and fails when the error dialog was shown
func submitAndWait(comp *addevent.Component, dialog *terminalDialog, timeout time.Duration) error {
	sub := comp.Submit()
	if sub == nil {
		return errors.New("form is invalid")
	}
	select {
	case <-sub.Done():
	case <-time.After(timeout):
		comp.Destroy()
		return errors.New("timed out waiting for the event service")
	}
	if dialog.Failed() {
		return errors.New("event creation failed")
	}
	return nil
}

func init() {
	_ = godotenv.Load()
	defaultURL := "http://localhost:8080/api"
	if cfg, err := config.Load(); err == nil {
		defaultURL = cfg.ServiceURL
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultURL, "event service base URL")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", os.Getenv("EVENTS_TOKEN"), "bearer token")

	tokenCmd.Flags().StringVar(&tokenUser, "user", "local-user", "user id claim")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email claim")

	createCmd.Flags().StringVar(&form.values.Title, "title", "", "event title")
	createCmd.Flags().StringVar(&form.values.Type, "type", "", "event type")
	createCmd.Flags().StringVar(&form.values.Description, "description", "", "event description")
	createCmd.Flags().StringVar(&form.date, "date", "", "event date (YYYY-MM-DD)")
	createCmd.Flags().StringVar(&form.values.Venue, "venue", "", "event venue")

	rootCmd.AddCommand(tokenCmd, createCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
