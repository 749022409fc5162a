package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/event-manager-services/common/config"
	"github.com/event-manager-services/common/db"
	"github.com/event-manager-services/common/jwt"
	"github.com/event-manager-services/services/event-lambda/handler"
	"github.com/event-manager-services/services/event-lambda/repository"
	"github.com/event-manager-services/services/event-lambda/usecase"
)

type lambdaHandler func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// selectHandler maps the _HANDLER value to a handler; unknown or empty means update
func selectHandler(h *handler.EventHandler, name string) lambdaHandler {
	switch name {
	case "create":
		return h.HandleCreateEvent
	case "list":
		return h.HandleGetEvents
	case "get":
		return h.HandleGetEvent
	case "delete":
		return h.HandleDeleteEvent
	default:
		return h.HandleUpdateEvent
	}
}

// For AWS Lambda deployment. One function per route; _HANDLER picks which.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := db.InitDBWithConfig(cfg.Database); err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.CloseDB()

	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiration)
	service := usecase.NewEventUseCase(repository.NewEventRepository(db.GetDB()), tokens)
	eventHandler := handler.NewEventHandler(service)

	lambda.Start(selectHandler(eventHandler, os.Getenv("_HANDLER")))
}
