package main

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/event-manager-services/common/logger"
	"github.com/event-manager-services/common/metrics"
	"github.com/event-manager-services/services/event-lambda/handler"
)

type lambdaHandler func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

type pinger interface {
	PingContext(ctx context.Context) error
}

// dbPinger returns conn as a pinger, or a nil interface when conn is nil
func dbPinger(conn *sql.DB) pinger {
	if conn == nil {
		return nil
	}
	return conn
}

// newServer wires the event lambda handlers behind echo, the way API Gateway would
func newServer(h *handler.EventHandler, db pinger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	e.GET("/health", healthCheck(db))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	api.GET("/events", lambdaRoute(h.HandleGetEvents))
	api.POST("/events", lambdaRoute(h.HandleCreateEvent))
	api.GET("/events/:eventId", lambdaRoute(h.HandleGetEvent))
	api.PUT("/events/:eventId", lambdaRoute(h.HandleUpdateEvent))
	api.PATCH("/events/:eventId", lambdaRoute(h.HandleUpdateEvent))
	api.DELETE("/events/:eventId", lambdaRoute(h.HandleDeleteEvent))

	return e
}

// adaptRequest converts the echo request into an API Gateway proxy request.
// Only the first value of repeated headers and query parameters is kept.
func adaptRequest(c echo.Context) (events.APIGatewayProxyRequest, error) {
	r := c.Request()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return events.APIGatewayProxyRequest{}, err
	}
	defer r.Body.Close()

	headers := make(map[string]string, len(r.Header))
	for key, values := range r.Header {
		if len(values) > 0 {
			headers[key] = values[0]
		}
	}

	query := make(map[string]string)
	for key, values := range c.QueryParams() {
		if len(values) > 0 {
			query[key] = values[0]
		}
	}

	params := make(map[string]string)
	for _, name := range c.ParamNames() {
		params[name] = c.Param(name)
	}

	return events.APIGatewayProxyRequest{
		HTTPMethod:            r.Method,
		Path:                  r.URL.Path,
		Resource:              c.Path(),
		Headers:               headers,
		QueryStringParameters: query,
		PathParameters:        params,
		Body:                  string(body),
		RequestContext: events.APIGatewayProxyRequestContext{
			RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
		},
	}, nil
}

// lambdaRoute runs a lambda handler for an echo route. A returned error
// becomes a bare 500, as API Gateway does for a failed invocation.
func lambdaRoute(fn lambdaHandler) echo.HandlerFunc {
	return func(c echo.Context) error {
		req, err := adaptRequest(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Failed to read request")
		}

		resp, err := fn(c.Request().Context(), req)
		if err != nil {
			logger.WithContext(c.Request().Context()).WithError(err).Error("%s %s: handler failed", req.HTTPMethod, req.Path)
			return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
		}

		for key, value := range resp.Headers {
			c.Response().Header().Set(key, value)
		}
		return c.String(resp.StatusCode, resp.Body)
	}
}

func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			logger.Default().LogRequest(logger.RequestLog{
				Method:    c.Request().Method,
				Path:      c.Request().URL.Path,
				Status:    status,
				Duration:  time.Since(start),
				ClientIP:  c.RealIP(),
				UserAgent: c.Request().UserAgent(),
				RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
			})
			metrics.ObserveHTTPRequest(c.Request().Method, c.Path(), status)
			return nil
		}
	}
}

func healthCheck(db pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if db == nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "message": "database not initialized"})
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "message": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	}
}
