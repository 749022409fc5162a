package response

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	apperrors "github.com/event-manager-services/common/errors"
)

// CORSHeaders are attached to every API response
var CORSHeaders = map[string]string{
	"Access-Control-Allow-Origin": "*",
}

// ItemBody is the {"item": ...} envelope
type ItemBody struct {
	Item interface{} `json:"item"`
}

// ItemsBody is the {"items": [...]} envelope
type ItemsBody struct {
	Items interface{} `json:"items"`
}

// MessageBody is the {"message": ...} body used for errors
type MessageBody struct {
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
}

func headers() map[string]string {
	h := make(map[string]string, len(CORSHeaders)+1)
	for k, v := range CORSHeaders {
		h[k] = v
	}
	h["Content-Type"] = "application/json"
	return h
}

// JSON serializes data as the response body.
// A serialization failure is returned as an error, not as a response.
func JSON(statusCode int, data interface{}) (events.APIGatewayProxyResponse, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    headers(),
		Body:       string(body),
	}, nil
}

// Item returns statusCode with {"item": item}
func Item(statusCode int, item interface{}) (events.APIGatewayProxyResponse, error) {
	return JSON(statusCode, ItemBody{Item: item})
}

// Items returns 200 with {"items": items}
func Items(items interface{}) (events.APIGatewayProxyResponse, error) {
	return JSON(http.StatusOK, ItemsBody{Items: items})
}

// Message returns statusCode with {"message": message}
func Message(statusCode int, message string) (events.APIGatewayProxyResponse, error) {
	return JSON(statusCode, MessageBody{Message: message})
}

// Error renders err with the status carried by its AppError; anything else is a 500
func Error(err error) (events.APIGatewayProxyResponse, error) {
	appErr := apperrors.ToAppError(err)
	return JSON(appErr.HTTPStatus, MessageBody{
		Message: appErr.Message,
		Code:    string(appErr.Code),
		Fields:  appErr.Fields,
	})
}
