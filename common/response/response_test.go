package response

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/event-manager-services/common/errors"
)

func TestItem(t *testing.T) {
	resp, err := Item(http.StatusOK, map[string]string{"eventId": "42"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	assert.JSONEq(t, `{"item":{"eventId":"42"}}`, resp.Body)
}

func TestItems(t *testing.T) {
	resp, err := Items([]string{"a", "b"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"items":["a","b"]}`, resp.Body)
}

func TestError_AppError(t *testing.T) {
	resp, err := Error(apperrors.NotFound("Event"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Event not found","code":"E3001"}`, resp.Body)
}

func TestError_PlainError(t *testing.T) {
	resp, err := Error(errors.New("driver: bad connection"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, resp.Body, "bad connection")
}

func TestJSON_Unserializable(t *testing.T) {
	_, err := JSON(http.StatusOK, map[string]interface{}{"ch": make(chan int)})
	assert.Error(t, err)
}

func TestHeadersAreCopied(t *testing.T) {
	resp, err := Message(http.StatusOK, "ok")
	require.NoError(t, err)

	resp.Headers["X-Test"] = "1"
	_, present := CORSHeaders["X-Test"]
	assert.False(t, present)
}
