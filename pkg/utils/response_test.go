package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respond(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	handler(c)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestSendSuccessWithMeta(t *testing.T) {
	w, body := respond(t, func(c *gin.Context) {
		SendSuccessWithMeta(c, []int{1, 2}, &Meta{Total: 5, Returned: 2, Truncated: true})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, []interface{}{1.0, 2.0}, body["data"])
	assert.Equal(t, map[string]interface{}{"total": 5.0, "returned": 2.0, "truncated": true}, body["meta"])
	assert.NotContains(t, body, "error")
}

func TestSendCreated(t *testing.T) {
	w, body := respond(t, func(c *gin.Context) {
		SendCreated(c, gin.H{"slate": "main"})
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, map[string]interface{}{"slate": "main"}, body["data"])
}

func TestSendErrors(t *testing.T) {
	tests := []struct {
		name       string
		send       gin.HandlerFunc
		wantStatus int
		wantCode   string
	}{
		{"validation", func(c *gin.Context) { SendValidationError(c, "bad", "field x") }, http.StatusBadRequest, ErrCodeValidation},
		{"not found", func(c *gin.Context) { SendNotFound(c, "missing") }, http.StatusNotFound, ErrCodeNotFound},
		{"internal", func(c *gin.Context) { SendInternalError(c, "boom") }, http.StatusInternalServerError, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := respond(t, tt.send)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, false, body["success"])
			appErr, ok := body["error"].(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, appErr["code"])
		})
	}
}

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "NOT_FOUND: slate missing", NewAppError(ErrCodeNotFound, "slate missing").Error())
	assert.Equal(t, "SEARCH_ERROR: failed - timeout", NewAppError(ErrCodeSearch, "failed", "timeout").Error())
}
