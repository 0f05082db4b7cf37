package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReasonedError(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteReasonedError(rec, http.StatusUnauthorized, "invalid or expired credential", "invalid_credential")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "invalid or expired credential", body.Error)
	assert.Equal(t, "invalid_credential", body.Reason)
}

func TestWriteErrorMessage_OmitsEmptyReason(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteErrorMessage(rec, http.StatusBadRequest, "bad input")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotContains(t, rec.Body.String(), "reason")
}

func TestWriteSuccess(t *testing.T) {
	rec := httptest.NewRecorder()

	err := WriteSuccess(rec, map[string]int{"sent_today": 2})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sent_today":2}`, rec.Body.String())
}

func TestParseJSON_Invalid(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))

	var dest map[string]string
	err := ParseJSON(r, &dest)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}
