package respond

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage(t *testing.T) {
	w := httptest.NewRecorder()
	Message(w, http.StatusNotFound, "Character not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"Character not found"}`, w.Body.String())
}

func TestJSONSlice(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, []int{})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
