package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bareServer builds a Server without connections, enough for the helpers
// under test.
func bareServer() *Server {
	return &Server{}
}

func TestHandleHealth(t *testing.T) {
	s := bareServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.handleHealth(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestJSONResponse(t *testing.T) {
	s := bareServer()

	w := httptest.NewRecorder()
	s.jsonResponse(w, http.StatusCreated, map[string]any{"count": 3})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"count": 3}`, w.Body.String())
}

func TestErrorResponse(t *testing.T) {
	s := bareServer()

	w := httptest.NewRecorder()
	s.errorResponse(w, http.StatusNotFound, "Project not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error": "Project not found"}`, w.Body.String())
}

func TestExtractClientID(t *testing.T) {
	s := bareServer()

	tests := []struct {
		name       string
		remoteAddr string
		expected   string
	}{
		{"ip and port", "203.0.113.9:54321", "203.0.113.9"},
		{"ipv6 and port", "[2001:db8::1]:443", "2001:db8::1"},
		{"no port", "203.0.113.9", "203.0.113.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/projects", nil)
			req.RemoteAddr = tt.remoteAddr
			assert.Equal(t, tt.expected, s.extractClientID(req))
		})
	}
}

func TestWithCORS(t *testing.T) {
	s := bareServer()

	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := s.withCORS(inner)

	t.Run("sets headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/projects", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		innerCalled := false
		handler := s.withCORS(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			innerCalled = true
		}))

		req := httptest.NewRequest(http.MethodOptions, "/projects", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, innerCalled)
	})
}

func TestRequireGenerator_NotConfigured(t *testing.T) {
	s := bareServer() // no LLM client, generator is nil

	w := httptest.NewRecorder()
	ok := s.requireGenerator(w)

	assert.False(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "missing API key")
}

func TestParseProjectID_Invalid(t *testing.T) {
	s := bareServer()

	req := httptest.NewRequest(http.MethodGet, "/projects/not-a-uuid", nil)
	req.SetPathValue("id", "not-a-uuid")
	w := httptest.NewRecorder()

	_, ok := s.parseProjectID(w, req)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
