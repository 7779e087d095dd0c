package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Legolasan/legolasan-in/pkg/apperrors"
)

func newChatMux(t *testing.T, chat *mockChatService, limit int) *http.ServeMux {
	t.Helper()

	h := NewChatHandler(chat, newTestLimiter(t, limit), zap.NewNop())
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return mux
}

func TestChat_StreamsDeltas(t *testing.T) {
	chat := &mockChatService{deltas: []string{"Hello", " there"}}
	mux := newChatMux(t, chat, 10)

	body := `{"messages":[{"role":"user","content":"hi"}]}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	got := rec.Body.String()
	assert.Contains(t, got, `data: {"content":"Hello"}`)
	assert.Contains(t, got, `data: {"content":" there"}`)
	assert.True(t, strings.HasSuffix(got, "data: [DONE]\n\n"))

	require.Len(t, chat.capturedMessages, 1)
	assert.Equal(t, "hi", chat.capturedMessages[0].Content)
}

func TestChat_ValidationErrorBeforeStream(t *testing.T) {
	chat := &mockChatService{err: apperrors.NewValidation("messages", "at least one message is required")}
	mux := newChatMux(t, chat, 10)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"messages":[]}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"validation_error","field":"messages","message":"at least one message is required"}`, rec.Body.String())
}

func TestChat_MidStreamFailure(t *testing.T) {
	chat := &mockChatService{deltas: []string{"partial"}, err: errors.New("upstream hung up")}
	mux := newChatMux(t, chat, 10)

	body := `{"messages":[{"role":"user","content":"hi"}]}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body)))

	got := rec.Body.String()
	assert.Contains(t, got, `data: {"content":"partial"}`)
	assert.Contains(t, got, `data: {"error":"stream_failed"}`)
	assert.NotContains(t, got, "[DONE]")
}

func TestChat_RateLimited(t *testing.T) {
	mux := newChatMux(t, &mockChatService{deltas: []string{"x"}}, 1)

	body := `{"messages":[{"role":"user","content":"hi"}]}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body)))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
