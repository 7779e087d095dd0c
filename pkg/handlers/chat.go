package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/Legolasan/legolasan-in/pkg/apperrors"
	"github.com/Legolasan/legolasan-in/pkg/llm"
	"github.com/Legolasan/legolasan-in/pkg/ratelimit"
	"github.com/Legolasan/legolasan-in/pkg/services"
)

// ChatRequest is the assistant conversation payload.
type ChatRequest struct {
	Messages []llm.Message `json:"messages"`
}

// ChatHandler streams assistant replies over SSE.
type ChatHandler struct {
	chatService services.ChatService
	chatLimiter *ratelimit.Limiter
	logger      *zap.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chatService services.ChatService, chatLimiter *ratelimit.Limiter, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chatService: chatService, chatLimiter: chatLimiter, logger: logger}
}

// RegisterRoutes registers the chat handler's routes on the given mux.
func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/chat", h.Chat)
}

// Chat handles POST /api/chat. Validation failures are plain JSON errors;
// once streaming starts the response is SSE "data:" lines ending with
// [DONE], and upstream failures mid-stream surface as an SSE error event.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	if !CheckRateLimit(w, r, h.chatLimiter, h.logger) {
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Streaming unsupported"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	streaming := false
	err := h.chatService.Stream(r.Context(), req.Messages, func(content string) error {
		if !streaming {
			w.Header().Set("Content-Type", "text/event-stream")
			w.Header().Set("Cache-Control", "no-cache")
			w.Header().Set("Connection", "keep-alive")
			streaming = true
		}

		payload, err := json.Marshal(map[string]string{"content": content})
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		if !streaming {
			if ve, ok := apperrors.AsValidation(err); ok {
				if err := ValidationErrorResponse(w, ve); err != nil {
					h.logger.Error("Failed to write error response", zap.Error(err))
				}
				return
			}
			ServiceError(w, h.logger, err)
			return
		}
		// Mid-stream failure: the status line is gone, all we can do is
		// signal the client and close.
		h.logger.Error("chat stream failed", zap.Error(err))
		fmt.Fprint(w, "data: {\"error\":\"stream_failed\"}\n\n")
		flusher.Flush()
		return
	}

	if !streaming {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
	}
	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}
