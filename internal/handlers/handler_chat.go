package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	"github.com/SscSPs/dailybalance/internal/core/airetry"
	portssvc "github.com/SscSPs/dailybalance/internal/core/ports/services"
	"github.com/SscSPs/dailybalance/internal/dto"
	"github.com/SscSPs/dailybalance/internal/middleware"
)

// chatHandler handles advisor conversations.
type chatHandler struct {
	chatService portssvc.ChatSvc
}

// RegisterChatRoutes registers the chat routes. Sending messages is rate limited per user
// when chatLimiter is non-nil.
func RegisterChatRoutes(rg *gin.RouterGroup, chatService portssvc.ChatSvc, chatLimiter *limiter.Limiter) {
	h := &chatHandler{chatService: chatService}

	chat := rg.Group("/chat/:conversationID")
	{
		send := []gin.HandlerFunc{h.sendMessage}
		if chatLimiter != nil {
			send = append([]gin.HandlerFunc{middleware.RateLimit(chatLimiter)}, send...)
		}
		chat.POST("/messages", send...)
		chat.DELETE("", h.resetConversation)
	}
}

func wantsEventStream(c *gin.Context) bool {
	return !strings.Contains(c.GetHeader("Accept"), "application/json")
}

// sendMessage godoc
// @Summary Send a message to the advisor
// @Description Streams the reply as server-sent events: "delta" (text), "outcome" (a command applied or rejected), "retry", "error" and a final "done". With Accept: application/json the full reply is returned at once instead.
// @Tags chat
// @Accept  json
// @Produce text/event-stream
// @Produce json
// @Param   conversationID path string true "Conversation ID"
// @Param   message body dto.ChatMessageRequest true "User message"
// @Success 200 {object} dto.ChatReplyResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 502 {object} map[string]string "Model provider failed"
// @Security BearerAuth
// @Router /chat/{conversationID}/messages [post]
func (h *chatHandler) sendMessage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ChatMessageRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	conversationID := c.Param("conversationID")
	logger = logger.With(slog.String("conversation_id", conversationID))

	streaming := wantsEventStream(c)
	started := false
	var outcomes []portssvc.Outcome
	onEvent := func(ev portssvc.ChatEvent) {
		if ev.Outcome != nil {
			outcomes = append(outcomes, *ev.Outcome)
		}
		if !streaming {
			return
		}
		if !started {
			startEventStream(c)
			started = true
		}
		c.SSEvent(string(ev.Type), ev)
		c.Writer.Flush()
	}

	reply, err := h.chatService.SendMessage(c.Request.Context(), userID, conversationID, req.Message, onEvent)
	if err != nil {
		if started {
			// the error event has already been sent on the stream
			logger.Warn("Chat turn ended with error", slog.String("error", err.Error()))
			return
		}
		var aiErr *airetry.AIError
		if errors.As(err, &aiErr) {
			logger.Warn("Model provider failed", slog.String("kind", string(aiErr.Kind)))
			c.JSON(http.StatusBadGateway, gin.H{"error": aiErr.Message, "kind": aiErr.Kind, "showRetry": aiErr.ShowRetry})
			return
		}
		respondServiceError(c, logger, err, "Failed to send message")
		return
	}

	logger.Info("Chat turn completed", slog.Int("outcomes", len(outcomes)))
	if !streaming {
		if outcomes == nil {
			outcomes = []portssvc.Outcome{}
		}
		c.JSON(http.StatusOK, dto.ChatReplyResponse{Reply: reply, Outcomes: outcomes})
	}
}

// resetConversation godoc
// @Summary Reset a conversation
// @Description Clears the history and the record of applied commands
// @Tags chat
// @Param   conversationID path string true "Conversation ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /chat/{conversationID} [delete]
func (h *chatHandler) resetConversation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	h.chatService.Reset(userID, c.Param("conversationID"))
	logger.Info("Conversation reset", slog.String("conversation_id", c.Param("conversationID")))
	c.Status(http.StatusNoContent)
}
