package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/voyageprep/voyage-backend/internal/logger"
	"github.com/voyageprep/voyage-backend/internal/services"
)

type ChatHandler struct {
	log         *logger.Logger
	chatService services.ChatService
}

func NewChatHandler(baseLog *logger.Logger, chatService services.ChatService) *ChatHandler {
	return &ChatHandler{
		log:         baseLog.With("handler", "ChatHandler"),
		chatService: chatService,
	}
}

func (h *ChatHandler) CreateSession(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	var req struct {
		Title string `json:"title"`
	}
	_ = c.ShouldBindJSON(&req)
	session, err := h.chatService.CreateSession(c.Request.Context(), userID, req.Title)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "session_create_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session})
}

func (h *ChatHandler) ListSessions(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	sessions, err := h.chatService.ListSessions(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "session_list_failed", err)
		return
	}
	RespondOK(c, gin.H{"sessions": sessions})
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	sessionID, err := pathUUID(c, "id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	messages, err := h.chatService.ListMessages(c.Request.Context(), userID, sessionID)
	if err != nil {
		RespondError(c, http.StatusNotFound, "messages_list_failed", err)
		return
	}
	RespondOK(c, gin.H{"messages": messages})
}

func (h *ChatHandler) DeleteSession(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	sessionID, err := pathUUID(c, "id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := h.chatService.DeleteSession(c.Request.Context(), userID, sessionID); err != nil {
		RespondError(c, http.StatusNotFound, "session_delete_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

type sendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// Stream serves POST /chat/sessions/:id/messages as an SSE response. Each
// model delta goes out as `data: {"content": ...}` and the stream ends with
// `data: [DONE]`.
func (h *ChatHandler) Stream(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	sessionID, err := pathUUID(c, "id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	useRAG, _ := strconv.ParseBool(c.DefaultQuery("rag", "true"))

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		RespondError(c, http.StatusInternalServerError, "streaming_unsupported", fmt.Errorf("streaming unsupported"))
		return
	}
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)

	onDelta := func(delta string) {
		payload, err := json.Marshal(gin.H{"content": delta})
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", payload)
		flusher.Flush()
	}

	if _, err := h.chatService.StreamReply(c.Request.Context(), userID, sessionID, req.Message, useRAG, onDelta); err != nil {
		h.log.Warn("Chat stream failed", "session_id", sessionID, "error", err)
		payload, _ := json.Marshal(gin.H{"error": err.Error()})
		fmt.Fprintf(c.Writer, "data: %s\n\n", payload)
	}
	fmt.Fprint(c.Writer, "data: [DONE]\n\n")
	flusher.Flush()
}
