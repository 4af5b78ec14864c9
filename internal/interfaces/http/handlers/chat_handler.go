package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Avleen-2464/EchoQuill/internal/application/usecase"
	"github.com/Avleen-2464/EchoQuill/internal/domain/valueobject"
)

// ChatHandler serves the conversational endpoint.
type ChatHandler struct {
	chat   *usecase.ChatUseCase
	logger *zap.Logger
}

// NewChatHandler creates a chat handler.
func NewChatHandler(chat *usecase.ChatUseCase, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chat:   chat,
		logger: logger,
	}
}

// ChatTurn one prior turn sent by the client.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest a user message plus optional client-held history.
type ChatRequest struct {
	Message        string     `json:"message"`
	ConversationID string     `json:"conversation_id"`
	History        []ChatTurn `json:"conversation_history"`
}

// ChatResponse the assistant reply.
type ChatResponse struct {
	Reply          string `json:"reply"`
	ConversationID string `json:"conversation_id"`
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request format"})
		return
	}

	history := make([]valueobject.ConversationTurn, 0, len(req.History))
	for _, turn := range req.History {
		role := valueobject.RoleUser
		if turn.Role == "assistant" || turn.Role == "bot" {
			role = valueobject.RoleAssistant
		}
		history = append(history, valueobject.NewConversationTurn(role, turn.Content))
	}

	out, err := h.chat.Execute(c.Request.Context(), usecase.ChatInput{
		OwnerID:        OwnerID(c),
		ConversationID: req.ConversationID,
		Message:        req.Message,
		History:        history,
	})
	if err != nil {
		h.logger.Warn("Chat request failed", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ChatResponse{
		Reply:          out.Reply,
		ConversationID: out.ConversationID,
	})
}
