package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Avleen-2464/EchoQuill/internal/application/usecase"
	"github.com/Avleen-2464/EchoQuill/internal/domain/entity"
	"github.com/Avleen-2464/EchoQuill/internal/domain/valueobject"
	domainErrors "github.com/Avleen-2464/EchoQuill/pkg/errors"
)

// JournalHandler serves journal generation, listing, trends, and deletion.
type JournalHandler struct {
	generate *usecase.GenerateJournalUseCase
	trends   *usecase.MoodTrendsUseCase
	queries  *usecase.JournalQueryUseCase
	logger   *zap.Logger
}

// NewJournalHandler creates a journal handler.
func NewJournalHandler(
	generate *usecase.GenerateJournalUseCase,
	trends *usecase.MoodTrendsUseCase,
	queries *usecase.JournalQueryUseCase,
	logger *zap.Logger,
) *JournalHandler {
	return &JournalHandler{
		generate: generate,
		trends:   trends,
		queries:  queries,
		logger:   logger,
	}
}

// JournalDTO wire shape of one journal entry.
type JournalDTO struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	Entry       string    `json:"entry"`
	Mood        string    `json:"mood"`
	AIGenerated bool      `json:"ai_generated"`
	CreatedAt   time.Time `json:"created_at"`
}

func toJournalDTO(entry *entity.JournalEntry) JournalDTO {
	return JournalDTO{
		ID:          entry.ID(),
		Date:        entry.Date(),
		Entry:       entry.Entry(),
		Mood:        entry.Mood(),
		AIGenerated: entry.AIGenerated(),
		CreatedAt:   entry.CreatedAt(),
	}
}

// GenerateRequest optional overrides for journal generation. History is a
// pointer so "key absent" (use stored messages) can be told apart from
// "key present but empty" (rejected).
type GenerateRequest struct {
	Date    string      `json:"date"`
	History *[]ChatTurn `json:"conversation_history"`
}

// GenerateFromChat handles POST /api/journals/generate-from-chat.
// The body is optional; with no body, today's stored messages are used.
func (h *JournalHandler) GenerateFromChat(c *gin.Context) {
	var req GenerateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request format"})
			return
		}
	}

	var history []valueobject.ConversationTurn
	if req.History != nil {
		if len(*req.History) == 0 {
			respondError(c, domainErrors.NewInvalidInputError("conversation_history must not be empty"))
			return
		}
		history = make([]valueobject.ConversationTurn, 0, len(*req.History))
		for _, turn := range *req.History {
			role := valueobject.RoleUser
			if turn.Role == "assistant" || turn.Role == "bot" {
				role = valueobject.RoleAssistant
			}
			history = append(history, valueobject.NewConversationTurn(role, turn.Content))
		}
	}

	saved, err := h.generate.Execute(c.Request.Context(), usecase.GenerateJournalInput{
		OwnerID: OwnerID(c),
		Date:    req.Date,
		History: history,
	})
	if err != nil {
		h.logger.Warn("Journal generation failed", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toJournalDTO(saved))
}

// List handles GET /api/journals.
func (h *JournalHandler) List(c *gin.Context) {
	entries, err := h.queries.List(c.Request.Context(), OwnerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	dtos := make([]JournalDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, toJournalDTO(entry))
	}
	c.JSON(http.StatusOK, dtos)
}

// TrendPointDTO wire shape of one timeline point.
type TrendPointDTO struct {
	Date        string          `json:"date"`
	Mood        string          `json:"mood"`
	Predictions []PredictionDTO `json:"predictions"`
}

// PredictionDTO wire shape of one emotion prediction.
type PredictionDTO struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// MoodTrends handles GET /api/journals/mood-trends.
func (h *JournalHandler) MoodTrends(c *gin.Context) {
	points, err := h.trends.Execute(c.Request.Context(), OwnerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	dtos := make([]TrendPointDTO, 0, len(points))
	for _, p := range points {
		predictions := make([]PredictionDTO, 0, len(p.Predictions))
		for _, pred := range p.Predictions {
			predictions = append(predictions, PredictionDTO{
				Label: pred.Label(),
				Score: pred.Score(),
			})
		}
		dtos = append(dtos, TrendPointDTO{
			Date:        p.Date,
			Mood:        p.Mood,
			Predictions: predictions,
		})
	}
	c.JSON(http.StatusOK, dtos)
}

// Delete handles DELETE /api/journals/:id.
func (h *JournalHandler) Delete(c *gin.Context) {
	if err := h.queries.Delete(c.Request.Context(), OwnerID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Journal deleted"})
}
