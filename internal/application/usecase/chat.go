package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Avleen-2464/EchoQuill/internal/domain/repository"
	"github.com/Avleen-2464/EchoQuill/internal/domain/service"
	"github.com/Avleen-2464/EchoQuill/internal/domain/valueobject"
	"github.com/Avleen-2464/EchoQuill/internal/infrastructure/eventbus"
	domainErrors "github.com/Avleen-2464/EchoQuill/pkg/errors"
)

// historyFallbackLimit caps how many stored messages are replayed when the
// client did not send its own history.
const historyFallbackLimit = 20

// ChatSettings model parameters for the conversational path.
type ChatSettings struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// ChatInput a single user turn. History is optional; when empty, recent
// stored messages for the conversation are used instead.
type ChatInput struct {
	OwnerID        string
	ConversationID string
	Message        string
	History        []valueobject.ConversationTurn
}

// ChatOutput the assistant reply for one turn.
type ChatOutput struct {
	Reply          string
	ConversationID string
}

// ChatUseCase handles one conversational round-trip: validate, probe the
// model server, build the prompt, generate, and hand the exchange off to
// the event bus for persistence. The reply is returned before the exchange
// is stored, so a storage failure never blocks the conversation.
type ChatUseCase struct {
	messages repository.MessageRepository
	llm      service.TextGenerator
	bus      eventbus.Bus
	settings ChatSettings
	logger   *zap.Logger
}

// NewChatUseCase creates a chat use-case.
func NewChatUseCase(
	messages repository.MessageRepository,
	llm service.TextGenerator,
	bus eventbus.Bus,
	settings ChatSettings,
	logger *zap.Logger,
) *ChatUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatUseCase{
		messages: messages,
		llm:      llm,
		bus:      bus,
		settings: settings,
		logger:   logger,
	}
}

// Execute processes a user message and generates an assistant reply.
// An empty message is rejected before any network call is made.
func (uc *ChatUseCase) Execute(ctx context.Context, input ChatInput) (*ChatOutput, error) {
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, domainErrors.NewInvalidInputError("Invalid request format")
	}
	if input.OwnerID == "" {
		return nil, domainErrors.NewInvalidInputError("missing owner identity")
	}

	conversationID := input.ConversationID
	if conversationID == "" {
		conversationID = uuid.New().String()
	}

	// The model server must be reachable before we commit to a turn.
	if err := uc.llm.Ping(ctx); err != nil {
		uc.logger.Warn("Inference server unreachable", zap.Error(err))
		return nil, err
	}

	history := input.History
	if len(history) == 0 {
		stored, err := uc.messages.FindByConversationID(ctx, conversationID, historyFallbackLimit)
		if err != nil {
			uc.logger.Warn("Failed to load conversation history",
				zap.String("conversation_id", conversationID),
				zap.Error(err),
			)
		} else {
			history = service.TurnsFromMessages(stored)
		}
	}

	prompt := service.ChatPrompt(history, message)

	start := time.Now()
	reply, err := uc.llm.Generate(ctx, prompt, uc.settings.Model, service.GenerateOptions{
		Temperature: uc.settings.Temperature,
		MaxTokens:   uc.settings.MaxTokens,
	})
	if err != nil {
		uc.logger.Error("Chat generation failed",
			zap.String("conversation_id", conversationID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.logger.Info("Chat reply generated",
		zap.String("owner_id", input.OwnerID),
		zap.String("conversation_id", conversationID),
		zap.Int("history_turns", len(history)),
		zap.Duration("duration", time.Since(start)),
	)

	// Persistence happens off the request path via the bus subscriber.
	uc.bus.Publish(ctx, eventbus.NewEvent(eventbus.EventTypeChatExchange, eventbus.ChatExchangePayload{
		OwnerID:        input.OwnerID,
		ConversationID: conversationID,
		UserText:       message,
		BotText:        reply,
		ExchangedAt:    time.Now().UTC(),
	}))

	return &ChatOutput{
		Reply:          reply,
		ConversationID: conversationID,
	}, nil
}
