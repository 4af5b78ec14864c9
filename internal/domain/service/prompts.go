package service

import (
	"fmt"
	"strings"

	"github.com/Avleen-2464/EchoQuill/internal/domain/entity"
	"github.com/Avleen-2464/EchoQuill/internal/domain/valueobject"
)

// Prompt builders are pure functions over their inputs so each stage of the
// journal pipeline can be tested without touching the network.

// ChatPrompt renders prior turns plus the new user message into a single
// completion prompt. With no history the raw message is used as-is.
func ChatPrompt(history []valueobject.ConversationTurn, message string) string {
	var b strings.Builder
	for _, turn := range history {
		b.WriteString(turn.Role().DisplayName())
		b.WriteString(": ")
		b.WriteString(turn.Content())
		b.WriteString("\n")
	}

	if b.Len() == 0 {
		return message + "\nAssistant:"
	}

	b.WriteString("User: ")
	b.WriteString(message)
	b.WriteString("\nAssistant:")
	return b.String()
}

// Transcript renders conversation turns as "{User|Assistant}: {text}" lines.
func Transcript(turns []valueobject.ConversationTurn) string {
	lines := make([]string, 0, len(turns))
	for _, turn := range turns {
		lines = append(lines, turn.Role().DisplayName()+": "+turn.Content())
	}
	return strings.Join(lines, "\n")
}

// TurnsFromMessages converts stored messages into conversation turns,
// preserving order.
func TurnsFromMessages(messages []*entity.Message) []valueobject.ConversationTurn {
	turns := make([]valueobject.ConversationTurn, 0, len(messages))
	for _, msg := range messages {
		role := valueobject.RoleUser
		if !msg.IsFromUser() {
			role = valueobject.RoleAssistant
		}
		turns = append(turns, valueobject.NewConversationTurn(role, msg.Text()))
	}
	return turns
}

// SummaryPrompt asks the model to pull life events and emotional reflections
// out of a transcript. The wording deliberately forbids any mention of the
// conversation being a chat or involving an AI, so the summary reads as the
// person's own day.
func SummaryPrompt(transcript string) string {
	return fmt.Sprintf(`Extract the key life events, activities, and emotional reflections from the following conversation. Write them as short bullet points from the person's perspective. Do not mention a chat, a conversation, an assistant, or an AI in any way - describe only what happened in the person's day and how they felt about it.

Conversation:
%s

Bullet points:`, transcript)
}

// DiaryPrompt rewrites a bullet summary into a first-person diary entry for
// the given date, with an opening salutation and a warm sign-off.
func DiaryPrompt(summary, date string) string {
	return fmt.Sprintf(`Rewrite the following notes as a personal diary entry for %s. Write in the first person, past tense. Open with a greeting such as "Dear Diary," and close with a short, warm sign-off. Keep it reflective and personal, and include the key insights from the notes.

Notes:
%s

Diary entry:`, date, summary)
}
