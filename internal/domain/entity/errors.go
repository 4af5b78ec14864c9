package entity

import "errors"

var (
	// Message errors
	ErrInvalidMessageID      = errors.New("invalid message id")
	ErrInvalidOwnerID        = errors.New("invalid owner id")
	ErrInvalidConversationID = errors.New("invalid conversation id")
	ErrInvalidSender         = errors.New("invalid sender")
	ErrEmptyMessageText      = errors.New("empty message text")

	// Journal errors
	ErrInvalidJournalID   = errors.New("invalid journal id")
	ErrInvalidJournalDate = errors.New("invalid journal date")
	ErrEmptyJournalEntry  = errors.New("empty journal entry")
)
