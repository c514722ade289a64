package message

import "time"

// Message is a direct message between two users. CreatedAt is set once on
// insert and never updated; ParentID links replies to the message they
// answer and may be nil for conversation roots.
type Message struct {
	ID         uint64    `json:"id" gorm:"primaryKey"`
	SenderID   uint64    `json:"sender_id" gorm:"not null;index"`
	ReceiverID uint64    `json:"receiver_id" gorm:"not null;index"`
	Content    string    `json:"content" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	Read       bool      `json:"read" gorm:"not null;default:false;index"`
	Edited     bool      `json:"edited" gorm:"not null;default:false"`
	ParentID   *uint64   `json:"parent_id,omitempty" gorm:"index"`
}

// Notification is created exactly once per message, for the receiver,
// and only when sender and receiver differ. Only Read mutates afterwards.
type Notification struct {
	ID        uint64    `json:"id" gorm:"primaryKey"`
	UserID    uint64    `json:"user_id" gorm:"not null;index"`
	MessageID uint64    `json:"message_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	Read      bool      `json:"read" gorm:"not null;default:false"`
}

// MessageHistory is an append-only snapshot of a message's content taken
// before each content-changing edit.
type MessageHistory struct {
	ID         uint64    `json:"id" gorm:"primaryKey"`
	MessageID  uint64    `json:"message_id" gorm:"not null;index"`
	OldContent string    `json:"old_content" gorm:"not null"`
	EditedAt   time.Time `json:"edited_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	EditedByID uint64    `json:"edited_by_id" gorm:"not null;index"`
}

type SendMessageRequest struct {
	ReceiverID uint64  `json:"receiver_id" binding:"required"`
	Content    string  `json:"content" binding:"required"`
	ParentID   *uint64 `json:"parent_id,omitempty"`
}

type EditMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

type MessageResponse struct {
	Message *Message `json:"message"`
}

type ThreadResponse struct {
	Messages []*Message `json:"messages"`
}

type HistoryResponse struct {
	History []*MessageHistory `json:"history"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
