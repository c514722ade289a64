package inbox

import "messenger/internal/app/message"

// ConversationSummary aggregates one conversation partner: the most
// recent message exchanged with them and how many of their messages the
// user has not read yet.
type ConversationSummary struct {
	PartnerID   uint64           `json:"partner_id"`
	LastMessage *message.Message `json:"last_message"`
	UnreadCount int64            `json:"unread_count"`
}

type ConversationsResponse struct {
	Conversations []*ConversationSummary `json:"conversations"`
	UnreadCount   int64                  `json:"unread_count"`
}

type UnreadResponse struct {
	Messages []*message.Message `json:"messages"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
