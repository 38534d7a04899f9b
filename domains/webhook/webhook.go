package webhook

import "context"

// Event types delivered by the LINE platform webhook.
const (
	EventTypeMessage  = "message"
	EventTypeFollow   = "follow"
	EventTypeUnfollow = "unfollow"
	EventTypeDelivery = "delivery"
)

// Source identifies who triggered an event. UserID may be empty for
// events sent from group chats without user consent.
type Source struct {
	UserID string `json:"userId"`
}

// Event is one inbound webhook notification. Message is nil unless
// Type is "message"; it is decoded into the concrete sub-type variants
// declared in message.go.
type Event struct {
	Type       string         `json:"type"`
	ReplyToken string         `json:"replyToken,omitempty"`
	Source     Source         `json:"source"`
	Timestamp  int64          `json:"timestamp,omitempty"`
	Message    MessageContent `json:"-"`
}

type WebhookRequest struct {
	Events []Event `json:"events"`
}

type ManualLogRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

type IWebhookUsecase interface {
	// HandleEvents dispatches the whole batch concurrently and returns
	// once every event has been processed. Per-event failures are
	// logged and absorbed; they never fail the batch.
	HandleEvents(ctx context.Context, events []Event)
	LogManualMessage(ctx context.Context, request ManualLogRequest) error
}

// IChatClient is the LINE Messaging API surface the dispatcher needs.
type IChatClient interface {
	ReplyText(ctx context.Context, replyToken, text string) error
	GetDisplayName(ctx context.Context, userID string) (string, error)
}
