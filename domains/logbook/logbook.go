package logbook

import "context"

type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

// BotSender is the literal sender recorded on rows the bot itself wrote.
const BotSender = "BOT"

// Row is one appended log line. The sheet schema is
// (timestamp, direction, userId, displayName, messageType, content, messageId);
// the timestamp column is stamped by the appender at call time.
type Row struct {
	UserID      string
	DisplayName string
	MessageType string
	Content     string
	MessageID   string
	Direction   Direction
}

// ISheetAppender is a fire-and-forget append to the remote message log.
// Implementations absorb every failure: an unconfigured or unreachable
// sheet must never influence webhook processing.
type ISheetAppender interface {
	Append(ctx context.Context, row Row)
	// AppendManual writes the short 4-column row used by the manual
	// sync path: (timestamp, userId, "outgoing_manual", text).
	AppendManual(ctx context.Context, userID, text string)
}
