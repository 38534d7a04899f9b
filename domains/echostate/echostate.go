package echostate

// IEchoStateRepository is the per-sender echo-mode toggle. The default
// for an unknown sender is always disabled. Implementations live for the
// process lifetime only; a restart resets every sender.
type IEchoStateRepository interface {
	IsEnabled(userID string) bool
	SetEnabled(userID string, enabled bool)
}
