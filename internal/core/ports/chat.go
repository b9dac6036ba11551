package ports

import "context"

// ChatService is the surface used by chat transports. handled=false means
// the text is not a command and belongs to the conversational fallback.
type ChatService interface {
	ParseAndDispatch(ctx context.Context, text, userID string) (reply string, handled bool)
}

// CommandMetrics is a shared, concurrency-safe counter handle.
type CommandMetrics interface {
	ObserveCommand(kind, outcome string)
	ObserveParseMiss()
	ObserveReminder(sweep, outcome string)
}
