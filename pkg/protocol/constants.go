package protocol

// Directory and endpoint constants used throughout Nova.
const (
	// NovaDir is the user-level state directory (e.g., ~/.nova).
	NovaDir = ".nova"

	// DefaultBaseURL is the backend HTTP origin used when no configuration
	// is supplied.
	DefaultBaseURL = "http://127.0.0.1:8000"

	// DefaultStatusURL is the live-status WebSocket endpoint used when no
	// configuration is supplied.
	DefaultStatusURL = "ws://127.0.0.1:8000/ws/status"
)
