package chat

// Server-to-client event types pushed over the persistent connection.
const (
	EventSession        = "session"
	EventToken          = "token"
	EventAudioChunk     = "audio_chunk"
	EventContextWarning = "context_warning"
	EventError          = "error"
	EventEnd            = "end"
)

// Client-to-server message types.
const (
	ClientChatMessage = "chat_message"
	ClientStop        = "stop"
)

// Event is one message pushed to the browser. Exactly one payload field is
// set depending on Type.
type Event struct {
	Type string `json:"type"`

	// session
	SessionID string `json:"session_id,omitempty"`

	// token
	Token string `json:"token,omitempty"`

	// audio_chunk: base64-encoded WAV
	AudioData string `json:"audio_data,omitempty"`

	// context_warning
	Message string `json:"message,omitempty"`

	// error
	Error string `json:"error,omitempty"`

	// end: the authoritative full response text
	FinalMessage string `json:"final_message,omitempty"`
}

// Emitter delivers events to one client connection. Implementations must be
// safe for use from the single generation goroutine; an error return means
// the connection is gone and the generation should wind down.
type Emitter interface {
	Emit(ev Event) error
}

// EmitFunc adapts a function to the Emitter interface.
type EmitFunc func(ev Event) error

func (f EmitFunc) Emit(ev Event) error {
	return f(ev)
}
