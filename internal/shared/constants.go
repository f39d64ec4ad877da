package shared

import "time"

// Server configuration
const (
	DefaultListenAddr      = "127.0.0.1:5000"
	DefaultShutdownTimeout = 10 * time.Second
)

// Default generation parameters. Not all models support every knob; top_k,
// frequency_penalty and repeat_penalty are deliberately never set because some
// model families reject them.
const (
	DefaultNumCtx      = 16000
	DefaultTemperature = 0.4
	DefaultTopP        = 0.95
)

// Context-window advisory threshold. When prompt+completion tokens reach this
// fraction of num_ctx, the client is warned that the conversation may soon be
// truncated.
const ContextWarnRatio = 0.9

// Voice defaults
const (
	DefaultTTSEnabled = true
	DefaultTTSLang    = "en-us"
	DefaultTTSVoice   = "af_heart"
	DefaultTTSSpeed   = 1.0
)

// Upload defaults
const (
	DefaultMaxPDFPages   = 15
	DefaultPDFImageRes   = 1.5
	DefaultMaxUploadMB   = 20
	PDFRenderBaseDPI     = 72
	MaxUploadBytesFactor = 1024 * 1024
)
