package common

const (
	// MaxRequestBody limits JSON request bodies.
	MaxRequestBody = 64 << 10
	// MaxPromptCount caps the "show more" count parameter.
	MaxPromptCount = 10
)
