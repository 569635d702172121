package ollama

import "time"

const (
	// DefaultModel is the default Ollama model
	DefaultModel = "llama3.1"

	// DefaultBaseURL is the default Ollama service endpoint
	DefaultBaseURL = "http://localhost:11434"

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 60 * time.Second
)
