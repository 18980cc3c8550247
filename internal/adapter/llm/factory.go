package llm

import (
	"os"
	"time"

	"go.uber.org/zap"
)

const (
	// EnvGameMode is the environment variable name for mode selection.
	EnvGameMode = "SUSTAINET_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// NewLLMClient creates an LLM client based on the SUSTAINET_MODE environment variable.
// If SUSTAINET_MODE=MOCK, returns a MockClient; otherwise returns a real Client.
func NewLLMClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) LLMClient {
	if os.Getenv(EnvGameMode) == ModeMock {
		if logger != nil {
			logger.Info("mock LLM client selected", zap.String("env", EnvGameMode))
		}
		return NewMockClient()
	}

	return NewClient(baseURL, apiKey, timeout)
}
