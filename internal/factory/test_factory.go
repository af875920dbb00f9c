package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/mindmaze/internal/dependencies/mocks"
	"github.com/mcoot/mindmaze/internal/services/content"
	"github.com/mcoot/mindmaze/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	Memory     *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	app := newWithDependencies(store, mockClock, mockRandom, Config{}, logger)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Memory:     store,
	}
}

// LoadTestQuestions loads a small question bank with one question per category
func (t *TestApp) LoadTestQuestions() error {
	return t.Content.LoadBank(content.Bank{
		"general_knowledge": {{Text: "What is the capital of France?", Answer: "paris"}},
		"science":           {{Text: "What is the largest planet in our solar system?", Answer: "jupiter"}},
		"math":              {{Text: "What is 5 x 3?", Answer: "15"}},
		"technology":        {{Text: "How many bits are in a byte?", Answer: "8"}},
	})
}
