package content

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/mcoot/mindmaze/internal/dependencies/random"
	"github.com/mcoot/mindmaze/internal/model"
)

//go:embed questions.json
var defaultQuestions []byte

// Bank is a set of questions grouped by category
type Bank map[model.Category][]model.Question

// Service provides the question bank
type Service struct {
	random random.Random
	logger *slog.Logger

	mu   sync.RWMutex
	bank Bank
}

// New creates an empty content service
func New(rnd random.Random, logger *slog.Logger) *Service {
	return &Service{
		random: rnd,
		logger: logger.With(slog.String("component", "content")),
		bank:   make(Bank),
	}
}

// LoadDefault loads the built-in question bank
func (s *Service) LoadDefault() error {
	bank, err := ParseBank(defaultQuestions)
	if err != nil {
		return fmt.Errorf("default questions: %w", err)
	}
	return s.LoadBank(bank)
}

// LoadFromFile loads a question bank from a JSON file shaped like
// {"category": [{"question": "...", "answer": "..."}]}
func (s *Service) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	bank, err := ParseBank(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return s.LoadBank(bank)
}

// ParseBank decodes and checks a JSON question bank
func ParseBank(data []byte) (Bank, error) {
	var bank Bank
	if err := json.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	return bank, nil
}

// LoadBank replaces the question bank. Categories must be non-empty and
// every question needs both text and an answer.
func (s *Service) LoadBank(bank Bank) error {
	if len(bank) == 0 {
		return model.ErrNoQuestions
	}

	loaded := make(Bank, len(bank))
	for category, questions := range bank {
		if category == "" {
			return fmt.Errorf("empty category name")
		}
		if len(questions) == 0 {
			return fmt.Errorf("category %s: %w", category, model.ErrNoQuestions)
		}
		for i, q := range questions {
			if strings.TrimSpace(q.Text) == "" || strings.TrimSpace(q.Answer) == "" {
				return fmt.Errorf("category %s question %d: missing text or answer", category, i)
			}
		}
		loaded[category] = slices.Clone(questions)
	}

	s.mu.Lock()
	s.bank = loaded
	s.mu.Unlock()

	s.logger.Info("question bank loaded",
		slog.Int("categories", len(loaded)),
		slog.Int("questions", lo.Sum(lo.MapToSlice(loaded, func(_ model.Category, qs []model.Question) int {
			return len(qs)
		}))))
	return nil
}

// CategoryExists reports whether the bank has questions for category
func (s *Service) CategoryExists(category model.Category) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bank[category]) > 0
}

// Categories returns the number of questions per category
func (s *Service) Categories() map[model.Category]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.MapValues(s.bank, func(qs []model.Question, _ model.Category) int {
		return len(qs)
	})
}

// CategoryNames returns the category names in sorted order
func (s *Service) CategoryNames() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := lo.Keys(s.bank)
	slices.Sort(names)
	return names
}

// Questions returns a copy of the questions in category
func (s *Service) Questions(category model.Category) ([]model.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	questions, ok := s.bank[category]
	if !ok {
		return nil, model.ErrUnknownCategory
	}
	return slices.Clone(questions), nil
}

// RandomQuestion draws a question uniformly from category
func (s *Service) RandomQuestion(category model.Category) (model.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	questions, ok := s.bank[category]
	if !ok {
		return model.Question{}, model.ErrUnknownCategory
	}
	if len(questions) == 0 {
		return model.Question{}, model.ErrNoQuestions
	}
	return questions[s.random.Intn(len(questions))], nil
}
