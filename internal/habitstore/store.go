// Package habitstore owns the in-memory habit collection and mirrors every
// mutation to a storage.KV once the initial load has happened.
package habitstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitweek/internal/constants"
	"github.com/julianstephens/habitweek/internal/logger"
	"github.com/julianstephens/habitweek/internal/models"
	"github.com/julianstephens/habitweek/internal/storage"
	"github.com/julianstephens/habitweek/internal/utils"
)

// Phase is the store's lifecycle state
type Phase int

const (
	// PhaseLoading is the initial phase; writes are suppressed
	PhaseLoading Phase = iota
	// PhaseReady is entered once, after the first load attempt
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Store is not safe for concurrent use. Callers drive it from a single
// event loop (a CLI command or the TUI update loop).
type Store struct {
	kv    storage.KV
	key   string
	now   func() time.Time
	newID func() string

	phase  Phase
	habits []models.Habit
}

type Option func(*Store)

// WithClock overrides the time source used for CreatedAt
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the habit id generator
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithKey overrides the storage key the collection is kept under
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

func New(kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:    kv,
		key:   constants.StorageKey,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
		phase: PhaseLoading,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Phase() Phase { return s.phase }

// Key returns the storage key the collection is persisted under
func (s *Store) Key() string { return s.key }

// Load reads the persisted collection. Absent or malformed data yields an
// empty collection; a malformed blob is also deleted. Only a failing
// medium produces an error. The store is ready afterwards in every case.
func (s *Store) Load() ([]models.Habit, error) {
	if s.phase == PhaseReady {
		return s.Habits(), nil
	}
	defer func() { s.phase = PhaseReady }()

	raw, err := s.kv.Get(s.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return s.Habits(), nil
		}
		logger.Error("Failed to read habits", "location", s.kv.Location(), "error", err)
		return s.Habits(), fmt.Errorf("failed to read habits: %w", err)
	}

	habits, err := Decode(raw)
	if err != nil {
		logger.Warn("Discarding malformed habit data", "location", s.kv.Location(), "error", err)
		if delErr := s.kv.Delete(s.key); delErr != nil && !errors.Is(delErr, storage.ErrNotFound) {
			logger.Warn("Failed to delete malformed habit data", "error", delErr)
		}
		return s.Habits(), nil
	}

	s.habits = habits
	logger.Debug("Loaded habits", "count", len(habits), "location", s.kv.Location())
	return s.Habits(), nil
}

// Add creates a habit named after the trimmed name and puts it first.
// A blank name is ignored and returns nil, nil.
func (s *Store) Add(name string) (*models.Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	h := models.Habit{
		ID:          s.newID(),
		Name:        name,
		CreatedAt:   s.now().UTC(),
		Completions: models.NewCompletionSet(),
	}
	s.habits = append([]models.Habit{h}, s.habits...)

	out := h.Clone()
	return &out, s.persist()
}

// Toggle flips dateKey in the completion record of the habit with id.
// Unknown ids and malformed keys are ignored.
func (s *Store) Toggle(id, dateKey string) error {
	if !utils.ValidDateKey(dateKey) {
		return nil
	}
	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	s.habits[i].Completions.Toggle(dateKey)
	return s.persist()
}

// Remove deletes the habit with id. Unknown ids are ignored.
func (s *Store) Remove(id string) error {
	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	s.habits = append(s.habits[:i], s.habits[i+1:]...)
	return s.persist()
}

// Habits returns a copy of the collection, most recently added first
func (s *Store) Habits() []models.Habit {
	out := make([]models.Habit, len(s.habits))
	for i, h := range s.habits {
		out[i] = h.Clone()
	}
	return out
}

func (s *Store) Get(id string) (models.Habit, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return models.Habit{}, false
	}
	return s.habits[i].Clone(), true
}

// FindByName matches case-insensitively on the trimmed name and returns
// the first (most recent) hit.
func (s *Store) FindByName(name string) (models.Habit, bool) {
	name = strings.TrimSpace(name)
	for _, h := range s.habits {
		if strings.EqualFold(h.Name, name) {
			return h.Clone(), true
		}
	}
	return models.Habit{}, false
}

// Resolve looks a habit up by id first, then by name
func (s *Store) Resolve(ref string) (models.Habit, bool) {
	if h, ok := s.Get(ref); ok {
		return h, true
	}
	return s.FindByName(ref)
}

func (s *Store) indexOf(id string) int {
	for i := range s.habits {
		if s.habits[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persist() error {
	if s.phase != PhaseReady {
		return nil
	}
	raw, err := Encode(s.habits)
	if err != nil {
		return err
	}
	if err := s.kv.Set(s.key, raw); err != nil {
		logger.Error("Failed to save habits", "location", s.kv.Location(), "error", err)
		return fmt.Errorf("failed to save habits: %w", err)
	}
	return nil
}

// Encode serializes habits to the persisted JSON array form
func Encode(habits []models.Habit) (string, error) {
	if habits == nil {
		habits = []models.Habit{}
	}
	data, err := json.Marshal(habits)
	if err != nil {
		return "", fmt.Errorf("failed to encode habits: %w", err)
	}
	return string(data), nil
}

// Decode parses a persisted blob. A missing completions field becomes an
// empty set; empty or duplicate ids and bad date keys are errors.
func Decode(raw string) ([]models.Habit, error) {
	var habits []models.Habit
	if err := json.Unmarshal([]byte(raw), &habits); err != nil {
		return nil, fmt.Errorf("failed to decode habits: %w", err)
	}
	if habits == nil {
		return nil, errors.New("habit data is not an array")
	}

	seen := make(map[string]bool, len(habits))
	for i := range habits {
		h := &habits[i]
		if err := h.Validate(); err != nil {
			return nil, fmt.Errorf("habit %d: %w", i, err)
		}
		if seen[h.ID] {
			return nil, fmt.Errorf("duplicate habit id %q", h.ID)
		}
		seen[h.ID] = true
		if h.Completions == nil {
			h.Completions = models.NewCompletionSet()
		}
	}
	return habits, nil
}
