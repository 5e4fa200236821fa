// Package state provides configuration and persistent gateway counters
package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
)

// DefaultSubmissionIDWidth is the number of digits in a submission id
const DefaultSubmissionIDWidth = 5

var (
	// ErrStateNotFound is returned by a Backend when no counters were saved yet
	ErrStateNotFound = errors.New("counter state not found")
	// ErrStateCorrupt is returned by a Backend when saved counters cannot be decoded
	ErrStateCorrupt = errors.New("counter state corrupt")
	// ErrSubmissionIDOverflow is returned when the next submission id does not
	// fit the configured width
	ErrSubmissionIDOverflow = errors.New("submission id overflow")
)

// Counters is the persisted counter state
type Counters struct {
	TransactionID int `json:"transaction-id" bson:"transaction_id"`
	SubmissionID  int `json:"submission-id" bson:"submission_id"`
}

func (c Counters) valid() bool {
	return c.TransactionID >= 0 && c.SubmissionID >= 0
}

// Backend loads and saves counter state
type Backend interface {
	// Load returns the saved counters. It returns an error wrapping
	// ErrStateNotFound or ErrStateCorrupt when there is nothing usable.
	Load(ctx context.Context) (Counters, error)
	// Save durably replaces the saved counters
	Save(ctx context.Context, c Counters) error
}

// Store hands out transaction and submission ids and gives access to the
// configuration
type Store struct {
	mu       sync.Mutex
	cfg      *Config
	backend  Backend
	counters Counters

	submissionIDWidth int
	logger            *slog.Logger
}

// Option configures a Store
type Option func(*Store)

// WithSubmissionIDWidth sets the number of digits in submission ids
func WithSubmissionIDWidth(width int) Option {
	return func(s *Store) {
		if width > 0 {
			s.submissionIDWidth = width
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open loads the configuration file and the counters
func Open(ctx context.Context, configPath string, backend Backend, opts ...Option) (*Store, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return New(ctx, cfg, backend, opts...)
}

// New creates a Store from an already loaded configuration
func New(ctx context.Context, cfg *Config, backend Backend, opts ...Option) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if backend == nil {
		return nil, fmt.Errorf("backend is required")
	}

	s := &Store{
		cfg:               cfg,
		backend:           backend,
		submissionIDWidth: DefaultSubmissionIDWidth,
		logger:            slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	counters, err := backend.Load(ctx)
	switch {
	case err == nil && counters.valid():
		s.counters = counters
	case err == nil:
		s.logger.Warn("counter state has negative values, starting from zero",
			slog.Int("transaction_id", counters.TransactionID),
			slog.Int("submission_id", counters.SubmissionID))
	case errors.Is(err, ErrStateNotFound):
		s.logger.Debug("no counter state, starting from zero")
	case errors.Is(err, ErrStateCorrupt):
		s.logger.Warn("counter state unreadable, starting from zero", slog.String("error", err.Error()))
	default:
		return nil, fmt.Errorf("loading counter state: %w", err)
	}

	return s, nil
}

// Config returns the configuration
func (s *Store) Config() *Config {
	return s.cfg
}

// Get returns a configuration value, or nil if it is not set
func (s *Store) Get(key string) any {
	return s.cfg.Get(key)
}

// GetString returns a configuration value as a string
func (s *Store) GetString(key string) string {
	return s.cfg.GetString(key)
}

// NextTransactionID increments the transaction counter, persists it and
// returns the new value
func (s *Store) NextTransactionID(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.counters
	next.TransactionID++
	if err := s.backend.Save(ctx, next); err != nil {
		return 0, fmt.Errorf("saving transaction id: %w", err)
	}
	s.counters = next

	return next.TransactionID, nil
}

// CurrentTransactionID returns the last transaction id handed out, or 0
func (s *Store) CurrentTransactionID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters.TransactionID
}

// NextSubmissionID increments the submission counter, persists it and
// returns the formatted id ("S00001")
func (s *Store) NextSubmissionID(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.counters
	next.SubmissionID++
	if len(strconv.Itoa(next.SubmissionID)) > s.submissionIDWidth {
		return "", fmt.Errorf("%w: %d does not fit in %d digits",
			ErrSubmissionIDOverflow, next.SubmissionID, s.submissionIDWidth)
	}
	if err := s.backend.Save(ctx, next); err != nil {
		return "", fmt.Errorf("saving submission id: %w", err)
	}
	s.counters = next

	return FormatSubmissionID(next.SubmissionID, s.submissionIDWidth), nil
}

// CurrentSubmissionID returns the last submission counter value, or 0
func (s *Store) CurrentSubmissionID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters.SubmissionID
}

// FormatSubmissionID renders n as "S" followed by n zero-padded to width digits
func FormatSubmissionID(n, width int) string {
	return fmt.Sprintf("S%0*d", width, n)
}
