package app

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/AlexLin625/cyber-tarot/internal/domain"
	"github.com/AlexLin625/cyber-tarot/internal/ports"
)

// ReadingView is the application-level snapshot of a session (no HTTP types).
type ReadingView struct {
	ID              string
	Phase           domain.Phase
	Question        string
	Cards           []domain.DrawnCard
	Flipped         []bool
	FlippedCount    int
	Answer          string
	GenerationError string
}

// ReadingService owns the in-memory session registry and drives each
// session's lifecycle: question entry, the one-time draw, card flips, and the
// interpretation cycle against the relay. Sessions live for the process only.
type ReadingService struct {
	catalog ports.CatalogStore
	chat    ports.ChatClient
	rng     domain.RNG
	logger  *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

// sessionEntry pairs a session with its lock. Flips arrive over HTTP while
// the interpretation goroutine appends to the answer, so every session
// read/write goes through mu. inFlight guards the retry path against
// launching a second cycle while one is still running.
type sessionEntry struct {
	mu       sync.Mutex
	session  *domain.ReadingSession
	inFlight bool
}

func NewReadingService(cs ports.CatalogStore, chat ports.ChatClient, rng domain.RNG, logger *slog.Logger) *ReadingService {
	return &ReadingService{
		catalog:  cs,
		chat:     chat,
		rng:      rng,
		logger:   logger,
		sessions: make(map[string]*sessionEntry),
	}
}

// CreateReading opens a fresh session. The catalog is probed first: nothing
// may start while the reference data is unavailable.
func (s *ReadingService) CreateReading(ctx context.Context) (ReadingView, error) {
	if _, err := s.catalog.GetCatalog(ctx); err != nil {
		return ReadingView{}, fmt.Errorf("load catalog: %w", err)
	}

	entry := &sessionEntry{session: domain.NewReadingSession(uuid.NewString())}

	s.mu.Lock()
	s.sessions[entry.session.ID] = entry
	s.mu.Unlock()

	s.logger.Info("reading session created", "session_id", entry.session.ID)
	return snapshot(entry), nil
}

// GetReading returns the current snapshot of a session.
func (s *ReadingService) GetReading(_ context.Context, id string) (ReadingView, error) {
	entry, err := s.entry(id)
	if err != nil {
		return ReadingView{}, err
	}
	return snapshot(entry), nil
}

// SubmitQuestion commits the querent's question and deals the spread. An
// empty question leaves the session in place; the caller sees the unchanged
// phase in the returned view.
func (s *ReadingService) SubmitQuestion(ctx context.Context, id, question string) (ReadingView, error) {
	entry, err := s.entry(id)
	if err != nil {
		return ReadingView{}, err
	}

	catalog, err := s.catalog.GetCatalog(ctx)
	if err != nil {
		return ReadingView{}, fmt.Errorf("load catalog: %w", err)
	}

	entry.mu.Lock()
	err = entry.session.SubmitQuestion(question, catalog, s.rng)
	entry.mu.Unlock()
	if err != nil {
		return ReadingView{}, fmt.Errorf("deal spread: %w", err)
	}

	return snapshot(entry), nil
}

// FlipCard reveals the card in slot pos. The flip that reveals the last card
// starts the interpretation cycle in the background; the caller polls
// GetReading to watch the answer grow.
func (s *ReadingService) FlipCard(_ context.Context, id string, pos int) (ReadingView, error) {
	entry, err := s.entry(id)
	if err != nil {
		return ReadingView{}, err
	}

	entry.mu.Lock()
	start, err := entry.session.FlipCard(pos)
	if start {
		entry.inFlight = true
	}
	entry.mu.Unlock()
	if err != nil {
		return ReadingView{}, err
	}

	if start {
		go s.generate(entry)
	}
	return snapshot(entry), nil
}

// RetryInterpretation reruns the interpretation cycle of a stalled session.
// It only acts when a previous cycle failed and none is running; anything
// else is a no-op returning the current view.
func (s *ReadingService) RetryInterpretation(_ context.Context, id string) (ReadingView, error) {
	entry, err := s.entry(id)
	if err != nil {
		return ReadingView{}, err
	}

	entry.mu.Lock()
	retry := entry.session.RetryableGeneration() && !entry.inFlight
	if retry {
		entry.inFlight = true
	}
	entry.mu.Unlock()

	if retry {
		s.logger.Info("retrying interpretation", "session_id", id)
		go s.generate(entry)
	}
	return snapshot(entry), nil
}

// ListCards exposes the catalog for the reference view.
func (s *ReadingService) ListCards(ctx context.Context) ([]domain.Card, error) {
	catalog, err := s.catalog.GetCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return catalog.Cards, nil
}

// GetCard looks up a single catalog entry by ID.
func (s *ReadingService) GetCard(ctx context.Context, id string) (domain.Card, error) {
	catalog, err := s.catalog.GetCatalog(ctx)
	if err != nil {
		return domain.Card{}, fmt.Errorf("load catalog: %w", err)
	}
	card, ok := catalog.Find(id)
	if !ok {
		return domain.Card{}, domain.ErrCardNotFound
	}
	return card, nil
}

// generate runs one interpretation cycle: a summary call, then one detail
// call per card in spread order. The calls are strictly sequential because
// each chunk is appended in place to build a single document in card order
// 1-2-3; a failure at any call stops the sequence, keeps whatever text has
// already landed, and leaves the session in PhaseGenerating with the error
// recorded for a retry.
func (s *ReadingService) generate(entry *sessionEntry) {
	ctx := context.Background()

	entry.mu.Lock()
	cards := slices.Clone(entry.session.Cards)
	question := entry.session.Question
	id := entry.session.ID
	entry.mu.Unlock()

	summary, err := s.chat.Complete(ctx, SummaryMessages(cards, question))
	if err != nil {
		s.failGeneration(entry, id, "summary", err)
		return
	}

	entry.mu.Lock()
	entry.session.ResetAnswer()
	entry.session.AppendAnswer(summary)
	entry.mu.Unlock()

	for i := range cards {
		detail, err := s.chat.Complete(ctx, DetailMessages(cards, i, summary, question))
		if err != nil {
			s.failGeneration(entry, id, fmt.Sprintf("detail %d", i+1), err)
			return
		}
		entry.mu.Lock()
		entry.session.AppendAnswer("\n\n" + detail)
		entry.mu.Unlock()
	}

	entry.mu.Lock()
	entry.session.FinishGeneration()
	entry.inFlight = false
	entry.mu.Unlock()

	s.logger.Info("interpretation complete", "session_id", id)
}

func (s *ReadingService) failGeneration(entry *sessionEntry, id, call string, err error) {
	msg := fmt.Sprintf("%s call: %v", call, err)

	entry.mu.Lock()
	entry.session.FailGeneration(msg)
	entry.inFlight = false
	entry.mu.Unlock()

	s.logger.Error("interpretation failed", "session_id", id, "call", call, "error", err)
}

func (s *ReadingService) entry(id string) (*sessionEntry, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return entry, nil
}

func snapshot(entry *sessionEntry) ReadingView {
	entry.mu.Lock()
	defer entry.mu.Unlock()

	sess := entry.session
	return ReadingView{
		ID:              sess.ID,
		Phase:           sess.Phase,
		Question:        sess.Question,
		Cards:           slices.Clone(sess.Cards),
		Flipped:         slices.Clone(sess.Flipped),
		FlippedCount:    sess.FlippedCount,
		Answer:          sess.Answer,
		GenerationError: sess.GenError,
	}
}
