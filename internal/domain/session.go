package domain

// Phase is the stage a reading session is in.
type Phase string

const (
	// PhaseAwaitingQuestion is the initial phase: the querent has not yet
	// committed a question, so no cards are on the table.
	PhaseAwaitingQuestion Phase = "awaiting_question"
	// PhaseCardsRevealed means the spread is dealt face-down and the querent
	// is flipping cards one by one.
	PhaseCardsRevealed Phase = "cards_revealed"
	// PhaseGenerating means all cards are face-up and the interpretation is
	// being produced.
	PhaseGenerating Phase = "generating"
	// PhaseComplete is terminal: the full interpretation has been written.
	PhaseComplete Phase = "complete"
)

// ReadingSession is the state machine for one reading: question entry, card
// flips, then interpretation. One session covers exactly one spread; a new
// reading means a new session. The type is not goroutine-safe; callers
// serialize access.
type ReadingSession struct {
	ID           string
	Phase        Phase
	Question     string
	Cards        []DrawnCard
	Flipped      []bool
	FlippedCount int
	Answer       string

	// GenError holds the last interpretation failure, empty when none.
	// The phase stays PhaseGenerating on failure; see RetryableGeneration.
	GenError string
}

func NewReadingSession(id string) *ReadingSession {
	return &ReadingSession{
		ID:    id,
		Phase: PhaseAwaitingQuestion,
	}
}

// SubmitQuestion freezes the question and deals the spread. An empty question
// or a session past PhaseAwaitingQuestion leaves the session untouched; both
// are querent-input rejections, not faults. The draw runs at most once per
// session: if a spread already exists it is kept as-is.
func (s *ReadingSession) SubmitQuestion(question string, catalog Catalog, rng RNG) error {
	if s.Phase != PhaseAwaitingQuestion || question == "" {
		return nil
	}

	if len(s.Cards) == 0 {
		cards, err := DrawCards(catalog, rng)
		if err != nil {
			return err
		}
		s.Cards = cards
		s.Flipped = make([]bool, SpreadSize)
	}

	s.Question = question
	s.Phase = PhaseCardsRevealed
	return nil
}

// FlipCard reveals the card in slot i (0-based). Flipping an already-flipped
// slot, or flipping outside PhaseCardsRevealed, is a no-op. The returned bool
// reports that this flip revealed the last card and the session entered
// PhaseGenerating; it is true for exactly one flip in a session's lifetime,
// so the caller can use it as the interpretation trigger.
func (s *ReadingSession) FlipCard(i int) (bool, error) {
	if i < 0 || i >= SpreadSize {
		return false, ErrInvalidPosition
	}
	if s.Phase != PhaseCardsRevealed || s.Flipped[i] {
		return false, nil
	}

	s.Flipped[i] = true
	s.FlippedCount++

	if s.FlippedCount == SpreadSize {
		s.Phase = PhaseGenerating
		return true, nil
	}
	return false, nil
}

// ResetAnswer clears the accumulated interpretation. Called once at the start
// of each generation cycle, right before the summary text lands.
func (s *ReadingSession) ResetAnswer() {
	s.Answer = ""
	s.GenError = ""
}

// AppendAnswer adds a chunk to the interpretation text.
func (s *ReadingSession) AppendAnswer(chunk string) {
	s.Answer += chunk
}

// FinishGeneration marks the interpretation as complete. A no-op unless the
// session is generating.
func (s *ReadingSession) FinishGeneration() {
	if s.Phase == PhaseGenerating {
		s.Phase = PhaseComplete
	}
}

// FailGeneration records an interpretation failure. The phase deliberately
// stays PhaseGenerating: the session is stalled, not terminal, and a retry
// may run another cycle.
func (s *ReadingSession) FailGeneration(msg string) {
	if s.Phase == PhaseGenerating {
		s.GenError = msg
	}
}

// RetryableGeneration reports whether a failed generation cycle may be rerun.
func (s *ReadingSession) RetryableGeneration() bool {
	return s.Phase == PhaseGenerating && s.GenError != ""
}
