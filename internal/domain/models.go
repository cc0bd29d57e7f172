package domain

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// Orientation represents the orientation of a drawn tarot card.
type Orientation string

const (
	Upright  Orientation = "upright"
	Reversed Orientation = "reversed"
)

// Meaning is one orientation-specific reading of a card.
type Meaning struct {
	Keywords []string `json:"keywords"`
	Full     string   `json:"full"`
}

// Card is a single catalog entry. Immutable after the catalog loads.
type Card struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Upright  Meaning `json:"upright"`
	Reversed Meaning `json:"reversed"`
}

// MeaningFor returns the side of the card matching the given orientation.
func (c Card) MeaningFor(o Orientation) Meaning {
	if o == Reversed {
		return c.Reversed
	}
	return c.Upright
}

// Catalog is the full reference deck, ordered by card ID so that a seeded
// RNG produces reproducible draws.
type Catalog struct {
	Cards []Card
}

// Find returns the card with the given ID, if present.
func (c Catalog) Find(id string) (Card, bool) {
	for _, card := range c.Cards {
		if card.ID == id {
			return card, true
		}
	}
	return Card{}, false
}

// DrawnCard is a card dealt into one of the spread slots. Fixed once the
// session's spread is populated.
type DrawnCard struct {
	Card
	Orientation Orientation `json:"orientation"`
}
