package http

import (
	"github.com/AlexLin625/cyber-tarot/internal/app"
	"github.com/AlexLin625/cyber-tarot/internal/domain"
)

// ReadingResponse is the JSON shape of a reading session.
type ReadingResponse struct {
	ID              string              `json:"id"`
	Phase           string              `json:"phase"`
	Question        string              `json:"question"`
	Cards           []DrawnCardResponse `json:"cards"`
	Flipped         []bool              `json:"flipped"`
	FlippedCount    int                 `json:"flipped_count"`
	Answer          string              `json:"answer"`
	GenerationError string              `json:"generation_error,omitempty"`
}

type DrawnCardResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Orientation string `json:"orientation"`
}

// CardResponse is a full catalog entry for the reference views.
type CardResponse struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Upright  SideResponse `json:"upright"`
	Reversed SideResponse `json:"reversed"`
}

type SideResponse struct {
	Keywords []string `json:"keywords"`
	Full     string   `json:"full"`
}

type QuestionRequest struct {
	Question string `json:"question"`
}

type FlipRequest struct {
	Position int `json:"position"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func toReadingResponse(v app.ReadingView) ReadingResponse {
	cards := make([]DrawnCardResponse, len(v.Cards))
	for i, dc := range v.Cards {
		cards[i] = DrawnCardResponse{
			ID:          dc.ID,
			Name:        dc.Name,
			Orientation: string(dc.Orientation),
		}
	}
	return ReadingResponse{
		ID:              v.ID,
		Phase:           string(v.Phase),
		Question:        v.Question,
		Cards:           cards,
		Flipped:         v.Flipped,
		FlippedCount:    v.FlippedCount,
		Answer:          v.Answer,
		GenerationError: v.GenerationError,
	}
}

func toCardResponse(c domain.Card) CardResponse {
	return CardResponse{
		ID:       c.ID,
		Name:     c.Name,
		Upright:  SideResponse{Keywords: c.Upright.Keywords, Full: c.Upright.Full},
		Reversed: SideResponse{Keywords: c.Reversed.Keywords, Full: c.Reversed.Full},
	}
}
