package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/AlexLin625/cyber-tarot/internal/app"
	"github.com/AlexLin625/cyber-tarot/internal/domain"
)

type Handler struct {
	svc *app.ReadingService
}

func NewHandler(svc *app.ReadingService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)
	e.GET("/v1/cards", h.ListCards)
	e.GET("/v1/cards/:id", h.GetCard)
	e.POST("/v1/readings", h.CreateReading)
	e.GET("/v1/readings/:id", h.GetReading)
	e.POST("/v1/readings/:id/question", h.SubmitQuestion)
	e.POST("/v1/readings/:id/flip", h.FlipCard)
	e.POST("/v1/readings/:id/interpretation", h.RetryInterpretation)
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) ListCards(c echo.Context) error {
	cards, err := h.svc.ListCards(c.Request().Context())
	if err != nil {
		return mapError(c, err)
	}
	out := make([]CardResponse, len(cards))
	for i, card := range cards {
		out[i] = toCardResponse(card)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) GetCard(c echo.Context) error {
	card, err := h.svc.GetCard(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toCardResponse(card))
}

func (h *Handler) CreateReading(c echo.Context) error {
	view, err := h.svc.CreateReading(c.Request().Context())
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusCreated, toReadingResponse(view))
}

func (h *Handler) GetReading(c echo.Context) error {
	view, err := h.svc.GetReading(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toReadingResponse(view))
}

func (h *Handler) SubmitQuestion(c echo.Context) error {
	var req QuestionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if len(req.Question) > 500 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "question must be at most 500 characters"})
	}

	// An empty question is not an error; the session simply does not advance
	// and the unchanged view is returned.
	view, err := h.svc.SubmitQuestion(c.Request().Context(), c.Param("id"), req.Question)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toReadingResponse(view))
}

func (h *Handler) FlipCard(c echo.Context) error {
	var req FlipRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	view, err := h.svc.FlipCard(c.Request().Context(), c.Param("id"), req.Position)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toReadingResponse(view))
}

func (h *Handler) RetryInterpretation(c echo.Context) error {
	view, err := h.svc.RetryInterpretation(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusAccepted, toReadingResponse(view))
}

func mapError(c echo.Context, err error) error {
	requestID, _ := c.Get("request_id").(string)

	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrCardNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidPosition):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrCatalogUnavailable):
		slog.Error("catalog unavailable", "request_id", requestID, "error", err)
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "card catalog unavailable"})
	default:
		slog.Error("internal error", "request_id", requestID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
