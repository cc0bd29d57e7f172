package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexLin625/cyber-tarot/internal/adapters/catalog"
	httpadapter "github.com/AlexLin625/cyber-tarot/internal/adapters/http"
	"github.com/AlexLin625/cyber-tarot/internal/app"
	"github.com/AlexLin625/cyber-tarot/internal/ports"
)

// scriptedChat answers call n with responses[n-1].
type scriptedChat struct {
	mu        sync.Mutex
	calls     int
	responses []string
}

func (s *scriptedChat) Complete(_ context.Context, _ []ports.Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls >= len(s.responses) {
		return "", fmt.Errorf("unexpected call %d", s.calls+1)
	}
	s.calls++
	return s.responses[s.calls-1], nil
}

type zeroRNG struct{}

func (zeroRNG) Intn(int) int { return 0 }

func newServer(t *testing.T, chat ports.ChatClient) *echo.Echo {
	t.Helper()

	svc := app.NewReadingService(catalog.NewEmbeddedStore(), chat, zeroRNG{}, slog.Default())

	e := echo.New()
	e.Use(httpadapter.RequestIDMiddleware())
	httpadapter.NewHandler(svc).Register(e)
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestHandler_ReadingLifecycle(t *testing.T) {
	chat := &scriptedChat{responses: []string{"S", "D0", "D1", "D2"}}
	e := newServer(t, chat)

	rec, body := doJSON(t, e, http.MethodPost, "/v1/readings", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "awaiting_question", body["phase"])

	base := "/v1/readings/" + id

	// Empty question: silently rejected, phase unchanged.
	rec, body = doJSON(t, e, http.MethodPost, base+"/question", `{"question":""}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "awaiting_question", body["phase"])

	rec, body = doJSON(t, e, http.MethodPost, base+"/question", `{"question":"我的职业"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cards_revealed", body["phase"])
	assert.Equal(t, "我的职业", body["question"])
	cards, _ := body["cards"].([]any)
	require.Len(t, cards, 3)

	for i := range 3 {
		rec, body = doJSON(t, e, http.MethodPost, base+"/flip", fmt.Sprintf(`{"position":%d}`, i))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	// The stubbed cycle may finish before the third flip's response is built.
	assert.Contains(t, []any{"generating", "complete"}, body["phase"])

	require.Eventually(t, func() bool {
		req := httptest.NewRequest(http.MethodGet, base, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		var v map[string]any
		if json.Unmarshal(rec.Body.Bytes(), &v) != nil {
			return false
		}
		body = v
		return v["phase"] == "complete"
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, "S\n\nD0\n\nD1\n\nD2", body["answer"])
}

func TestHandler_FlipValidation(t *testing.T) {
	e := newServer(t, &scriptedChat{})

	_, body := doJSON(t, e, http.MethodPost, "/v1/readings", "")
	id, _ := body["id"].(string)
	base := "/v1/readings/" + id

	_, _ = doJSON(t, e, http.MethodPost, base+"/question", `{"question":"问题"}`)

	rec, _ := doJSON(t, e, http.MethodPost, base+"/flip", `{"position":99}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_UnknownSession(t *testing.T) {
	e := newServer(t, &scriptedChat{})

	rec, _ := doJSON(t, e, http.MethodGet, "/v1/readings/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_QuestionTooLong(t *testing.T) {
	e := newServer(t, &scriptedChat{})

	_, body := doJSON(t, e, http.MethodPost, "/v1/readings", "")
	id, _ := body["id"].(string)

	long := strings.Repeat("问", 501)
	rec, _ := doJSON(t, e, http.MethodPost, "/v1/readings/"+id+"/question",
		fmt.Sprintf(`{"question":%q}`, long))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_CardReference(t *testing.T) {
	e := newServer(t, &scriptedChat{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/cards", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var cards []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cards))
	assert.Len(t, cards, 22)

	rec, body := doJSON(t, e, http.MethodGet, "/v1/cards/fool", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "愚者", body["name"])

	rec, _ = doJSON(t, e, http.MethodGet, "/v1/cards/no_such_card", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Healthz(t *testing.T) {
	e := newServer(t, &scriptedChat{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
