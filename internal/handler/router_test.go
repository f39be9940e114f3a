package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShawnKBeck/GraceAI-Frontend/internal/model/chat"
	"github.com/ShawnKBeck/GraceAI-Frontend/internal/model/persona"
	"github.com/ShawnKBeck/GraceAI-Frontend/internal/service/reply"
)

type echoGenerator struct{}

func (echoGenerator) GenerateResponse(_ context.Context, message string, _ []chat.HistoryPair) (string, error) {
	return "You said: " + message, nil
}

func newTestRouter(gen echoGenerator, withAI bool) http.Handler {
	deps := Dependencies{
		Personas: persona.NewMemoryStore(persona.Seed()),
		Logger:   zerolog.Nop(),
	}
	if withAI {
		deps.Generator = gen
	}
	return NewRouter(deps)
}

func TestRouterHealthz(t *testing.T) {
	resp := httptest.NewRecorder()
	newTestRouter(echoGenerator{}, false).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"ok","ai":false}`, resp.Body.String())
}

func TestRouterServesChatUnderAPI(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(echoGenerator{}, true))
	defer srv.Close()

	text, err := reply.NewClient(srv.URL+"/api/chat").Reply(context.Background(), reply.Request{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "You said: hi", text)
}

func TestRouterChatUnavailableWithoutAI(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hi"}`))
	resp := httptest.NewRecorder()
	newTestRouter(echoGenerator{}, false).ServeHTTP(resp, req)

	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestRouterCORSPreflight(t *testing.T) {
	resp := httptest.NewRecorder()
	newTestRouter(echoGenerator{}, true).ServeHTTP(resp, httptest.NewRequest(http.MethodOptions, "/api/chat", nil))

	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
}
