package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShawnKBeck/GraceAI-Frontend/internal/service/reply"
)

// clearClientEnv keeps the developer's environment out of config.Load.
func clearClientEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GRACE_ENDPOINT", "GRACE_TIMEOUT"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAskPrintsReplyLines(t *testing.T) {
	clearClientEnv(t)

	var got reply.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"response":"Take a deep breath.\\nYou are not alone."}`))
	}))
	defer srv.Close()

	out, err := runCommand(t, "ask", "--endpoint", srv.URL, "I", "feel", "anxious")
	require.NoError(t, err)

	assert.Equal(t, "Take a deep breath.\nYou are not alone.\n", out)
	assert.Equal(t, "I feel anxious", got.Message)
	assert.Len(t, got.History, 2)
}

func TestAskPrintsFallbackWhenServiceFails(t *testing.T) {
	clearClientEnv(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	out, err := runCommand(t, "ask", "--endpoint", srv.URL, "test")
	require.NoError(t, err)
	assert.Equal(t, "Sorry, I couldn't process that message. Please try again.\n", out)
}

func TestAskRejectsBlankMessage(t *testing.T) {
	clearClientEnv(t)

	_, err := runCommand(t, "ask", "--endpoint", "http://127.0.0.1:1", "   ")
	assert.Error(t, err)
}

func TestAskRequiresArgument(t *testing.T) {
	_, err := runCommand(t, "ask")
	assert.Error(t, err)
}

func TestLocalWithoutCredentialsFails(t *testing.T) {
	clearClientEnv(t)
	for _, key := range []string{"ARK_MODEL", "ARK_API_KEY", "ARK_ACCESS_KEY", "ARK_SECRET_KEY"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	_, err := runCommand(t, "ask", "--local", "hello")
	assert.Error(t, err)
}
