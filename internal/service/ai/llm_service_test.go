package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShawnKBeck/GraceAI-Frontend/internal/analysis/tone"
	"github.com/ShawnKBeck/GraceAI-Frontend/internal/model/chat"
	"github.com/ShawnKBeck/GraceAI-Frontend/internal/model/persona"
	"github.com/ShawnKBeck/GraceAI-Frontend/internal/service/reply"
)

// stubChatModel answers every Generate call with a fixed reply.
type stubChatModel struct {
	reply string
	err   error
	input []*schema.Message
}

func (m *stubChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.input = input
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *stubChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *stubChatModel) BindTools(_ []*schema.ToolInfo) error {
	return nil
}

func newTestService(t *testing.T, stub *stubChatModel, opts ...Option) *Service {
	t.Helper()
	svc, err := NewServiceWithModel(context.Background(), persona.NewMemoryStore(persona.Seed()), stub, opts...)
	require.NoError(t, err)
	return svc
}

func TestGenerateResponseBuildsPrompt(t *testing.T) {
	stub := &stubChatModel{reply: "Take a deep breath."}
	svc := newTestService(t, stub)

	got, err := svc.GenerateResponse(context.Background(), "I feel anxious", []chat.HistoryPair{
		{"Hello", ""},
		{"", "Hi, I'm Grace."},
	})
	require.NoError(t, err)
	assert.Equal(t, "Take a deep breath.", got)

	require.Len(t, stub.input, 4)
	assert.Equal(t, schema.System, stub.input[0].Role)
	assert.Contains(t, stub.input[0].Content, "You are Grace")
	assert.Contains(t, stub.input[0].Content, "anxious")

	assert.Equal(t, schema.User, stub.input[1].Role)
	assert.Equal(t, "Hello", stub.input[1].Content)
	assert.Equal(t, schema.Assistant, stub.input[2].Role)
	assert.Equal(t, "Hi, I'm Grace.", stub.input[2].Content)
	assert.Equal(t, schema.User, stub.input[3].Role)
	assert.Equal(t, "I feel anxious", stub.input[3].Content)
}

func TestGenerateResponseRequiresMessage(t *testing.T) {
	svc := newTestService(t, &stubChatModel{reply: "x"})

	_, err := svc.GenerateResponse(context.Background(), "  ", nil)
	assert.ErrorIs(t, err, ErrMessageRequired)
}

func TestGenerateResponseUnknownPersona(t *testing.T) {
	svc := newTestService(t, &stubChatModel{reply: "x"}, WithPersona("nobody"))

	_, err := svc.GenerateResponse(context.Background(), "hi", nil)
	assert.ErrorIs(t, err, ErrPersonaNotFound)
}

func TestGenerateResponseEmptyReply(t *testing.T) {
	svc := newTestService(t, &stubChatModel{reply: "   "})

	_, err := svc.GenerateResponse(context.Background(), "hi", nil)
	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestReplyEscapesLineBreaksAndWrapsErrors(t *testing.T) {
	svc := newTestService(t, &stubChatModel{reply: "Line1\nLine2"})

	got, err := svc.Reply(context.Background(), reply.Request{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, `Line1\nLine2`, got)

	failing := newTestService(t, &stubChatModel{err: errors.New("quota exceeded")})
	_, err = failing.Reply(context.Background(), reply.Request{Message: "hi"})
	assert.ErrorIs(t, err, reply.ErrUnavailable)
}

func TestBuildHistoryMessagesHonoursLimit(t *testing.T) {
	svc := newTestService(t, &stubChatModel{reply: "x"}, WithHistoryLimit(2))

	messages := svc.buildHistoryMessages([]chat.HistoryPair{
		{"one", ""},
		{"", "two"},
		{"", ""},
		{"four", ""},
	})

	require.Len(t, messages, 1)
	assert.Equal(t, "four", messages[0].Content)
}

func TestBuildSystemPromptNeutralHasNoGuidance(t *testing.T) {
	svc := newTestService(t, &stubChatModel{reply: "x"})
	p := persona.Default()

	prompt := svc.buildSystemPrompt(&p, tone.Decision{Tone: tone.Neutral})
	assert.NotContains(t, prompt, "Reply guidance")
}
