package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"github.com/ShawnKBeck/GraceAI-Frontend/internal/analysis/tone"
	"github.com/ShawnKBeck/GraceAI-Frontend/internal/config"
	"github.com/ShawnKBeck/GraceAI-Frontend/internal/model/chat"
	"github.com/ShawnKBeck/GraceAI-Frontend/internal/model/persona"
	"github.com/ShawnKBeck/GraceAI-Frontend/internal/service/reply"
)

var (
	ErrMessageRequired = errors.New("message is required")
	ErrPersonaNotFound = errors.New("persona not found")
	ErrEmptyReply      = errors.New("model returned an empty reply")
)

// Service generates Grace's replies with an eino prompt chain.
type Service struct {
	personas     persona.Store
	personaID    string
	historyLimit int
	prompts      *PersonaPromptManager
	chain        compose.Runnable[map[string]any, *schema.Message]
	logger       zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithPersona selects the persona replies are generated for.
func WithPersona(id string) Option {
	return func(s *Service) {
		if id != "" {
			s.personaID = id
		}
	}
}

// WithHistoryLimit keeps only the last n history entries in the prompt. Zero keeps all.
func WithHistoryLimit(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.historyLimit = n
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a Service backed by the Ark chat model described by cfg.
func NewService(ctx context.Context, personas persona.Store, cfg config.AIConfig, opts ...Option) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	opts = append([]Option{WithHistoryLimit(cfg.HistoryLimit)}, opts...)
	return NewServiceWithModel(ctx, personas, chatModel, opts...)
}

// NewServiceWithModel creates a Service around an existing chat model.
func NewServiceWithModel(ctx context.Context, personas persona.Store, chatModel model.ChatModel, opts ...Option) (*Service, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	s := &Service{
		personas:  personas,
		personaID: persona.GraceID,
		prompts:   NewPersonaPromptManager(),
		chain:     runnable,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GenerateResponse produces a reply to message given the pair-encoded history.
// The returned text carries real line breaks.
func (s *Service) GenerateResponse(ctx context.Context, message string, history []chat.HistoryPair) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrMessageRequired
	}

	p, ok := s.personas.FindByID(s.personaID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrPersonaNotFound, s.personaID)
	}

	guidance := tone.Analyze(message)
	input := map[string]any{
		"system":  s.buildSystemPrompt(&p, guidance),
		"history": s.buildHistoryMessages(history),
		"query":   message,
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}
	if response == nil || strings.TrimSpace(response.Content) == "" {
		return "", ErrEmptyReply
	}

	s.logger.Info().
		Str("persona", p.ID).
		Str("tone", string(guidance.Tone)).
		Int("history", len(history)).
		Int("length", len(response.Content)).
		Msg("generated reply")
	return strings.TrimSpace(response.Content), nil
}

// Reply answers a Reply Service request in-process, encoding line breaks the
// way the HTTP endpoint does.
func (s *Service) Reply(ctx context.Context, req reply.Request) (string, error) {
	text, err := s.GenerateResponse(ctx, req.Message, req.History)
	if err != nil {
		return "", fmt.Errorf("%w: %w", reply.ErrUnavailable, err)
	}
	return chat.Escape(text), nil
}

func (s *Service) buildSystemPrompt(p *persona.Persona, guidance tone.Decision) string {
	base := s.prompts.BuildSystemPrompt(p)
	if guidance.Tone == tone.Neutral {
		return base
	}

	var builder strings.Builder
	builder.WriteString(base)
	builder.WriteString("\n\nDetected tone of the user's latest message: ")
	builder.WriteString(string(guidance.Tone))
	builder.WriteString(".\nReply guidance: ")
	builder.WriteString(tone.Style(guidance.Tone))
	return builder.String()
}

// buildHistoryMessages converts [user, reply] pairs into chat messages.
// Pairs with both sides empty carry nothing and are skipped.
func (s *Service) buildHistoryMessages(history []chat.HistoryPair) []*schema.Message {
	if len(history) == 0 {
		return nil
	}

	startIdx := 0
	if s.historyLimit > 0 && len(history) > s.historyLimit {
		startIdx = len(history) - s.historyLimit
	}

	messages := make([]*schema.Message, 0, len(history)-startIdx)
	for _, pair := range history[startIdx:] {
		switch {
		case pair[0] != "":
			messages = append(messages, schema.UserMessage(pair[0]))
		case pair[1] != "":
			messages = append(messages, schema.AssistantMessage(pair[1], nil))
		}
	}
	return messages
}
