package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ShawnKBeck/GraceAI-Frontend/internal/config"
	"github.com/ShawnKBeck/GraceAI-Frontend/internal/logging"
	"github.com/ShawnKBeck/GraceAI-Frontend/internal/model/persona"
	"github.com/ShawnKBeck/GraceAI-Frontend/internal/service/ai"
	chatservice "github.com/ShawnKBeck/GraceAI-Frontend/internal/service/chat"
	"github.com/ShawnKBeck/GraceAI-Frontend/internal/service/reply"
	"github.com/ShawnKBeck/GraceAI-Frontend/internal/tui"
)

// options holds the flags shared by every subcommand.
type options struct {
	endpoint string
	timeout  time.Duration
	logFile  string
	local    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "grace",
		Short: "Chat with Grace, a Christian therapy assistant",
		Long: `Opens an interactive chat session with Grace in the terminal.

Messages are sent to the Grace reply service together with the conversation
so far. Use --local to answer with an Ark chat model configured through the
ARK_* environment variables instead of the hosted service.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(cmd.Context(), cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.endpoint, "endpoint", "", "reply service URL (default $GRACE_ENDPOINT or the hosted backend)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "reply service timeout (default $GRACE_TIMEOUT or 60s)")
	flags.StringVar(&opts.logFile, "log-file", "", "append JSON logs to this file")
	flags.BoolVar(&opts.local, "local", false, "generate replies in-process with the Ark chat model")

	cmd.AddCommand(newAskCmd(opts))
	return cmd
}

// session is everything a subcommand needs to drive one conversation.
type session struct {
	controller *chatservice.Controller
	logger     zerolog.Logger
	close      func() error
}

func newSession(ctx context.Context, opts *options, controllerOpts ...chatservice.Option) (*session, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if opts.endpoint != "" {
		cfg.Client.Endpoint = opts.endpoint
	}
	if opts.timeout > 0 {
		cfg.Client.Timeout = opts.timeout
	}

	logger, closeLog, err := logging.OpenFile(opts.logFile, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	replier, err := newReplier(ctx, cfg, opts.local, logger)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	controllerOpts = append([]chatservice.Option{chatservice.WithLogger(logger)}, controllerOpts...)
	return &session{
		controller: chatservice.NewController(replier, controllerOpts...),
		logger:     logger,
		close:      closeLog,
	}, nil
}

func newReplier(ctx context.Context, cfg *config.Config, local bool, logger zerolog.Logger) (reply.Replier, error) {
	if !local {
		logger.Info().Str("endpoint", cfg.Client.Endpoint).Dur("timeout", cfg.Client.Timeout).Msg("using remote reply service")
		return reply.NewClient(cfg.Client.Endpoint, reply.WithTimeout(cfg.Client.Timeout)), nil
	}

	service, err := ai.NewService(ctx, persona.NewMemoryStore(persona.Seed()), cfg.AI,
		ai.WithLogger(logger.With().Str("component", "ai").Logger()))
	if err != nil {
		return nil, fmt.Errorf("start local reply service: %w", err)
	}
	logger.Info().Str("model", cfg.AI.Model).Msg("using local reply service")
	return service, nil
}

func runChat(ctx context.Context, cmd *cobra.Command, opts *options) error {
	s, err := newSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.close()

	model := tui.New(ctx, s.controller)
	defer model.Close()

	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run chat: %w", err)
	}
	return nil
}
