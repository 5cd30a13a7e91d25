package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/shortcuts/internal/agent"
	"github.com/Iron-Ham/shortcuts/internal/cloud"
	"github.com/Iron-Ham/shortcuts/internal/config"
	"github.com/Iron-Ham/shortcuts/internal/errors"
	"github.com/Iron-Ham/shortcuts/internal/logging"
	"github.com/Iron-Ham/shortcuts/internal/payload"
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Add shortcuts with an LLM",
	Long: `Turn a raw command into a categorized shortcut with an LLM, confirm it
on the terminal and save it to the store.

The provider, model and keys come from the agent.* settings; OPENAI_API_KEY
and GEMINI_API_KEY are read from the environment or a .env file. When the
cloud bin is configured the store is pulled first and pushed after a save.`,
}

var agentWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Process the command file every time it is saved",
	Long: `Watch the command file (agent.command_file) and process its content
every time it is saved. The file is emptied after each run. Deleting the
file or pressing Ctrl+C stops the watch.`,
	Args: cobra.NoArgs,
	RunE: runAgentWatch,
}

var agentProcessCmd = &cobra.Command{
	Use:   "process",
	Short: "Process the command file once and empty it",
	Args:  cobra.NoArgs,
	RunE:  runAgentProcess,
}

var agentManualCmd = &cobra.Command{
	Use:   "manual",
	Short: "Type a command and process it",
	Args:  cobra.NoArgs,
	RunE:  runAgentManual,
}

var agentTranscript string

func init() {
	rootCmd.AddCommand(agentCmd)
	agentCmd.PersistentFlags().StringVar(&agentTranscript, "transcript", "", "Append each conversation with the model to this file")
	agentCmd.AddCommand(agentWatchCmd)
	agentCmd.AddCommand(agentProcessCmd)
	agentCmd.AddCommand(agentManualCmd)
}

func runAgentWatch(cmd *cobra.Command, args []string) error {
	return withProcessor(cmd, func(ctx context.Context, p *agent.Processor, cfg *config.Config) error {
		return p.Watch(ctx, cfg.CommandFilePath())
	})
}

func runAgentProcess(cmd *cobra.Command, args []string) error {
	return withProcessor(cmd, func(ctx context.Context, p *agent.Processor, cfg *config.Config) error {
		_, err := p.ProcessFile(ctx, cfg.CommandFilePath())
		return userResult(err)
	})
}

func runAgentManual(cmd *cobra.Command, args []string) error {
	return withProcessor(cmd, func(ctx context.Context, p *agent.Processor, cfg *config.Config) error {
		_, err := p.Manual(ctx)
		return userResult(err)
	})
}

// userResult treats a declined proposal as a normal outcome.
func userResult(err error) error {
	if errors.Is(err, errors.ErrAborted) {
		return nil
	}
	return err
}

// withProcessor wires the LLM client, terminal prompter, cloud syncer and
// payload formatter into a processor, pulls the store when configured, and
// runs fn until it returns or the process is interrupted.
func withProcessor(cmd *cobra.Command, fn func(context.Context, *agent.Processor, *config.Config) error) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []agent.Option
	if agentTranscript != "" {
		f, err := os.OpenFile(agentTranscript, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("failed to open transcript: %w", err)
		}
		defer func() { _ = f.Close() }()
		opts = append(opts, agent.WithTranscript(f))
	}

	p, err := newProcessor(ctx, cmd, cfg, logger, opts...)
	if err != nil {
		return err
	}
	p.SyncOnStart(ctx)
	return fn(ctx, p, cfg)
}

func newProcessor(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *logging.Logger, extra ...agent.Option) (*agent.Processor, error) {
	client, err := agent.NewClient(ctx, &cfg.Agent, logger)
	if err != nil {
		return nil, err
	}

	out := cmd.OutOrStdout()
	f, err := payload.NewFormatter(cfg.Agent.Theme, out)
	if err != nil {
		return nil, err
	}
	opts := []agent.Option{
		agent.WithModel(cfg.Agent.Model, cfg.Agent.Temperature),
		agent.WithOutput(out, f),
		agent.WithLogger(logger),
	}

	if pr, err := agent.NewTerminalPrompter(); err == nil {
		opts = append(opts, agent.WithPrompter(pr))
	} else {
		logger.Warn("no terminal for confirmations; proposals will be declined", "error", err)
	}

	if cfg.Cloud.Configured() {
		syncer, err := cloud.NewFromConfig(&cfg.Cloud, logger)
		if err != nil {
			return nil, err
		}
		opts = append(opts, agent.WithSyncer(syncer, cfg.Agent.PullBeforeRun, cfg.Agent.PushAfterSave))
	}

	return agent.NewProcessor(cfg.StorePath(), client, append(opts, extra...)...)
}
