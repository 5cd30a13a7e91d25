package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/shortcuts/internal/cloud"
	"github.com/Iron-Ham/shortcuts/internal/config"
	"github.com/Iron-Ham/shortcuts/internal/payload"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Copy the store to or from the cloud JSON bin",
	Long: `Copy the store to or from the cloud JSON bin.

The bin URL and key come from cloud.bin_url and cloud.master_key, or the
BIN_URL and MASTER_KEY environment variables.`,
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Replace the local store with the cloud record",
	Args:  cobra.NoArgs,
	RunE:  runSyncPull,
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload the local store to the cloud",
	Args:  cobra.NoArgs,
	RunE:  runSyncPush,
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.AddCommand(syncPullCmd)
	syncCmd.AddCommand(syncPushCmd)
}

func runSyncPull(cmd *cobra.Command, args []string) error {
	return withCloud(cmd, func(ctx context.Context, c *cloud.Client, cfg *config.Config, f *payload.Formatter) error {
		path := cfg.StorePath()
		s, err := c.Pull(ctx, path)
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), f.Failure("Cloud pull failed: "+err.Error()))
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), f.Success(fmt.Sprintf(
			"Pulled %d categories (%d entries) into %s", s.Len(), s.EntryCount(), path)))
		return nil
	})
}

func runSyncPush(cmd *cobra.Command, args []string) error {
	return withCloud(cmd, func(ctx context.Context, c *cloud.Client, cfg *config.Config, f *payload.Formatter) error {
		path := cfg.StorePath()
		if err := c.Push(ctx, path); err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), f.Failure("Cloud push failed: "+err.Error()))
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), f.Success("Pushed "+path+" to the cloud"))
		return nil
	})
}

// withCloud builds the cloud client and status formatter for a sync command.
func withCloud(cmd *cobra.Command, fn func(context.Context, *cloud.Client, *config.Config, *payload.Formatter) error) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	client, err := cloud.NewFromConfig(&cfg.Cloud, logger)
	if err != nil {
		return err
	}
	f, err := payload.NewFormatter(cfg.Agent.Theme, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return fn(cmd.Context(), client, cfg, f)
}
