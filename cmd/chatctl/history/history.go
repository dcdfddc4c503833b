package historycmder

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/chatctl/pkg/config"
	"github.com/papercomputeco/chatctl/pkg/transcript"
)

const historyLongDesc string = `Show recorded conversations from the local history database.

Each conversation head is listed with its chain of turns, oldest
first. Conversations that share a prefix are stored once and
branch from the shared turns.

Examples:
  chatctl history
  chatctl history --history-db /tmp/history.db`

const historyShortDesc string = "Show recorded conversations"

const previewLen = 72

type historyCommander struct {
	configPath string
	historyDB  string
}

func NewHistoryCmd() *cobra.Command {
	cmder := &historyCommander{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: historyShortDesc,
		Long:  historyLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Path to config file")
	cmd.Flags().StringVar(&cmder.historyDB, "history-db", "", "Path to history database")

	return cmd
}

func (c *historyCommander) run(ctx context.Context, cmd *cobra.Command) error {
	path, err := c.resolvePath()
	if err != nil {
		return err
	}

	store, err := transcript.NewSQLiteStore(path)
	if err != nil {
		return fmt.Errorf("could not open history database %s: %w", path, err)
	}
	defer store.Close()

	leaves, err := store.Leaves(ctx)
	if err != nil {
		return fmt.Errorf("could not list conversation heads: %w", err)
	}

	if len(leaves) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recorded conversations.")
		return nil
	}

	for i, leaf := range leaves {
		chain, err := store.Ancestry(ctx, leaf.Hash)
		if err != nil {
			return fmt.Errorf("could not walk conversation %s: %w", leaf.Hash, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Conversation %s (%d turns)\n", shortHash(leaf.Hash), len(chain))
		// Ancestry is leaf-first; print oldest first.
		for j := len(chain) - 1; j >= 0; j-- {
			entry := chain[j]
			fmt.Fprintf(cmd.OutOrStdout(), "  %-9s %s\n", entry.Record.Role, preview(entry.Record.Content))
		}

		if i < len(leaves)-1 {
			fmt.Fprintln(cmd.OutOrStdout())
		}
	}

	return nil
}

func (c *historyCommander) resolvePath() (string, error) {
	if c.historyDB != "" {
		return c.historyDB, nil
	}

	path := c.configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return "", err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return "", err
	}
	return cfg.ResolveHistoryPath()
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

// preview flattens the content to a single truncated line.
func preview(content string) string {
	s := strings.Join(strings.Fields(content), " ")
	if len(s) > previewLen {
		return s[:previewLen-3] + "..."
	}
	return s
}
