package authcmder

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/chatctl/pkg/config"
)

const authLongDesc string = `Store an API key in the chatctl config file.

The key is read from the terminal without echo, or from stdin when
not attached to a terminal. Other config fields are preserved.

Examples:
  chatctl auth
  echo "$OPENAI_API_KEY" | chatctl auth --config /tmp/config.toml`

const authShortDesc string = "Store an API key"

type authCommander struct {
	configPath string
}

func NewAuthCmd() *cobra.Command {
	cmder := &authCommander{}

	cmd := &cobra.Command{
		Use:   "auth",
		Short: authShortDesc,
		Long:  authLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Path to config file")

	return cmd
}

func (c *authCommander) run(cmd *cobra.Command) error {
	path := c.configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}

	key, err := readKey(cmd)
	if err != nil {
		return err
	}
	if key == "" {
		return fmt.Errorf("no API key given")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg.APIKey = key

	if err := config.Save(path, cfg); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "API key saved to %s\n", path)
	return nil
}

func readKey(cmd *cobra.Command) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.OutOrStdout(), "API key: ")
		key, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", fmt.Errorf("could not read API key: %w", err)
		}
		return strings.TrimSpace(string(key)), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("could not read API key from stdin: %w", err)
	}
	return strings.TrimSpace(line), nil
}
