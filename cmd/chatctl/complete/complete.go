package completecmder

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/chatctl/client"
	"github.com/papercomputeco/chatctl/pkg/chat"
	"github.com/papercomputeco/chatctl/pkg/config"
	"github.com/papercomputeco/chatctl/pkg/logger"
	"github.com/papercomputeco/chatctl/pkg/transcript"
)

const completeLongDesc string = `Send a prompt to the chat completions API and print the reply.

The prompt is taken from the arguments, or from stdin when no
arguments are given. Exchanges are appended to the local history
database unless --no-history is set.

Examples:
  chatctl complete "What is a monad?"
  echo "Summarize this" | chatctl complete --model gpt-4-1106-preview
  chatctl complete --system "Answer in French" "Hello"`

const completeShortDesc string = "Send a prompt and print the completion"

type completeCommander struct {
	configPath  string
	system      string
	model       string
	temperature float64
	maxTokens   int
	jsonOutput  bool
	noHistory   bool
	historyDB   string
}

func NewCompleteCmd() *cobra.Command {
	cmder := &completeCommander{}

	cmd := &cobra.Command{
		Use:   "complete [prompt...]",
		Short: completeShortDesc,
		Long:  completeLongDesc,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd, args)
		},
	}

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Path to config file")
	cmd.Flags().StringVarP(&cmder.system, "system", "s", "", "System message prepended to the conversation")
	cmd.Flags().StringVarP(&cmder.model, "model", "m", "", "Model identifier")
	cmd.Flags().Float64VarP(&cmder.temperature, "temperature", "t", 0, "Sampling temperature")
	cmd.Flags().IntVar(&cmder.maxTokens, "max-tokens", 0, "Maximum tokens to generate")
	cmd.Flags().BoolVar(&cmder.jsonOutput, "json", false, "Request JSON output from the model")
	cmd.Flags().BoolVar(&cmder.noHistory, "no-history", false, "Do not record the exchange")
	cmd.Flags().StringVar(&cmder.historyDB, "history-db", "", "Path to history database")

	return cmd
}

func (c *completeCommander) run(ctx context.Context, cmd *cobra.Command, args []string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	prompt, err := readPrompt(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	req, err := c.buildRequest(cmd, cfg, prompt)
	if err != nil {
		return err
	}

	log := logger.NewLogger(cfg.Debug)
	defer log.Sync()

	cl := client.New(client.Config{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
	}, log)

	resp, err := cl.ChatCompletion(ctx, req)
	if err != nil {
		return fmt.Errorf("completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return fmt.Errorf("response %s contained no choices", resp.ID)
	}

	c.printReply(cmd, resp.Choices[0].Message.Content)

	if !c.noHistory {
		if err := c.record(ctx, cfg, req, resp); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not record exchange: %v\n", err)
		}
	}

	return nil
}

func (c *completeCommander) loadConfig() (*config.Config, error) {
	path := c.configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

// readPrompt joins args into the prompt, falling back to stdin when
// no args were given.
func readPrompt(in io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("could not read prompt from stdin: %w", err)
	}

	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", fmt.Errorf("no prompt given: pass it as arguments or on stdin")
	}
	return prompt, nil
}

func (c *completeCommander) buildRequest(cmd *cobra.Command, cfg *config.Config, prompt string) (*chat.ChatCompletionRequest, error) {
	var msgs []chat.Message
	if c.system != "" {
		msgs = append(msgs, chat.NewSystemMessage(c.system, ""))
	}
	msgs = append(msgs, chat.NewUserMessage(prompt, ""))

	builder := chat.NewRequestBuilder().Messages(msgs...)

	model := c.model
	if model == "" {
		model = cfg.Model
	}
	if model != "" {
		id := chat.ChatModel(model)
		if !chat.IsKnownModel(id) {
			return nil, fmt.Errorf("unknown model %q, see 'chatctl models'", model)
		}
		builder.Model(id)
	}

	if cmd.Flags().Changed("temperature") {
		builder.Temperature(c.temperature)
	}
	if c.maxTokens > 0 {
		builder.MaxTokens(c.maxTokens)
	}
	if c.jsonOutput {
		builder.ResponseFormat(chat.ResponseFormatJSON)
	}

	return builder.Build()
}

// printReply renders markdown when stdout is a terminal, and prints the
// raw text otherwise so piped output stays clean.
func (c *completeCommander) printReply(cmd *cobra.Command, content string) {
	out := cmd.OutOrStdout()

	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		rendered, err := glamour.Render(content, "dark")
		if err == nil {
			fmt.Fprint(out, rendered)
			return
		}
	}

	fmt.Fprintln(out, content)
}

func (c *completeCommander) record(ctx context.Context, cfg *config.Config, req *chat.ChatCompletionRequest, resp *chat.ChatCompletionResponse) error {
	path := c.historyDB
	if path == "" {
		var err error
		path, err = cfg.ResolveHistoryPath()
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("could not create history directory: %w", err)
	}

	store, err := transcript.NewSQLiteStore(path)
	if err != nil {
		return fmt.Errorf("could not open history database %s: %w", path, err)
	}
	defer store.Close()

	_, err = transcript.AppendExchange(ctx, store, req, resp)
	return err
}
