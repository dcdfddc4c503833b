package modelscmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/chatctl/pkg/chat"
)

const modelsLongDesc string = `List the model identifiers chatctl accepts.

The identifier set is closed: --model values outside this list are
rejected before any request is sent.`

const modelsShortDesc string = "List supported model identifiers"

func NewModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: modelsShortDesc,
		Long:  modelsLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, m := range chat.KnownModels() {
				if m == chat.DefaultModel() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s (default)\n", m)
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
			return nil
		},
	}
}
