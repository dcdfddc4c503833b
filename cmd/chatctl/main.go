package main

import (
	"os"

	"github.com/spf13/cobra"

	authcmder "github.com/papercomputeco/chatctl/cmd/chatctl/auth"
	completecmder "github.com/papercomputeco/chatctl/cmd/chatctl/complete"
	historycmder "github.com/papercomputeco/chatctl/cmd/chatctl/history"
	modelscmder "github.com/papercomputeco/chatctl/cmd/chatctl/models"
)

func main() {
	root := &cobra.Command{
		Use:          "chatctl",
		Short:        "Chat completions from the command line",
		SilenceUsage: true,
	}

	root.AddCommand(completecmder.NewCompleteCmd())
	root.AddCommand(historycmder.NewHistoryCmd())
	root.AddCommand(modelscmder.NewModelsCmd())
	root.AddCommand(authcmder.NewAuthCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
