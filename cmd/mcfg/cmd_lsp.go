package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/mcfg/lsp"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start a language server that reports grammar file diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return lsp.NewServer(version).RunStdio()
		},
	}
}
