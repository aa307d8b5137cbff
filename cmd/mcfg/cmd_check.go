package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/mcfg/grammar"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Load a grammar file and report its rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := grammar.Load(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "start:        %s\n", g.Start())
			fmt.Fprintf(out, "rules:        %d (%d lexical)\n", len(g.Rules()), len(g.Lexical()))
			fmt.Fprintf(out, "nonterminals: %s\n", strings.Join(g.Nonterminals(), " "))
			fmt.Fprintf(out, "terminals:    %s\n", strings.Join(g.Terminals(), " "))
			return nil
		},
	}
}
