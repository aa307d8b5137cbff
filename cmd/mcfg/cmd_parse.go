package main

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/mcfg/config"
	"github.com/dhamidi/mcfg/format"
	"github.com/dhamidi/mcfg/grammar"
	"github.com/dhamidi/mcfg/grammars"
	"github.com/dhamidi/mcfg/parse"
)

var errNoParse = errors.New("no parse")

func newParseCmd() *cobra.Command {
	var showStats bool

	cmd := &cobra.Command{
		Use:   "parse <word>...",
		Short: "Parse a sentence and print every derivation",
		Long: `Parse a sentence and print every derivation.

Words may be given as separate arguments or as one quoted argument. Without
--grammar the bundled English grammar is used.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			g, err := loadGrammar(cfg.Grammar)
			if err != nil {
				return err
			}

			match, err := parse.ParseLexicalMatch(cfg.Lexical)
			if err != nil {
				return err
			}
			opts := []parse.Option{
				parse.WithLexicalMatch(match),
				parse.WithMaxChart(cfg.MaxChart),
			}
			if cfg.Start != "" {
				opts = append(opts, parse.WithStart(cfg.Start))
			}

			tokens := strings.Fields(strings.Join(args, " "))
			p := parse.NewParser(g, opts...)
			roots, err := p.Parse(tokens)
			if err != nil {
				return err
			}

			if showStats {
				s := p.Stats()
				fmt.Fprintf(cmd.ErrOrStderr(), "chart=%d pops=%d attempts=%d failures=%d derivations=%d\n",
					s.ChartSize, s.Pops, s.Attempts, s.Failures, s.Derivations)
			}

			if len(roots) == 0 {
				return errors.Wrapf(errNoParse, "%q is not derivable from %s", strings.Join(tokens, " "), p.Start())
			}

			var trees []*parse.Tree
			for _, root := range roots {
				trees = append(trees, parse.BuildTrees(root, p.Forest())...)
			}

			enc, err := format.New(cfg.Format, cmd.OutOrStdout(), tokens)
			if err != nil {
				return err
			}
			return enc.Encode(trees)
		},
	}

	cmd.Flags().StringP("grammar", "g", "", "grammar file (.mcfg, .yaml, .toml); default is the bundled English grammar")
	cmd.Flags().String("start", "", "start symbol (overrides the grammar)")
	cmd.Flags().String("lexical", "exact", "lexical match mode: exact, fold or any")
	cmd.Flags().Int("max-chart", 0, "abort when the chart holds more entries (0 = unbounded)")
	cmd.Flags().StringP("format", "f", "tree", "output format (tree, bracket, json)")
	cmd.Flags().BoolVar(&showStats, "stats", false, "print chart statistics to stderr")

	return cmd
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	v, err := config.New(path)
	if err != nil {
		return nil, err
	}
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return nil, errors.Wrap(err, "bind flags")
	}
	cfg, err := config.Unmarshal(v)
	if err != nil {
		return nil, err
	}
	commonlog.Configure(cfg.Verbosity, nil)
	return cfg, nil
}

// loadGrammar reads path, or the bundled English grammar when path is empty.
func loadGrammar(path string) (*grammar.Grammar, error) {
	if path == "" {
		return grammars.Open("english")
	}
	return grammar.Load(path)
}
