// Package grammars bundles sample grammars with the module.
package grammars

import (
	"embed"
	"io/fs"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/dhamidi/mcfg/grammar"
)

//go:embed *.mcfg
var files embed.FS

// Names lists the bundled grammars without extension.
func Names() []string {
	entries, _ := fs.ReadDir(files, ".")
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".mcfg"))
	}
	sort.Strings(names)
	return names
}

// Open parses the bundled grammar called name.
func Open(name string) (*grammar.Grammar, error) {
	f, err := files.Open(name + ".mcfg")
	if err != nil {
		return nil, errors.WithHintf(errors.Wrapf(err, "bundled grammar %q", name),
			"available grammars: %s", strings.Join(Names(), ", "))
	}
	defer f.Close()
	return grammar.ReadText(name+".mcfg", f)
}

// Source returns the text of the bundled grammar called name.
func Source(name string) (string, error) {
	b, err := files.ReadFile(name + ".mcfg")
	if err != nil {
		return "", errors.Wrapf(err, "bundled grammar %q", name)
	}
	return string(b), nil
}

// English returns the bundled English fragment with wh-movement.
func English() *grammar.Grammar {
	g, err := Open("english")
	if err != nil {
		panic(err)
	}
	return g
}
