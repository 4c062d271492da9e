package main

import (
	"fmt"
	"strings"

	"github.com/dzonerzy/argsnap/internal/descriptor"
	snapio "github.com/dzonerzy/argsnap/io"
	"github.com/dzonerzy/argsnap/snap"
)

// lint builds every descriptor and reports the ones that fail.
func lint(log *snapio.Logger, l *snap.Level) error {
	files, _ := snap.All[string](l, "files")
	failed := 0
	for _, path := range files {
		tree, err := buildDescriptor(path)
		if err != nil {
			log.Error("%v", err)
			failed++
			continue
		}
		commands := 0
		tree.Walk(func(p []string, cmd *snap.CommandNode) {
			commands++
			log.Debug("%s: %d arguments", strings.Join(p, " "), len(tree.Arguments(p[1:]...)))
		})
		log.Success("%s: ok (%d commands)", path, commands)
	}
	if failed > 0 {
		return &lintError{failed: failed, total: len(files)}
	}
	return nil
}

func buildDescriptor(path string, opts ...snap.BuildOption) (*snap.Tree, error) {
	f, err := descriptor.Load(path)
	if err != nil {
		return nil, err
	}
	node, err := f.Node()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	tree, err := snap.Build(node, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tree, nil
}
