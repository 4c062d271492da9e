package main

import (
	"fmt"
	"strings"

	snapio "github.com/dzonerzy/argsnap/io"
	"github.com/dzonerzy/argsnap/snap"
)

// printUsage renders help for the command the request points at. Hidden
// entries are listed only for --help-hidden; private ones never.
func printUsage(m *snapio.IOManager, stack snap.CommandStack, h *snap.HelpRequest) error {
	node := stack[h.Level].Node
	path := stack[:h.Level+1].String()
	out := m.Out()

	if node.Abstract != "" {
		fmt.Fprintf(out, "%s - %s\n\n", m.Bold(path), node.Abstract)
	}

	usage := []string{"Usage:", path, "[options]"}
	if len(node.Children) > 0 {
		usage = append(usage, "<command>")
	}
	var options []*snap.Argument
	for _, lvl := range stack[:h.Level] {
		for _, a := range lvl.Node.Arguments {
			if a.Shared {
				options = append(options, a)
			}
		}
	}
	for _, a := range node.Arguments {
		if a.Kind != snap.KindPositional {
			options = append(options, a)
			continue
		}
		if !visible(a.Visibility, h.Visibility) {
			continue
		}
		if a.Required {
			usage = append(usage, a.DisplayName())
		} else {
			usage = append(usage, "["+a.DisplayName()+"]")
		}
	}
	fmt.Fprintln(out, strings.Join(usage, " "))

	cmds := snapio.NewTable(m)
	for _, c := range node.Children {
		if c.Hidden && h.Visibility != snap.VisibilityHidden {
			continue
		}
		name := strings.Join(append([]string{c.Name}, c.Aliases...), ", ")
		if c.Name == node.DefaultChild {
			name += " (default)"
		}
		cmds.Row("  "+name, c.Abstract)
	}
	if cmds.Len() > 0 {
		fmt.Fprintln(out, "\nCommands:")
		if err := cmds.Render(); err != nil {
			return err
		}
	}

	opts := snapio.NewTable(m)
	for _, a := range options {
		if !visible(a.Visibility, h.Visibility) {
			continue
		}
		opts.Row("  "+optionLabel(a), a.Help)
	}
	if opts.Len() > 0 {
		fmt.Fprintln(out, "\nOptions:")
		return opts.Render()
	}
	return nil
}

func visible(v, requested snap.Visibility) bool {
	switch v {
	case snap.VisibilityPrivate:
		return false
	case snap.VisibilityHidden:
		return requested == snap.VisibilityHidden
	}
	return true
}

// optionLabel lists every spelling, the value placeholder after the last.
func optionLabel(a *snap.Argument) string {
	label := a.DisplayName()
	if len(a.Names) < 2 {
		return label
	}
	rest := make([]string, 0, len(a.Names)-1)
	for _, n := range a.Names[1:] {
		rest = append(rest, n.String())
	}
	return strings.Join(rest, ", ") + ", " + label
}
