package main

import (
	"strconv"

	snapio "github.com/dzonerzy/argsnap/io"
	"github.com/dzonerzy/argsnap/snap"
)

// tokens prints how the tokenizer classifies args.
func tokens(m *snapio.IOManager, l *snap.Level) error {
	joined, _ := snap.All[rune](l, "joined")
	singleDash, _ := snap.All[string](l, "single-dash")
	args, _ := snap.All[string](l, "args")

	tbl := snapio.NewTable(m, "#", "KIND", "NAME", "VALUE", "RAW")
	for _, tok := range snap.Tokenize(args, snap.StaticLookup{Joined: joined, SingleDash: singleDash}) {
		tbl.Row(strconv.Itoa(tok.Index), kindLabel(tok), tokenName(tok), tokenValue(tok), strconv.Quote(tok.Raw))
	}
	return tbl.Render()
}

func kindLabel(tok snap.Token) string {
	if tok.Escaped {
		return tok.Kind.String() + " (escaped)"
	}
	return tok.Kind.String()
}

func tokenName(tok snap.Token) string {
	switch tok.Kind {
	case snap.TokenLongOption:
		return "--" + tok.Name
	case snap.TokenShortCluster:
		return "-" + string(tok.Chars)
	}
	return ""
}

func tokenValue(tok snap.Token) string {
	if tok.Kind == snap.TokenPositional || tok.HasValue {
		return strconv.Quote(tok.Value)
	}
	return ""
}
