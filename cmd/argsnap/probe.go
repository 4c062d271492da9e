package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	snapio "github.com/dzonerzy/argsnap/io"
	"github.com/dzonerzy/argsnap/middleware"
	"github.com/dzonerzy/argsnap/snap"
)

const defaultHookTimeout = 5 * time.Second

// hookTimeout is one --timeout value. An empty command sets the default.
type hookTimeout struct {
	command string
	d       time.Duration
}

// parseHookTimeout decodes DURATION or COMMAND=DURATION, where COMMAND is the
// space-joined path such as "tool deploy".
func parseHookTimeout(raw string) (any, error) {
	var ht hookTimeout
	value := raw
	if i := strings.LastIndexByte(raw, '='); i >= 0 {
		ht.command, value = strings.TrimSpace(raw[:i]), raw[i+1:]
		if ht.command == "" {
			return nil, errors.New("missing command before =")
		}
	}
	d, err := snap.Duration(value)
	if err != nil {
		return nil, err
	}
	ht.d = d.(time.Duration)
	if ht.d < 0 {
		return nil, errors.New("must not be negative")
	}
	return ht, nil
}

type probeReport struct {
	Path    []string      `json:"path,omitempty"`
	Levels  []levelReport `json:"levels,omitempty"`
	Help    *helpReport   `json:"help,omitempty"`
	Version string        `json:"version,omitempty"`
	Error   *errorReport  `json:"error,omitempty"`
}

type levelReport struct {
	Command string        `json:"command"`
	Values  []valueReport `json:"values"`
}

type valueReport struct {
	ID      string   `json:"id"`
	Raw     []string `json:"raw"`
	Names   []string `json:"names,omitempty"`
	Decoded []any    `json:"decoded,omitempty"`
	Argv    [][2]int `json:"argv,omitempty"`
}

type helpReport struct {
	Command    string `json:"command"`
	Visibility string `json:"visibility"`
}

type errorReport struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
	Command    string `json:"command,omitempty"`
	Argument   string `json:"argument,omitempty"`
	Name       string `json:"name,omitempty"`
	Token      *int   `json:"token,omitempty"`
	ExitCode   int    `json:"exit_code"`
}

// probe loads a descriptor, parses the trailing arguments against it and
// prints what the parser resolved. A failed parse exits with the code the
// failure maps to.
func probe(m *snapio.IOManager, log *snapio.Logger, l *snap.Level) error {
	path, _ := snap.Get[string](l, "file")
	args, _ := snap.All[string](l, "args")

	timeouts, _ := snap.All[hookTimeout](l, "timeout")

	target, err := loadTree(m, log, path, timeouts)
	if err != nil {
		return err
	}
	log.Debug("parsing %q", args)

	res, perr := target.Parse(args)
	report := newProbeReport(res, perr)

	if snap.Has(l, "json") {
		enc := json.NewEncoder(m.Out())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else if err := printProbeReport(m, log, args, report); err != nil {
		return err
	}

	if perr != nil {
		return &snap.ExitError{Code: report.Error.ExitCode}
	}
	return nil
}

func loadTree(m *snapio.IOManager, log *snapio.Logger, path string, timeouts []hookTimeout) (*snap.Tree, error) {
	var hooks []middleware.Middleware
	if log.Enabled(snapio.LevelDebug) {
		hooks = append(hooks, middleware.LoggerWithWriter(m.Err(), middleware.WithLogLevel(middleware.LogLevelDebug)))
	}

	// later values win; zero disables the deadline
	def := defaultHookTimeout
	perCommand := make(map[string]time.Duration)
	for _, ht := range timeouts {
		if ht.command == "" {
			def = ht.d
			continue
		}
		perCommand[ht.command] = ht.d
	}
	hooks = append(hooks, middleware.Recovery(), middleware.TimeoutPerCommand(perCommand, def))

	tree, err := buildDescriptor(path, snap.WithValidationMiddleware(hooks...))
	if err != nil {
		return nil, err
	}
	log.Debug("loaded %s from %s", tree.Root().Name, path)
	return tree, nil
}

func newProbeReport(res *snap.Result, err error) *probeReport {
	r := &probeReport{}
	if err != nil {
		r.Error = newErrorReport(err)
		return r
	}
	r.Path = res.Stack.Path()
	r.Version = res.Version
	if h := res.Help; h != nil {
		r.Help = &helpReport{
			Command:    res.Stack[:h.Level+1].String(),
			Visibility: h.Visibility.String(),
		}
	}
	for i, lvl := range res.Stack {
		r.Levels = append(r.Levels, levelReport{
			Command: res.Stack[:i+1].String(),
			Values:  valueReports(lvl),
		})
	}
	return r
}

func valueReports(l *snap.Level) []valueReport {
	out := make([]valueReport, 0, l.Values.Len())
	for _, id := range l.Values.IDs() {
		vr := valueReport{ID: id, Raw: []string{}}
		for _, v := range l.Values.Values(id) {
			vr.Raw = append(vr.Raw, v.Raw)
			if !v.Name.IsZero() {
				vr.Names = append(vr.Names, v.Name.String())
			}
			if v.Decoded != nil {
				vr.Decoded = append(vr.Decoded, v.Decoded)
			}
			vr.Argv = append(vr.Argv, [2]int{v.Origin.Start, v.Origin.End})
		}
		out = append(out, vr)
	}
	return out
}

func newErrorReport(err error) *errorReport {
	r := &errorReport{Message: err.Error(), ExitCode: exitCodes.Resolve(err)}
	var pe *snap.ParseError
	if !errors.As(err, &pe) {
		r.Type = "error"
		return r
	}
	r.Type = string(pe.Type)
	r.Message = pe.Message
	r.Suggestion = pe.Suggestion
	r.Name = pe.Name
	if pe.Level >= 0 && pe.Level < len(pe.Stack) {
		r.Command = pe.Stack[:pe.Level+1].String()
	}
	if pe.Argument != nil {
		r.Argument = pe.Argument.ID
	}
	if pe.Token != nil {
		idx := pe.Token.Index
		r.Token = &idx
	}
	return r
}

func printProbeReport(m *snapio.IOManager, log *snapio.Logger, args []string, r *probeReport) error {
	theme := snapio.DefaultTheme()
	if e := r.Error; e != nil {
		msg := e.Message
		if e.Suggestion != "" {
			msg += fmt.Sprintf(" (did you mean '%s'?)", e.Suggestion)
		}
		log.Error("%s: %s", e.Type, msg)
		if e.Token != nil {
			log.Info("at %s", markArg(m, theme, args, *e.Token))
		}
		if e.Command != "" {
			log.Info("in command '%s'", e.Command)
		}
		return nil
	}
	if r.Version != "" {
		log.Info("version requested: %s", r.Version)
		return nil
	}
	if r.Help != nil {
		log.Info("help requested for '%s' (%s)", r.Help.Command, r.Help.Visibility)
		return nil
	}

	log.Success("resolved %s", strings.Join(r.Path, " "))
	tbl := snapio.NewTable(m, "COMMAND", "ID", "VALUE", "SPELLING", "ARGV")
	for _, lvl := range r.Levels {
		for _, v := range lvl.Values {
			if len(v.Raw) == 0 {
				tbl.Row(lvl.Command, v.ID, theme.Muted.Sprint(m, "(present)"))
				continue
			}
			for i, raw := range v.Raw {
				spelling := ""
				if i < len(v.Names) {
					spelling = v.Names[i]
				}
				tbl.Row(lvl.Command, v.ID, raw, spelling, argvRange(v.Argv[i]))
			}
		}
	}
	if tbl.Len() == 0 {
		log.Info("no values")
		return nil
	}
	return tbl.Render()
}

// markArg renders args with the one at index highlighted.
func markArg(m *snapio.IOManager, theme snapio.Theme, args []string, index int) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if i == index {
			a = theme.Error.Sprint(m, a)
		}
		parts[i] = a
	}
	if index >= len(args) {
		parts = append(parts, theme.Error.Sprint(m, "^"))
	}
	return strings.Join(parts, " ")
}

func argvRange(r [2]int) string {
	if r[0] == r[1] {
		return fmt.Sprint(r[0])
	}
	return fmt.Sprintf("%d-%d", r[0], r[1])
}
