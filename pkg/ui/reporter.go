package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/homesick/pkg/types"
)

type statusLine struct {
	Status  string `json:"status" yaml:"status"`
	Message string `json:"message" yaml:"message"`
}

// statusWidth right-aligns status labels into a column
const statusWidth = 12

// StatusReporter prints status lines as "      create  ~/.vimrc"
type StatusReporter struct {
	mu     sync.Mutex
	out    io.Writer
	format Format
	quiet  bool
	theme  *Theme
}

// NewStatusReporter creates a reporter writing to out. Quiet reporters
// only print errors.
func NewStatusReporter(out io.Writer, format Format, quiet bool) *StatusReporter {
	return &StatusReporter{
		out:    out,
		format: Resolve(format, out),
		quiet:  quiet,
		theme:  DefaultTheme(),
	}
}

// Say implements types.Reporter
func (r *StatusReporter) Say(status types.Status, message string) {
	if r.quiet && status != types.StatusError {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.format {
	case FormatJSON:
		_ = json.NewEncoder(r.out).Encode(statusLine{string(status), message})
	case FormatYAML:
		// One sequence item per line so the whole stream parses as a list
		data, err := yaml.Marshal([]statusLine{{string(status), message}})
		if err == nil {
			_, _ = r.out.Write(data)
		}
	case FormatTerminal:
		label := r.theme.StatusStyle(string(status)).Render(pad(string(status)))
		_, _ = fmt.Fprintf(r.out, "%s  %s\n", label, message)
	default:
		_, _ = fmt.Fprintf(r.out, "%s  %s\n", pad(string(status)), message)
	}
}

func pad(label string) string {
	if len(label) >= statusWidth {
		return label
	}
	return strings.Repeat(" ", statusWidth-len(label)) + label
}

var _ types.Reporter = (*StatusReporter)(nil)
