package ui

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/homesick/pkg/castle"
	"github.com/arthur-debert/homesick/pkg/types"
)

// RenderCastles prints castles with their remotes. JSON and YAML output
// is a single list; other formats print one status line per castle
// labeled with its name.
func RenderCastles(out io.Writer, format Format, entries []castle.Entry) error {
	if entries == nil {
		entries = []castle.Entry{}
	}

	switch Resolve(format, out) {
	case FormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	case FormatYAML:
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		if err := encoder.Encode(entries); err != nil {
			return err
		}
		return encoder.Close()
	}

	reporter := NewStatusReporter(out, format, false)
	for _, e := range entries {
		reporter.Say(types.Status(e.Name), e.Remote)
	}
	return nil
}
