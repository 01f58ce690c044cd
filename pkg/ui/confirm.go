package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/homesick/pkg/types"
)

// ConsolePrompter asks yes/no questions on a line based console
type ConsolePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsolePrompter reads answers from in and writes questions to out
func NewConsolePrompter(in io.Reader, out io.Writer) *ConsolePrompter {
	return &ConsolePrompter{in: bufio.NewReader(in), out: out}
}

// Confirm implements types.Prompter. Only y or yes confirms; end of
// input declines.
func (p *ConsolePrompter) Confirm(message string) (bool, error) {
	if _, err := fmt.Fprintf(p.out, "%s [y/N]: ", message); err != nil {
		return false, err
	}

	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read user input: %w", err)
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// InteractivePrompter asks with pterm's interactive confirm
type InteractivePrompter struct{}

// Confirm implements types.Prompter
func (InteractivePrompter) Confirm(message string) (bool, error) {
	return pterm.DefaultInteractiveConfirm.
		WithDefaultValue(false).
		Show(message)
}

// NewPrompter picks the interactive prompter on a terminal and the
// console prompter otherwise
func NewPrompter(in *os.File, out io.Writer) types.Prompter {
	if IsTerminal(in) {
		return InteractivePrompter{}
	}
	return NewConsolePrompter(in, out)
}
