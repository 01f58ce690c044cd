package testutil

import (
	"sync"

	"github.com/arthur-debert/homesick/pkg/types"
)

// ScriptedPrompter answers confirmations from a queue, falling back to
// Default once the queue is exhausted
type ScriptedPrompter struct {
	mu        sync.Mutex
	answers   []bool
	Default   bool
	Questions []string
	Err       error
}

// NewScriptedPrompter creates a prompter that declines by default
func NewScriptedPrompter(answers ...bool) *ScriptedPrompter {
	return &ScriptedPrompter{answers: answers}
}

// Answer queues further answers
func (p *ScriptedPrompter) Answer(answers ...bool) *ScriptedPrompter {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.answers = append(p.answers, answers...)
	return p
}

// Confirm implements types.Prompter
func (p *ScriptedPrompter) Confirm(message string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Questions = append(p.Questions, message)
	if p.Err != nil {
		return false, p.Err
	}
	if len(p.answers) == 0 {
		return p.Default, nil
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

var _ types.Prompter = (*ScriptedPrompter)(nil)
