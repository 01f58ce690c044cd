// pkg/testutil/vcs.go
// DEPENDENCIES: types
// PURPOSE: Record version control calls without running git

package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/arthur-debert/homesick/pkg/types"
)

// VCSCall is one recorded version control invocation
type VCSCall struct {
	Dir  string
	Op   string
	Args []string
}

// String renders the call as "op arg..." for compact assertions
func (c VCSCall) String() string {
	return strings.TrimSpace(c.Op + " " + strings.Join(c.Args, " "))
}

// FakeVCS records every call made through repositories it opens
type FakeVCS struct {
	mu    sync.Mutex
	calls []VCSCall

	// Errors fails every call of the named operation
	Errors map[string]error

	// ConfigValues answers Config lookups
	ConfigValues map[string]string

	// OnClone runs in place of a clone, typically to lay out files
	OnClone func(uri, destination string) error
}

// NewFakeVCS creates an empty recorder
func NewFakeVCS() *FakeVCS {
	return &FakeVCS{
		Errors:       map[string]error{},
		ConfigValues: map[string]string{},
	}
}

// Open implements types.VCSOpener
func (f *FakeVCS) Open(dir string) types.VCS {
	return &fakeRepo{fake: f, dir: dir}
}

// Calls returns a copy of the recorded calls
func (f *FakeVCS) Calls() []VCSCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]VCSCall(nil), f.calls...)
}

// Ops returns the recorded calls rendered with VCSCall.String
func (f *FakeVCS) Ops() []string {
	calls := f.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

// CallsIn returns the calls made against dir
func (f *FakeVCS) CallsIn(dir string) []string {
	var out []string
	for _, c := range f.Calls() {
		if c.Dir == dir {
			out = append(out, c.String())
		}
	}
	return out
}

func (f *FakeVCS) record(dir, op string, args ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, VCSCall{Dir: dir, Op: op, Args: args})
	return f.Errors[op]
}

type fakeRepo struct {
	fake *FakeVCS
	dir  string
}

func (r *fakeRepo) Clone(_ context.Context, uri, destination string) error {
	if err := r.fake.record(r.dir, "clone", uri, destination); err != nil {
		return err
	}
	if r.fake.OnClone != nil {
		return r.fake.OnClone(uri, destination)
	}
	return nil
}

func (r *fakeRepo) Init(context.Context) error {
	return r.fake.record(r.dir, "init")
}

func (r *fakeRepo) Pull(context.Context) error {
	return r.fake.record(r.dir, "pull")
}

func (r *fakeRepo) Push(context.Context) error {
	return r.fake.record(r.dir, "push")
}

func (r *fakeRepo) CommitAll(_ context.Context, message string) error {
	return r.fake.record(r.dir, "commit", message)
}

func (r *fakeRepo) SubmoduleInit(context.Context) error {
	return r.fake.record(r.dir, "submodule-init")
}

func (r *fakeRepo) SubmoduleUpdate(context.Context) error {
	return r.fake.record(r.dir, "submodule-update")
}

func (r *fakeRepo) Add(_ context.Context, path string) error {
	return r.fake.record(r.dir, "add", path)
}

func (r *fakeRepo) RemoteAdd(_ context.Context, name, url string) error {
	return r.fake.record(r.dir, "remote-add", name, url)
}

func (r *fakeRepo) Config(_ context.Context, key string) (string, error) {
	if err := r.fake.record(r.dir, "config", key); err != nil {
		return "", err
	}
	r.fake.mu.Lock()
	defer r.fake.mu.Unlock()
	return r.fake.ConfigValues[key], nil
}
