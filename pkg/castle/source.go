package castle

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/arthur-debert/homesick/pkg/errors"
)

// SourceKind is the shape of a clone source
type SourceKind int

const (
	// LocalPath is an existing directory, linked into the repositories root
	LocalPath SourceKind = iota
	// ShorthandRepo is "user/repo" on the configured git host
	ShorthandRepo
	// GitURL is any URL ending in /<name>[.git]
	GitURL
	// ScpLikeURL is host:path[.git]
	ScpLikeURL
)

func (k SourceKind) String() string {
	switch k {
	case LocalPath:
		return "local"
	case ShorthandRepo:
		return "shorthand"
	case GitURL:
		return "url"
	case ScpLikeURL:
		return "scp"
	default:
		return "unknown"
	}
}

// Source is a parsed clone source
type Source struct {
	Kind SourceKind
	// URI is what gets cloned or, for LocalPath, the absolute directory
	URI string
	// Destination is the castle name under the repositories root
	Destination string
}

var (
	shorthandPattern = regexp.MustCompile(`^([A-Za-z_-]+/[A-Za-z_-]+)$`)
	gitURLPattern    = regexp.MustCompile(`/([^/]*?)(\.git)?$`)
	scpLikePattern   = regexp.MustCompile(`^[^:]+:([^:]+?)(\.git)?$`)
)

type matcher struct {
	kind  SourceKind
	match func(m *Manager, uri string) (Source, bool, error)
}

// matchers are tried in order, the first match wins
var matchers = []matcher{
	{LocalPath, matchLocalPath},
	{ShorthandRepo, matchShorthand},
	{GitURL, matchPattern(GitURL, gitURLPattern)},
	{ScpLikeURL, matchPattern(ScpLikeURL, scpLikePattern)},
}

// ParseSource classifies a clone source
func (m *Manager) ParseSource(uri string) (Source, error) {
	if strings.TrimSpace(uri) == "" {
		return Source{}, errors.New(errors.ErrMalformedURI, "clone source is empty")
	}
	for _, mt := range matchers {
		src, ok, err := mt.match(m, uri)
		if err != nil {
			return Source{}, err
		}
		if ok {
			m.logger.Debug().Str("uri", uri).Str("kind", mt.kind.String()).Str("destination", src.Destination).Msg("Parsed clone source")
			return src, nil
		}
	}
	return Source{}, errors.Newf(errors.ErrMalformedURI, "Unknown URI format: %s", uri).WithDetail("uri", uri)
}

func matchLocalPath(m *Manager, uri string) (Source, bool, error) {
	abs, err := filepath.Abs(m.paths.ExpandHome(uri))
	if err != nil {
		return Source{}, false, nil
	}
	if _, err := m.fs.Stat(abs); err != nil {
		return Source{}, false, nil
	}
	if m.paths.IsInRepos(abs) {
		return Source{}, false, errors.Newf(errors.ErrAlreadyCloned, "Castle already cloned to %s", abs).
			WithDetail("path", abs)
	}
	return Source{Kind: LocalPath, URI: abs, Destination: filepath.Base(abs)}, true, nil
}

func matchShorthand(m *Manager, uri string) (Source, bool, error) {
	match := shorthandPattern.FindStringSubmatch(uri)
	if match == nil {
		return Source{}, false, nil
	}
	return Source{
		Kind:        ShorthandRepo,
		URI:         fmt.Sprintf("git://%s/%s.git", m.githubHost, match[1]),
		Destination: match[1],
	}, true, nil
}

func matchPattern(kind SourceKind, pattern *regexp.Regexp) func(*Manager, string) (Source, bool, error) {
	return func(_ *Manager, uri string) (Source, bool, error) {
		match := pattern.FindStringSubmatch(uri)
		if match == nil || match[1] == "" {
			return Source{}, false, nil
		}
		return Source{Kind: kind, URI: uri, Destination: match[1]}, true, nil
	}
}
