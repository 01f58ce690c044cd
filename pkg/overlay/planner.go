package overlay

import (
	"path"
	"path/filepath"

	"github.com/arthur-debert/homesick/pkg/errors"
	"github.com/arthur-debert/homesick/pkg/logging"
	"github.com/arthur-debert/homesick/pkg/types"
	"github.com/rs/zerolog"
)

// Decision tells the executor what to do with a candidate
type Decision int

const (
	// Link creates a symlink at the corresponding home path
	Link Decision = iota
	// Skip leaves the path to a deeper or equal merge point
	Skip
)

func (d Decision) String() string {
	if d == Link {
		return "link"
	}
	return "skip"
}

// Skip reasons
const (
	ReasonNestedMergePoint = "a merge point lies beneath it"
	ReasonDeepestEntry     = "leaf merge point handled by its own entry"
	ReasonMergePoint       = "merge point handled by its own entry"
)

// LinkCandidate is one path of the castle's home subtree with the
// planner's decision
type LinkCandidate struct {
	// RelPath is slash separated and relative to the castle's home subtree.
	// The same path relative to the home directory is the link location.
	RelPath  string
	Decision Decision
	Reason   string
}

// Plan is the full overlay of one castle
type Plan struct {
	// CastleHome is the absolute home subtree links point into
	CastleHome string
	// Dirs are merge points to materialize as real directories, in
	// manifest order
	Dirs []string
	// Candidates in planning order: children of merge points first, then
	// top-level entries
	Candidates []LinkCandidate
	// Missing are manifest entries without a directory in the castle
	Missing []string
}

// Links returns the candidates decided Link
func (p *Plan) Links() []LinkCandidate {
	var links []LinkCandidate
	for _, c := range p.Candidates {
		if c.Decision == Link {
			links = append(links, c)
		}
	}
	return links
}

// Source returns the absolute castle path a candidate links to
func (p *Plan) Source(c LinkCandidate) string {
	return filepath.Join(p.CastleHome, filepath.FromSlash(c.RelPath))
}

// Planner computes overlay plans. It reads the filesystem and never
// modifies it.
type Planner struct {
	fs     types.FS
	logger zerolog.Logger
}

// NewPlanner creates a planner reading through fsys
func NewPlanner(fsys types.FS) *Planner {
	return &Planner{
		fs:     fsys,
		logger: logging.GetLogger("overlay"),
	}
}

// Plan walks the home subtree at castleHome against the manifest
func (p *Planner) Plan(castleHome string, manifest []string) (*Plan, error) {
	entries := NewEntrySet(manifest)
	classifier := NewClassifier(p.fs, castleHome, entries)
	plan := &Plan{CastleHome: castleHome}
	seen := make(map[string]struct{})

	add := func(c LinkCandidate) {
		if _, ok := seen[c.RelPath]; ok {
			return
		}
		seen[c.RelPath] = struct{}{}
		plan.Candidates = append(plan.Candidates, c)
		p.logger.Debug().
			Str("path", c.RelPath).
			Str("decision", c.Decision.String()).
			Str("reason", c.Reason).
			Msg("Planned candidate")
	}

	for _, entry := range entries.Entries() {
		dir := filepath.Join(castleHome, filepath.FromSlash(entry))
		info, err := p.fs.Stat(dir)
		if err != nil || !info.IsDir() {
			p.logger.Warn().Str("entry", entry).Msg("Manifest entry has no directory in castle")
			plan.Missing = append(plan.Missing, entry)
			continue
		}
		plan.Dirs = append(plan.Dirs, entry)

		children, err := p.fs.ReadDir(dir)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to list %s", dir)
		}
		for _, child := range children {
			c, err := p.classifyChild(classifier, path.Join(entry, child.Name()))
			if err != nil {
				return nil, err
			}
			add(c)
		}
	}

	top, err := p.fs.ReadDir(castleHome)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to list %s", castleHome)
	}
	for _, child := range top {
		c, err := p.classifyTopLevel(classifier, child.Name())
		if err != nil {
			return nil, err
		}
		add(c)
	}

	p.logger.Info().
		Str("castle_home", castleHome).
		Int("dirs", len(plan.Dirs)).
		Int("links", len(plan.Links())).
		Int("candidates", len(plan.Candidates)).
		Msg("Overlay planned")

	return plan, nil
}

func (p *Planner) classifyChild(c *Classifier, rel string) (LinkCandidate, error) {
	nested, err := c.IsNestedInManifest(rel)
	if err != nil {
		return LinkCandidate{}, errors.Wrapf(err, errors.ErrFileAccess, "failed to classify %s", rel)
	}
	if nested {
		return LinkCandidate{RelPath: rel, Decision: Skip, Reason: ReasonNestedMergePoint}, nil
	}

	deepest, err := c.IsDeepestEntry(rel)
	if err != nil {
		return LinkCandidate{}, errors.Wrapf(err, errors.ErrFileAccess, "failed to classify %s", rel)
	}
	if deepest {
		return LinkCandidate{RelPath: rel, Decision: Skip, Reason: ReasonDeepestEntry}, nil
	}

	// a merge point with subdirectories is still materialized, never linked
	if c.IsMergePoint(rel) {
		return LinkCandidate{RelPath: rel, Decision: Skip, Reason: ReasonMergePoint}, nil
	}

	return LinkCandidate{RelPath: rel, Decision: Link}, nil
}

func (p *Planner) classifyTopLevel(c *Classifier, rel string) (LinkCandidate, error) {
	nested, err := c.IsNestedInManifest(rel)
	if err != nil {
		return LinkCandidate{}, errors.Wrapf(err, errors.ErrFileAccess, "failed to classify %s", rel)
	}
	if nested {
		return LinkCandidate{RelPath: rel, Decision: Skip, Reason: ReasonNestedMergePoint}, nil
	}
	if c.IsMergePoint(rel) {
		return LinkCandidate{RelPath: rel, Decision: Skip, Reason: ReasonMergePoint}, nil
	}
	return LinkCandidate{RelPath: rel, Decision: Link}, nil
}
