package linker

import (
	"bytes"
	"fmt"
	"io/fs"

	"github.com/arthur-debert/homesick/pkg/internal/hashutil"
	"github.com/pmezard/go-difflib/difflib"
)

// maxDiffSize bounds the files shown as a diff in conflict prompts
const maxDiffSize = 64 * 1024

func (l *Linker) confirm(source, dest string, info fs.FileInfo) (bool, error) {
	if l.prompter == nil {
		return false, nil
	}
	return l.prompter.Confirm(l.conflictMessage(source, dest, info))
}

// conflictMessage describes what replacing dest would lose. Regular files
// are compared with the castle file they would be linked to.
func (l *Linker) conflictMessage(source, dest string, info fs.FileInfo) string {
	question := fmt.Sprintf("Overwrite %s?", dest)
	if source == "" || !info.Mode().IsRegular() {
		return question
	}
	srcInfo, err := l.fs.Stat(source)
	if err != nil || !srcInfo.Mode().IsRegular() {
		return question
	}

	same, err := hashutil.SameContent(l.fs, dest, source)
	if err != nil {
		return question
	}
	if same {
		return fmt.Sprintf("%s has identical content to %s. Replace it with a link?", dest, source)
	}

	if info.Size() > maxDiffSize || srcInfo.Size() > maxDiffSize {
		return question
	}
	diff, err := l.unifiedDiff(dest, source)
	if err != nil || diff == "" {
		return question
	}
	return diff + "\n" + question
}

func (l *Linker) unifiedDiff(dest, source string) (string, error) {
	current, err := l.fs.ReadFile(dest)
	if err != nil {
		return "", err
	}
	incoming, err := l.fs.ReadFile(source)
	if err != nil {
		return "", err
	}
	if bytes.IndexByte(current, 0) >= 0 || bytes.IndexByte(incoming, 0) >= 0 {
		return "", nil
	}

	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(current)),
		B:        difflib.SplitLines(string(incoming)),
		FromFile: dest,
		ToFile:   source,
		Context:  3,
	})
}
