// TEST TYPE: Unit Test
// DEPENDENCIES: None (in-memory fs.FS)
// PURPOSE: Test topic scanning, lookup and the help command

package topics_test

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/homesick/pkg/cobrax/topics"
)

func topicFS() fstest.MapFS {
	return fstest.MapFS{
		"manifest.md":         {Data: []byte("# Manifest\n\nMerge points")},
		"option-pretend.txt":  {Data: []byte("Pretend help")},
		"guides/castles.txt":  {Data: []byte("Castle help")},
		"ignored.json":        {Data: []byte("{}")},
		"option-force.txxt":   {Data: []byte("Force help")},
		"guides/notes/.keep":  {Data: []byte("")},
		"guides/overlay.md":   {Data: []byte("Overlay help")},
		"guides/overlay.json": {Data: []byte("{}")},
	}
}

func TestScan_DefaultExtensions(t *testing.T) {
	tm := topics.New(topicFS())
	require.NoError(t, tm.Scan())

	assert.Equal(t, []string{"castles", "manifest", "option-pretend", "overlay"}, tm.ListTopics())

	topic, ok := tm.GetTopic("castles")
	require.True(t, ok)
	assert.Equal(t, "Castle help", topic.Content)
	assert.Equal(t, "guides/castles.txt", topic.FilePath)
}

func TestScan_CustomExtensions(t *testing.T) {
	tm := topics.NewWithOptions(topicFS(), topics.Options{Extensions: []string{".txxt"}})
	require.NoError(t, tm.Scan())

	assert.Equal(t, []string{"option-force"}, tm.ListTopics())
}

func TestGetTopic(t *testing.T) {
	tm := topics.New(topicFS())
	require.NoError(t, tm.Scan())

	tests := []struct {
		input    string
		expected string
		exists   bool
	}{
		{"manifest", "manifest", true},
		{"option-pretend", "option-pretend", true},
		{"pretend", "option-pretend", true},
		{"--pretend", "option-pretend", true},
		{"-pretend", "option-pretend", true},
		{"-p", "", false},
		{"nonexistent", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			topic, ok := tm.GetTopic(tt.input)
			assert.Equal(t, tt.exists, ok)
			if ok {
				assert.Equal(t, tt.expected, topic.Name)
			}
		})
	}
}

func TestPrintTopics(t *testing.T) {
	tm := topics.New(topicFS())
	require.NoError(t, tm.Scan())

	var out bytes.Buffer
	tm.PrintTopics(&out, "homesick")

	assert.Equal(t, `Available help topics:

General topics:
  castles
  manifest
  overlay

Option topics:
  --pretend

Use 'homesick help <topic>' to read about a specific topic.
`, out.String())
}

func TestPrintTopics_Empty(t *testing.T) {
	tm := topics.New(fstest.MapFS{})
	require.NoError(t, tm.Scan())

	var out bytes.Buffer
	tm.PrintTopics(&out, "homesick")
	assert.Equal(t, "No help topics available.\n", out.String())
}

func newRoot(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	root := &cobra.Command{Use: "homesick", Run: func(*cobra.Command, []string) {}}
	root.AddCommand(&cobra.Command{Use: "symlink", Short: "Link a castle", Run: func(*cobra.Command, []string) {}})

	_, err := topics.Initialize(root, topicFS())
	require.NoError(t, err)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	return root, &out
}

func TestHelpCommand_ShowsTopic(t *testing.T) {
	root, out := newRoot(t)
	root.SetArgs([]string{"help", "castles"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "Castle help", out.String())
}

func TestHelpCommand_ListsTopics(t *testing.T) {
	root, out := newRoot(t)
	root.SetArgs([]string{"help", "topics"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Available help topics:")
	assert.Contains(t, out.String(), "--pretend")
}

func TestHelpCommand_FallsBackToCommandHelp(t *testing.T) {
	root, out := newRoot(t)
	root.SetArgs([]string{"help", "symlink"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Link a castle")
}

func TestPlainRenderer(t *testing.T) {
	r := &topics.PlainRenderer{}
	assert.Equal(t, "# Title", r.Render("# Title", ".md"))
}

func TestGlamourRenderer_PassesThroughNonMarkdown(t *testing.T) {
	r := &topics.GlamourRenderer{Style: "notty"}
	assert.Equal(t, "plain text", r.Render("plain text", ".txt"))
	assert.Contains(t, r.Render("# Title", ".md"), "Title")
}
