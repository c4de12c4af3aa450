package prompts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedDefaults(t *testing.T) {
	loader := NewLoader("")

	text, err := loader.Load("job_extraction_agent", "job_extractor_prompt.txt")
	require.NoError(t, err)
	require.Contains(t, text, "{clean_text}")
	require.Contains(t, text, "{job_url}")

	_, err = loader.Load("job_extraction_agent", "missing.txt")
	require.ErrorContains(t, err, "not found")
}

func TestOverrideWinsAndSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(dir)

	require.NoError(t, loader.Save("skill_matching_agent", "skill_match_prompt.txt", "custom prompt"))
	require.FileExists(t, filepath.Join(dir, "skill_matching_agent", "prompts", "skill_match_prompt.txt"))

	text, err := loader.Load("skill_matching_agent", "skill_match_prompt.txt")
	require.NoError(t, err)
	require.Equal(t, "custom prompt", text)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "skill_matching_agent", "prompts", "extra.txt"), []byte("x"), 0o644))
	files, err := loader.List("skill_matching_agent")
	require.NoError(t, err)
	require.Equal(t, []string{"extra.txt", "skill_match_prompt.txt"}, files)
}

func TestRejectsPathTraversal(t *testing.T) {
	loader := NewLoader(t.TempDir())
	_, err := loader.Load("..", "secrets.txt")
	require.Error(t, err)
	require.Error(t, loader.Save("agent", "../x.txt", "x"))
}

func TestEveryAgentHasTemplates(t *testing.T) {
	loader := NewLoader("")
	agents, err := loader.Agents()
	require.NoError(t, err)
	require.Contains(t, agents, "profile_agent")

	for _, agent := range agents {
		files, err := loader.List(agent)
		require.NoError(t, err)
		require.NotEmpty(t, files, agent)
		for _, f := range files {
			text, err := loader.Load(agent, f)
			require.NoError(t, err)
			require.NotEmpty(t, strings.TrimSpace(text))
		}
	}
}

func TestSaveWithoutDir(t *testing.T) {
	require.Error(t, NewLoader("").Save("a", "b.txt", "c"))
}
