// Package prompts resolves prompt templates by agent and file name. Templates
// in the override directory win over the embedded defaults.
package prompts

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed defaults
var defaults embed.FS

const defaultsRoot = "defaults"

// Loader reads templates from <dir>/<agent>/prompts/<file>, falling back to the
// embedded defaults. An empty dir uses the defaults only.
type Loader struct {
	dir string
}

func NewLoader(dir string) *Loader {
	return &Loader{dir: strings.TrimSpace(dir)}
}

// Load returns the template text.
func (l *Loader) Load(agent, filename string) (string, error) {
	if err := checkName(agent, filename); err != nil {
		return "", err
	}

	if l.dir != "" {
		data, err := os.ReadFile(l.overridePath(agent, filename))
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("read prompt %s/%s: %w", agent, filename, err)
		}
	}

	data, err := defaults.ReadFile(path.Join(defaultsRoot, agent, filename))
	if err != nil {
		return "", fmt.Errorf("prompt %s/%s not found", agent, filename)
	}
	return string(data), nil
}

// Agents lists the agents that ship default templates.
func (l *Loader) Agents() ([]string, error) {
	entries, err := defaults.ReadDir(defaultsRoot)
	if err != nil {
		return nil, err
	}
	var agents []string
	for _, e := range entries {
		if e.IsDir() {
			agents = append(agents, e.Name())
		}
	}
	return agents, nil
}

// List returns the *.txt templates available for agent, defaults and
// overrides combined, sorted.
func (l *Loader) List(agent string) ([]string, error) {
	if err := checkName(agent, "x.txt"); err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	if entries, err := defaults.ReadDir(path.Join(defaultsRoot, agent)); err == nil {
		for _, e := range entries {
			seen[e.Name()] = struct{}{}
		}
	}
	if l.dir != "" {
		entries, err := os.ReadDir(filepath.Join(l.dir, agent, "prompts"))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("list prompts of %s: %w", agent, err)
		}
		for _, e := range entries {
			seen[e.Name()] = struct{}{}
		}
	}

	var files []string
	for name := range seen {
		if strings.HasSuffix(name, ".txt") {
			files = append(files, name)
		}
	}
	sort.Strings(files)
	return files, nil
}

// Save writes content as the override template for agent/filename.
func (l *Loader) Save(agent, filename, content string) error {
	if l.dir == "" {
		return errors.New("prompts directory is not configured")
	}
	if err := checkName(agent, filename); err != nil {
		return err
	}

	target := l.overridePath(agent, filename)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create prompts directory: %w", err)
	}
	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write prompt %s/%s: %w", agent, filename, err)
	}
	return nil
}

func (l *Loader) overridePath(agent, filename string) string {
	return filepath.Join(l.dir, agent, "prompts", filename)
}

func checkName(agent, filename string) error {
	for _, part := range []string{agent, filename} {
		if part == "" || strings.ContainsAny(part, `/\`) || part == "." || part == ".." {
			return fmt.Errorf("invalid prompt name %q", part)
		}
	}
	return nil
}
