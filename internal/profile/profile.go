// Package profile loads and updates the candidate profile document.
package profile

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/jobpilot/internal/jsonfile"
	"github.com/spigell/jobpilot/internal/skills"
)

// Profile is the typed view of profile.json. Keys it does not model (contact,
// education, projects and so on) are kept and written back untouched.
type Profile struct {
	Name           string           `json:"name"`
	Title          string           `json:"title"`
	Location       string           `json:"location"`
	Summary        string           `json:"summary"`
	Skills         []string         `json:"skills"`
	Qualifications []string         `json:"qualifications"`
	WorkExperience []WorkExperience `json:"work_experience"`
	Preferences    Preferences      `json:"preferences"`

	raw map[string]any
}

type WorkExperience struct {
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	Responsibilities []string `json:"responsibilities"`
	Achievements     []string `json:"achievements"`
}

// Preferences are nil when the profile does not state them.
type Preferences struct {
	Remote    *bool    `json:"remote"`
	Hybrid    *bool    `json:"hybrid"`
	Onsite    *bool    `json:"onsite"`
	JobTitles []string `json:"job_titles"`
}

// FromMap builds a Profile from a decoded profile document.
func FromMap(raw map[string]any) (*Profile, error) {
	if problems := Validate(raw); len(problems) > 0 {
		return nil, fmt.Errorf("invalid profile: %s", strings.Join(problems, "; "))
	}

	p := &Profile{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           p,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}

	if raw == nil {
		raw = map[string]any{}
	}
	p.raw = raw
	return p, nil
}

// Validate reports structural problems in a raw profile document.
func Validate(raw map[string]any) []string {
	var problems []string
	for _, key := range []string{"skills", "traits", "qualifications", "work_experience", "education", "projects"} {
		value, ok := raw[key]
		if !ok || value == nil {
			continue
		}
		if _, isList := value.([]any); !isList {
			problems = append(problems, fmt.Sprintf("%s should be a list", key))
		}
	}
	if value, ok := raw["preferences"]; ok && value != nil {
		if _, isObject := value.(map[string]any); !isObject {
			problems = append(problems, "preferences should be an object")
		}
	}
	return problems
}

// ExperienceBullets flattens responsibilities and achievements of every role.
func (p *Profile) ExperienceBullets() []string {
	bullets := []string{}
	for _, w := range p.WorkExperience {
		bullets = append(bullets, w.Responsibilities...)
		bullets = append(bullets, w.Achievements...)
	}
	return bullets
}

// AddSkills appends entries whose canonical token is not yet among the
// profile skills. It returns the entries actually added.
func (p *Profile) AddSkills(entries []string) []string {
	var added []string
	p.Skills, added = union(p.Skills, entries)
	return added
}

// AddQualifications is AddSkills for qualifications.
func (p *Profile) AddQualifications(entries []string) []string {
	var added []string
	p.Qualifications, added = union(p.Qualifications, entries)
	return added
}

func union(existing, entries []string) ([]string, []string) {
	seen := make(map[string]struct{}, len(existing))
	for _, item := range existing {
		seen[skills.Canonical(item)] = struct{}{}
	}

	added := []string{}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		token := skills.Canonical(entry)
		if token == "" {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		existing = append(existing, entry)
		added = append(added, entry)
	}
	return existing, added
}

// Document returns the full profile document with the modelled list fields
// updated from p.
func (p *Profile) Document() map[string]any {
	doc := make(map[string]any, len(p.raw)+2)
	for k, v := range p.raw {
		doc[k] = v
	}
	if p.Skills != nil {
		doc["skills"] = p.Skills
	}
	if p.Qualifications != nil {
		doc["qualifications"] = p.Qualifications
	}
	return doc
}

// Store reads and writes profile.json.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load returns the stored profile. A missing file yields an empty profile.
func (s *Store) Load() (*Profile, error) {
	var raw map[string]any
	err := jsonfile.Read(s.path, &raw)
	if errors.Is(err, fs.ErrNotExist) {
		return FromMap(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return FromMap(raw)
}

// Exists reports whether the profile file is present.
func (s *Store) Exists() bool {
	var raw map[string]any
	return jsonfile.Read(s.path, &raw) == nil
}

func (s *Store) Save(p *Profile) error {
	if err := jsonfile.Write(s.path, p.Document()); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
