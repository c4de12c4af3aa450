package jobs

import "fmt"

// MatchResult describes how well a profile fits a job.
type MatchResult struct {
	Fit                Fit                `json:"fit"`
	Preferences        PreferenceFit      `json:"preferences"`
	Scores             Scores             `json:"scores"`
	Analysis           Analysis           `json:"analysis"`
	DocRecommendations DocRecommendations `json:"doc_recommendations"`
}

type Fit struct {
	Skills           SkillsFit           `json:"skills"`
	Qualifications   SectionFit          `json:"qualifications"`
	Responsibilities ResponsibilitiesFit `json:"responsibilities"`
}

type SkillsFit struct {
	Required   SectionFit `json:"required"`
	NiceToHave SectionFit `json:"nice_to_have"`
}

// SectionFit lists matched and missing items of one requirement section.
type SectionFit struct {
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
	Score   float64  `json:"score"`
}

type ResponsibilitiesFit struct {
	Evidence   []string `json:"evidence"`
	Confidence float64  `json:"confidence"`
}

// Salary verdicts reported in PreferenceFit.SalaryOK.
const (
	SalaryUnknown = "unknown"
	SalaryBelow   = "below"
)

type PreferenceFit struct {
	LocationOK bool   `json:"location_ok"`
	WorkModeOK bool   `json:"work_mode_ok"`
	SalaryOK   string `json:"salary_ok"`
	Notes      string `json:"notes"`
}

type Scores struct {
	SkillScore      float64 `json:"skill_score"`
	PreferenceScore float64 `json:"preference_score"`
	OverallScore    float64 `json:"overall_score"`
}

type Analysis struct {
	Strengths              []string `json:"strengths"`
	Gaps                   []string `json:"gaps"`
	FastUpskillSuggestions []string `json:"fast_upskill_suggestions"`
}

type DocRecommendations struct {
	CoverLetter CoverLetterHints `json:"cover_letter"`
	Resume      ResumeHints      `json:"resume"`
}

type CoverLetterHints struct {
	Highlights  []string `json:"highlights"`
	AddressGaps []string `json:"address_gaps"`
	Tone        string   `json:"tone"`
}

type ResumeHints struct {
	ReorderSuggestions []string `json:"reorder_suggestions"`
	KeywordsToInclude  []string `json:"keywords_to_include"`
	BulletsToAdd       []string `json:"bullets_to_add"`
}

// DefaultTone is the cover-letter tone used when the model suggests none.
const DefaultTone = "impact-focused"

func sectionTemplate() map[string]any {
	return map[string]any{"matched": []any{}, "missing": []any{}, "score": 0.0}
}

func matchTemplate() map[string]any {
	return map[string]any{
		"fit": map[string]any{
			"skills": map[string]any{
				"required":     sectionTemplate(),
				"nice_to_have": sectionTemplate(),
			},
			"qualifications":   sectionTemplate(),
			"responsibilities": map[string]any{"evidence": []any{}, "confidence": 0.0},
		},
		"preferences": map[string]any{
			"location_ok":  true,
			"work_mode_ok": true,
			"salary_ok":    SalaryUnknown,
			"notes":        "",
		},
		"scores": map[string]any{
			"skill_score":      0.0,
			"preference_score": 0.0,
			"overall_score":    0.0,
		},
		"analysis": map[string]any{
			"strengths":                []any{},
			"gaps":                     []any{},
			"fast_upskill_suggestions": []any{},
		},
		"doc_recommendations": map[string]any{
			"cover_letter": map[string]any{
				"highlights":   []any{},
				"address_gaps": []any{},
				"tone":         DefaultTone,
			},
			"resume": map[string]any{
				"reorder_suggestions": []any{},
				"keywords_to_include": []any{},
				"bullets_to_add":      []any{},
			},
		},
	}
}

// EmptyMatch returns a MatchResult with every default filled in.
func EmptyMatch() *MatchResult {
	m, err := DecodeMatch(nil)
	if err != nil {
		// The template always decodes.
		panic(err)
	}
	return m
}

// DecodeMatch builds a fully shaped MatchResult from a model response. Missing
// or malformed parts take their defaults; nothing in the result is nil.
func DecodeMatch(raw map[string]any) (*MatchResult, error) {
	m := &MatchResult{}
	if err := decode(shape(raw, matchTemplate()), m); err != nil {
		return nil, fmt.Errorf("decode match result: %w", err)
	}
	if m.Preferences.SalaryOK == "" {
		m.Preferences.SalaryOK = SalaryUnknown
	}
	if m.DocRecommendations.CoverLetter.Tone == "" {
		m.DocRecommendations.CoverLetter.Tone = DefaultTone
	}
	return m, nil
}
