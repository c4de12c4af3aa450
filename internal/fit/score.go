package fit

import (
	"math"

	"github.com/spigell/jobpilot/internal/jobs"
)

const (
	maxScore = 100.0

	skillShare       = 0.7
	preferenceShare  = 0.2
	evidenceShare    = 0.1
	maxEvidenceBonus = 8.0
)

// SectionRatio returns matched/(matched+missing), or false when the section is
// empty and must not count.
func SectionRatio(s jobs.SectionFit) (float64, bool) {
	total := len(s.Matched) + len(s.Missing)
	if total == 0 {
		return 0, false
	}
	return float64(len(s.Matched)) / float64(total), true
}

// SkillScore is the weighted mean of the present section ratios, scaled to
// 0-100. Weights are renormalized over the sections that are present.
func SkillScore(f jobs.Fit, w Weights) float64 {
	sections := []struct {
		fit    jobs.SectionFit
		weight float64
	}{
		{f.Skills.Required, w.Required},
		{f.Skills.NiceToHave, w.NiceToHave},
		{f.Qualifications, w.Qualifications},
	}

	var sum, weights float64
	for _, s := range sections {
		ratio, ok := SectionRatio(s.fit)
		if !ok || s.weight <= 0 {
			continue
		}
		sum += s.weight * ratio
		weights += s.weight
	}
	if weights == 0 {
		return 0
	}
	return maxScore * sum / weights
}

// PreferenceScore starts at 100 and subtracts a penalty for each explicit
// mismatch. Unknown values cost nothing.
func PreferenceScore(p jobs.PreferenceFit, penalties Penalties) float64 {
	score := maxScore
	if !p.LocationOK {
		score -= penalties.Location
	}
	if !p.WorkModeOK {
		score -= penalties.WorkMode
	}
	if p.SalaryOK == jobs.SalaryBelow {
		score -= penalties.Salary
	}
	return clamp(score, 0, maxScore)
}

// ResponsibilitiesBonus maps evidence confidence (0-100) to 0-8 points.
func ResponsibilitiesBonus(r jobs.ResponsibilitiesFit) float64 {
	return maxEvidenceBonus * clamp(r.Confidence, 0, maxScore) / maxScore
}

// OverallScore blends skill and preference scores with the evidence bonus,
// capped at 100.
func OverallScore(skill, preference, bonus float64) float64 {
	overall := skillShare*skill + preferenceShare*preference + evidenceShare*(skill+bonus)
	return math.Min(maxScore, overall)
}

// ComputeScores derives all three scores from the match details. Results are
// rounded to one decimal.
func ComputeScores(m *jobs.MatchResult, w Weights) jobs.Scores {
	skill := SkillScore(m.Fit, w)
	preference := PreferenceScore(m.Preferences, w.Penalties)
	overall := OverallScore(skill, preference, ResponsibilitiesBonus(m.Fit.Responsibilities))

	return jobs.Scores{
		SkillScore:      round1(skill),
		PreferenceScore: round1(preference),
		OverallScore:    round1(overall),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
