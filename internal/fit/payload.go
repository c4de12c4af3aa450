package fit

import (
	"github.com/spigell/jobpilot/internal/jobs"
	"github.com/spigell/jobpilot/internal/profile"
	"github.com/spigell/jobpilot/internal/skills"
)

// Weights control how requirement sections and preference mismatches count.
type Weights struct {
	Required       float64   `json:"w_required" mapstructure:"required"`
	NiceToHave     float64   `json:"w_nice" mapstructure:"nice-to-have"`
	Qualifications float64   `json:"w_qual" mapstructure:"qualifications"`
	Penalties      Penalties `json:"penalties" mapstructure:"penalties"`
}

// Penalties are points subtracted from the preference score.
type Penalties struct {
	Location  float64 `json:"location" mapstructure:"location"`
	WorkMode  float64 `json:"work_mode" mapstructure:"work-mode"`
	Salary    float64 `json:"salary" mapstructure:"salary"`
	Seniority float64 `json:"seniority" mapstructure:"seniority"`
}

func DefaultWeights() Weights {
	return Weights{
		Required:       0.60,
		NiceToHave:     0.20,
		Qualifications: 0.20,
		Penalties: Penalties{
			Location:  25,
			WorkMode:  30,
			Salary:    20,
			Seniority: 10,
		},
	}
}

// Payload is the user message sent to the model.
type Payload struct {
	Weights Weights     `json:"weights"`
	Job     JobData     `json:"JOB_DATA"`
	Profile ProfileData `json:"PROFILE"`
}

type JobData struct {
	JobTitle         string   `json:"job_title"`
	Company          string   `json:"company"`
	Location         string   `json:"location"`
	WorkLocation     string   `json:"work_location"`
	Salary           string   `json:"salary"`
	JobType          string   `json:"job_type"`
	RequiredSkills   []string `json:"required_skills"`
	NiceToHaveSkills []string `json:"nice_to_have_skills"`
	Qualifications   []string `json:"qualifications"`
	Responsibilities []string `json:"responsibilities"`
	JobText          string   `json:"job_text"`
}

type ProfileData struct {
	Name              string             `json:"name"`
	Title             string             `json:"title"`
	Location          string             `json:"location"`
	Skills            []string           `json:"skills"`
	ExperienceBullets []string           `json:"experience_bullets"`
	Preferences       PreferencesPayload `json:"preferences"`
}

type PreferencesPayload struct {
	Remote    bool     `json:"remote"`
	Hybrid    bool     `json:"hybrid"`
	Onsite    bool     `json:"onsite"`
	JobTitles []string `json:"job_titles"`
}

// BuildPayload normalizes the comparable sets of job and profile.
// Responsibilities and experience bullets are passed through unchanged.
func BuildPayload(job *jobs.Record, p *profile.Profile, w Weights) Payload {
	responsibilities := append([]string{}, job.Responsibilities...)

	prefs := p.Preferences
	jobTitles := append([]string{}, prefs.JobTitles...)

	return Payload{
		Weights: w,
		Job: JobData{
			JobTitle:         job.JobTitle,
			Company:          job.Company,
			Location:         job.Location,
			WorkLocation:     job.WorkLocation,
			Salary:           job.Salary,
			JobType:          job.JobType,
			RequiredSkills:   skills.NormalizeSet(job.RequiredSkills),
			NiceToHaveSkills: skills.NormalizeSet(job.NiceToHaveSkills),
			Qualifications:   skills.NormalizeSet(job.Qualifications),
			Responsibilities: responsibilities,
			JobText:          job.JobText,
		},
		Profile: ProfileData{
			Name:              p.Name,
			Title:             p.Title,
			Location:          p.Location,
			Skills:            skills.NormalizeSet(p.Skills),
			ExperienceBullets: p.ExperienceBullets(),
			Preferences: PreferencesPayload{
				Remote:    boolOr(prefs.Remote, true),
				Hybrid:    boolOr(prefs.Hybrid, true),
				Onsite:    boolOr(prefs.Onsite, false),
				JobTitles: jobTitles,
			},
		},
	}
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
