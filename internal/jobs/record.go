// Package jobs holds the job-posting domain: extracted records, fit results and
// their on-disk store.
package jobs

import (
	"fmt"
	"strings"
)

// Record is a structured job posting.
type Record struct {
	JobTitle         string   `json:"job_title"`
	Company          string   `json:"company"`
	Location         string   `json:"location"`
	WorkLocation     string   `json:"work_location"`
	Salary           string   `json:"salary"`
	JobType          string   `json:"job_type"`
	Summary          string   `json:"summary"`
	URL              string   `json:"url"`
	RequiredSkills   []string `json:"required_skills"`
	NiceToHaveSkills []string `json:"nice_to_have_skills"`
	Responsibilities []string `json:"responsibilities"`
	Qualifications   []string `json:"qualifications"`
	JobText          string   `json:"job_text"`

	DateAdded   string       `json:"date_added,omitempty"`
	DateApplied string       `json:"date_applied"`
	Match       *MatchResult `json:"match,omitempty"`
	ReviewNotes *ReviewNotes `json:"_review_notes,omitempty"`
}

// ReviewNotes records problems met while reviewing an extracted record.
type ReviewNotes struct {
	Error string `json:"error,omitempty"`
}

// MinRequiredSkills is the required-skill count under which a record is reviewed.
const MinRequiredSkills = 6

func recordTemplate() map[string]any {
	return map[string]any{
		"job_title":           "",
		"company":             "",
		"location":            "",
		"work_location":       "",
		"salary":              "",
		"job_type":            "",
		"summary":             "",
		"url":                 "",
		"job_text":            "",
		"required_skills":     []any{},
		"nice_to_have_skills": []any{},
		"responsibilities":    []any{},
		"qualifications":      []any{},
	}
}

// NewRecord returns a record with every list field initialised.
func NewRecord() *Record {
	r := &Record{}
	r.normalizeLists()
	return r
}

// DecodeRecord builds a Record from a loosely typed model response. Unknown keys
// are ignored and malformed values fall back to empty ones.
func DecodeRecord(raw map[string]any) (*Record, error) {
	r := &Record{}
	if err := decode(shape(raw, recordTemplate()), r); err != nil {
		return nil, fmt.Errorf("decode job record: %w", err)
	}
	r.normalizeLists()
	return r, nil
}

// NeedsReview reports whether r lacks enough data to skip the review stage.
func NeedsReview(r *Record) bool {
	if r == nil {
		return true
	}
	if len(r.RequiredSkills) < MinRequiredSkills {
		return true
	}
	return blank(r.JobTitle) || blank(r.Company) || blank(r.Location)
}

// MergePatch adds information from patch without removing anything: empty
// scalar fields are filled and list fields are extended, then de-duplicated.
func (r *Record) MergePatch(patch *Record) {
	if patch == nil {
		return
	}

	fill := func(dst *string, src string) {
		if blank(*dst) && !blank(src) {
			*dst = strings.TrimSpace(src)
		}
	}
	fill(&r.JobTitle, patch.JobTitle)
	fill(&r.Company, patch.Company)
	fill(&r.Location, patch.Location)
	fill(&r.WorkLocation, patch.WorkLocation)
	fill(&r.Salary, patch.Salary)
	fill(&r.JobType, patch.JobType)
	fill(&r.Summary, patch.Summary)

	r.RequiredSkills = append(r.RequiredSkills, patch.RequiredSkills...)
	r.NiceToHaveSkills = append(r.NiceToHaveSkills, patch.NiceToHaveSkills...)
	r.Responsibilities = append(r.Responsibilities, patch.Responsibilities...)
	r.Qualifications = append(r.Qualifications, patch.Qualifications...)
	r.DedupeLists()
}

// DedupeLists removes repeated entries from every list field, keeping the
// first occurrence of each.
func (r *Record) DedupeLists() {
	r.RequiredSkills = Dedupe(r.RequiredSkills)
	r.NiceToHaveSkills = Dedupe(r.NiceToHaveSkills)
	r.Responsibilities = Dedupe(r.Responsibilities)
	r.Qualifications = Dedupe(r.Qualifications)
}

// Dedupe returns items without blanks and repeats, preserving first-seen order.
func Dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

func (r *Record) normalizeLists() {
	r.DedupeLists()
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
