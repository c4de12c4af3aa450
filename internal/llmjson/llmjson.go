// Package llmjson recovers JSON objects from model output that may be wrapped
// in code fences, surrounded by prose or slightly malformed.
package llmjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/yosuke-furukawa/json5/encoding/json5"
)

// ErrNoJSON is returned when no strategy yields a JSON object.
var ErrNoJSON = errors.New("no json object found in model output")

var (
	fencePattern  = regexp.MustCompile("(?i)^```(?:json)?\\s*|\\s*```$")
	objectPattern = regexp.MustCompile(`(?s)\{.*\}`)
)

// Strategy is one repair attempt. Candidate returns the text to parse and false
// when the strategy does not apply.
type Strategy struct {
	Name      string
	Candidate func(raw string) (string, bool)
	Lenient   bool
}

// Strategies lists the repair attempts in the order ParseObject tries them.
var Strategies = []Strategy{
	{Name: "strict", Candidate: func(raw string) (string, bool) { return strings.TrimSpace(raw), true }},
	{Name: "strip_fences", Candidate: func(raw string) (string, bool) { return StripFences(raw), true }},
	{Name: "first_object", Candidate: FirstObject},
	{Name: "json5", Candidate: FirstObject, Lenient: true},
}

// StripFences removes a leading ```json (or bare ```) fence and a trailing ``` fence.
func StripFences(s string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(strings.TrimSpace(s), ""))
}

// FirstObject returns the span from the first '{' to the last '}'.
func FirstObject(raw string) (string, bool) {
	match := objectPattern.FindString(raw)
	return match, match != ""
}

// ParseObject runs Strategies in order and returns the first JSON object decoded.
func ParseObject(raw string) (map[string]any, error) {
	obj, _, err := Parse(raw)
	return obj, err
}

// Parse is ParseObject that also reports which strategy succeeded.
func Parse(raw string) (map[string]any, string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, "", fmt.Errorf("empty model output: %w", ErrNoJSON)
	}

	var lastErr error
	for _, strategy := range Strategies {
		candidate, ok := strategy.Candidate(raw)
		if !ok || candidate == "" {
			continue
		}

		var obj map[string]any
		var err error
		if strategy.Lenient {
			err = json5.Unmarshal([]byte(candidate), &obj)
		} else {
			err = json.Unmarshal([]byte(candidate), &obj)
		}
		if err != nil {
			lastErr = err
			continue
		}
		if obj == nil {
			continue
		}
		return obj, strategy.Name, nil
	}

	if lastErr != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrNoJSON, lastErr)
	}
	return nil, "", ErrNoJSON
}

// Decode parses raw with ParseObject and re-encodes the object into target.
func Decode(raw string, target any) error {
	obj, err := ParseObject(raw)
	if err != nil {
		return err
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("re-encode model json: %w", err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode model json: %w", err)
	}
	return nil
}
