package llmjson

import (
	"errors"
	"testing"
)

func TestParseStrategies(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		strategy string
	}{
		{name: "plain", raw: `{"job_title": "Go Dev"}`, strategy: "strict"},
		{name: "fenced", raw: "```json\n{\"job_title\": \"Go Dev\"}\n```", strategy: "strip_fences"},
		{name: "fenced upper", raw: "```JSON\n{\"job_title\": \"Go Dev\"}```", strategy: "strip_fences"},
		{name: "prose around", raw: "Sure! Here it is:\n{\"job_title\": \"Go Dev\"}\nHope it helps.", strategy: "first_object"},
		{name: "trailing comma", raw: "{\"job_title\": \"Go Dev\",}", strategy: "json5"},
		{name: "unquoted keys", raw: "result: {job_title: \"Go Dev\", company: \"Acme\"}", strategy: "json5"},
		{name: "line comment", raw: "{\n  job_title: \"Go Dev\",\n  // salary was not stated\n  salary: \"\",\n}", strategy: "json5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, strategy, err := Parse(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strategy != tt.strategy {
				t.Fatalf("strategy = %q, want %q", strategy, tt.strategy)
			}
			if obj["job_title"] != "Go Dev" {
				t.Fatalf("unexpected object: %#v", obj)
			}
		})
	}
}

func TestParseObjectFailures(t *testing.T) {
	for _, raw := range []string{"", "   ", "no json here", "[1, 2, 3]", "{ broken"} {
		if _, err := ParseObject(raw); !errors.Is(err, ErrNoJSON) {
			t.Fatalf("ParseObject(%q) error = %v, want ErrNoJSON", raw, err)
		}
	}
}

func TestStripFences(t *testing.T) {
	if got := StripFences("```\n{}\n```"); got != "{}" {
		t.Fatalf("StripFences() = %q", got)
	}
	if got := StripFences(" {\"a\":1} "); got != `{"a":1}` {
		t.Fatalf("StripFences() = %q", got)
	}
}

func TestDecode(t *testing.T) {
	var out struct {
		Skills []string `json:"skills"`
	}
	if err := Decode("```json\n{\"skills\": [\"go\", \"sql\"]}\n```", &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Skills) != 2 || out.Skills[1] != "sql" {
		t.Fatalf("unexpected decode result: %#v", out)
	}
}
