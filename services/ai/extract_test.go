package ai

import (
	"errors"
	"testing"
)

func TestExtractJSONPlainObject(t *testing.T) {
	got, err := ExtractJSON(`{"answer": "42", "confidence": 0.9}`)
	if err != nil {
		t.Fatalf("ExtractJSON failed: %v", err)
	}
	if got != `{"answer": "42", "confidence": 0.9}` {
		t.Errorf("unexpected payload: %s", got)
	}
}

func TestExtractJSONFenced(t *testing.T) {
	response := "```json\n{\"steps\": [\"a\", \"b\"]}\n```"
	got, err := ExtractJSON(response)
	if err != nil {
		t.Fatalf("ExtractJSON failed: %v", err)
	}
	if got != `{"steps": ["a", "b"]}` {
		t.Errorf("unexpected payload: %s", got)
	}
}

func TestExtractJSONWithProse(t *testing.T) {
	response := `Sure, here is the plan you asked for:

{"days": [{"date": "2026-03-02"}]}

Let me know if you want changes.`
	got, err := ExtractJSON(response)
	if err != nil {
		t.Fatalf("ExtractJSON failed: %v", err)
	}
	if got != `{"days": [{"date": "2026-03-02"}]}` {
		t.Errorf("unexpected payload: %s", got)
	}
}

func TestExtractJSONBracesInsideStrings(t *testing.T) {
	response := `{"note": "use {braces} and \"quotes\" freely", "n": 1}`
	got, err := ExtractJSON(response)
	if err != nil {
		t.Fatalf("ExtractJSON failed: %v", err)
	}
	if got != response {
		t.Errorf("unexpected payload: %s", got)
	}
}

func TestExtractJSONArray(t *testing.T) {
	got, err := ExtractJSON("The topics are: [\"algebra\", \"geometry\"]")
	if err != nil {
		t.Fatalf("ExtractJSON failed: %v", err)
	}
	if got != `["algebra", "geometry"]` {
		t.Errorf("unexpected payload: %s", got)
	}
}

func TestExtractJSONNoPayload(t *testing.T) {
	for _, response := range []string{"", "   ", "no json here", "{broken"} {
		if _, err := ExtractJSON(response); !errors.Is(err, ErrNoJSON) {
			t.Errorf("ExtractJSON(%q) error = %v, want ErrNoJSON", response, err)
		}
	}
}

func TestExtractJSONTo(t *testing.T) {
	var out struct {
		Answer     string  `json:"answer"`
		Confidence float64 `json:"confidence"`
	}
	response := "```\n{\"answer\": \"x = 4\", \"confidence\": 0.85}\n```"
	if err := ExtractJSONTo(response, &out); err != nil {
		t.Fatalf("ExtractJSONTo failed: %v", err)
	}
	if out.Answer != "x = 4" || out.Confidence != 0.85 {
		t.Errorf("unexpected result: %+v", out)
	}
}
