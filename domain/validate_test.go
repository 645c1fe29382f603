package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"pgregory.net/rapid"
)

func TestValidateContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		want     string
		wantCode ErrorCode
	}{
		{name: "valid", content: "Buy milk", want: "Buy milk"},
		{name: "trims whitespace", content: "  Buy groceries  ", want: "Buy groceries"},
		{name: "minimum length", content: "ab", want: "ab"},
		{name: "maximum length", content: strings.Repeat("a", 2000), want: strings.Repeat("a", 2000)},
		{name: "multibyte minimum", content: "éé", want: "éé"},
		{name: "multibyte maximum", content: strings.Repeat("é", 2000), want: strings.Repeat("é", 2000)},
		{name: "multibyte over byte limit", content: strings.Repeat("é", 1001), want: strings.Repeat("é", 1001)},
		{name: "empty", content: "", wantCode: ErrCodeValidation},
		{name: "whitespace only", content: "   \n\t ", wantCode: ErrCodeValidation},
		{name: "too short", content: "a", wantCode: ErrCodeValidation},
		{name: "too short after trim", content: "  a  ", wantCode: ErrCodeValidation},
		{name: "single multibyte char", content: "é", wantCode: ErrCodeValidation},
		{name: "too long", content: strings.Repeat("a", 2001), wantCode: ErrCodeValidation},
		{name: "multibyte too long", content: strings.Repeat("é", 2001), wantCode: ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateContent(tt.content)
			if tt.wantCode != "" {
				if err == nil {
					t.Fatalf("ValidateContent(%q) succeeded, want %s", tt.content, tt.wantCode)
				}
				if !IsDomainError(err, tt.wantCode) {
					t.Errorf("error code = %s, want %s", CodeOf(err), tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateContent(%q) failed: %v", tt.content, err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateContentProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		body := rapid.StringMatching(`[a-zA-Z0-9 ]{2,200}`).Draw(rt, "body")
		trimmed := strings.TrimSpace(body)
		if len(trimmed) < MinContentLength {
			rt.Skip()
		}
		padded := "  " + body + "\t"

		got, err := ValidateContent(padded)
		if err != nil {
			rt.Fatalf("ValidateContent(%q) failed: %v", padded, err)
		}
		if got != trimmed {
			rt.Fatalf("got %q, want trimmed input %q", got, trimmed)
		}
	})
}

func TestValidateStatus(t *testing.T) {
	for _, status := range Statuses {
		if err := ValidateStatus(status); err != nil {
			t.Errorf("ValidateStatus(%q) failed: %v", status, err)
		}
	}

	tests := []struct {
		status   Status
		wantCode ErrorCode
	}{
		{"", ErrCodeMissingField},
		{"TODO", ErrCodeInvalidStatus},
		{"In-Progress", ErrCodeInvalidStatus},
		{"done", ErrCodeInvalidStatus},
		{"pending", ErrCodeInvalidStatus},
	}
	for _, tt := range tests {
		err := ValidateStatus(tt.status)
		if err == nil {
			t.Errorf("ValidateStatus(%q) succeeded, want %s", tt.status, tt.wantCode)
			continue
		}
		if !IsDomainError(err, tt.wantCode) {
			t.Errorf("ValidateStatus(%q) code = %s, want %s", tt.status, CodeOf(err), tt.wantCode)
		}
	}
}

func TestValidateID(t *testing.T) {
	if err := ValidateID(uuid.NewString()); err != nil {
		t.Errorf("valid uuid rejected: %v", err)
	}

	tests := []struct {
		id       string
		wantCode ErrorCode
	}{
		{"", ErrCodeMissingField},
		{"not-a-uuid", ErrCodeInvalidID},
		{"12345", ErrCodeInvalidID},
	}
	for _, tt := range tests {
		err := ValidateID(tt.id)
		if err == nil {
			t.Errorf("ValidateID(%q) succeeded, want %s", tt.id, tt.wantCode)
			continue
		}
		if !IsDomainError(err, tt.wantCode) {
			t.Errorf("ValidateID(%q) code = %s, want %s", tt.id, CodeOf(err), tt.wantCode)
		}
	}
}

func TestIsDuplicate(t *testing.T) {
	existing := []Task{
		{ID: "1", Content: "Buy milk"},
		{ID: "2", Content: "Walk the dog\nIn the morning"},
	}

	tests := []struct {
		name      string
		content   string
		excludeID string
		want      bool
	}{
		{name: "exact match", content: "Buy milk", want: true},
		{name: "case insensitive", content: "BUY MILK", want: true},
		{name: "first line only", content: "buy milk\nExtra details", want: true},
		{name: "matches multiline task", content: "walk the dog", want: true},
		{name: "different title", content: "Buy bread", want: false},
		{name: "excluded task", content: "Buy milk", excludeID: "1", want: false},
		{name: "whitespace padding", content: "   Buy milk   ", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDuplicate(tt.content, existing, tt.excludeID); got != tt.want {
				t.Errorf("IsDuplicate(%q, exclude=%q) = %v, want %v", tt.content, tt.excludeID, got, tt.want)
			}
		})
	}
}

func TestIsDuplicateEmptyFirstLine(t *testing.T) {
	existing := []Task{{ID: "1", Content: ""}}
	if IsDuplicate("", existing, "") {
		t.Error("empty first line must never count as a duplicate")
	}
	if IsDuplicate("\nSecond line only", existing, "") {
		t.Error("content reduced to an empty first line must never match")
	}
}

func TestIsDuplicateSymmetryProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := rapid.StringMatching(`[a-zA-Z ]{2,40}`).Draw(rt, "a")
		b := rapid.StringMatching(`[a-zA-Z ]{2,40}`).Draw(rt, "b")

		dupAB := IsDuplicate(a, []Task{{ID: "x", Content: b}}, "")
		dupBA := IsDuplicate(b, []Task{{ID: "x", Content: a}}, "")
		if dupAB != dupBA {
			rt.Fatalf("duplicate check not symmetric for %q / %q", a, b)
		}

		want := strings.EqualFold(FirstLine(a), FirstLine(b)) && FirstLine(a) != ""
		if dupAB != want {
			rt.Fatalf("IsDuplicate(%q, %q) = %v, want %v", a, b, dupAB, want)
		}
	})
}
