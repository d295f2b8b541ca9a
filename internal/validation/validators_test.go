package validation

import "testing"

func TestValidateMood(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   string
		wantErr bool
	}{
		{"stressed", false},
		{"energized", false},
		{"calm", false},
		{"furious", true},
		{"", true},
		{"Stressed", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()
			err := ValidateMood(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMood(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   string
		wantErr bool
	}{
		{"mindfulness", false},
		{"physical", false},
		{"social", false},
		{"finance", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()
			err := ValidateCategory(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCategory(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims whitespace", "  hello  ", "hello"},
		{"keeps newline and tab", "a\n\tb", "a\n\tb"},
		{"strips control chars", "a\x00b\x1fc", "abc"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeText(tt.input); got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStructValidationWithCustomTags(t *testing.T) {
	t.Parallel()

	type request struct {
		Mood     string `validate:"required,mood"`
		Category string `validate:"omitempty,habit_category"`
	}

	tests := []struct {
		name    string
		req     request
		wantErr bool
	}{
		{"valid", request{Mood: "happy", Category: "social"}, false},
		{"empty category ok", request{Mood: "tired"}, false},
		{"bad mood", request{Mood: "furious"}, true},
		{"bad category", request{Mood: "happy", Category: "finance"}, true},
		{"missing mood", request{Category: "social"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Validate.Struct(tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate.Struct(%+v) error = %v, wantErr %v", tt.req, err, tt.wantErr)
			}
		})
	}
}
