package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/iyad07/micro-habit-coach-sub001/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums
	if err := Validate.RegisterValidation("mood", validateMood); err != nil {
		panic(fmt.Sprintf("failed to register mood validator: %v", err))
	}
	if err := Validate.RegisterValidation("habit_category", validateCategory); err != nil {
		panic(fmt.Sprintf("failed to register habit_category validator: %v", err))
	}
}

// validateMood validates that a string is a valid Mood enum value
func validateMood(fl validator.FieldLevel) bool {
	return models.Mood(fl.Field().String()).IsValid()
}

// validateCategory validates that a string is a valid Category enum value
func validateCategory(fl validator.FieldLevel) bool {
	return models.Category(fl.Field().String()).IsValid()
}

// SanitizeText sanitizes text input by trimming whitespace and removing
// control characters (newline and tab survive).
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateMood validates a mood string value
func ValidateMood(value string) error {
	if !models.Mood(value).IsValid() {
		return fmt.Errorf("invalid mood: %s (must be one of %s)", value, joinMoods())
	}
	return nil
}

// ValidateCategory validates a category string value
func ValidateCategory(value string) error {
	if !models.Category(value).IsValid() {
		return fmt.Errorf("invalid category: %s (must be one of %s)", value, joinCategories())
	}
	return nil
}

func joinMoods() string {
	names := make([]string, 0, len(models.Moods))
	for _, m := range models.Moods {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}

func joinCategories() string {
	names := make([]string, 0, len(models.Categories))
	for _, c := range models.Categories {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
