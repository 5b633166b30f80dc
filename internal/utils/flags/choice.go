// Package flags provides helpers for rendering and validating enumerated
// command-line flag values.
package flags

import (
	"fmt"
	"strings"
)

const (
	choicePlaceholderPrefix   = "<"
	choicePlaceholderSuffix   = ">"
	choiceSeparatorLiteral    = "|"
	choiceUsageEmptyTemplate  = "`%s`"
	choiceUsageFullTemplate   = "`%s` %s"
	choiceInvalidTemplate     = "invalid value %q for --%s (expected one of %s)"
	choiceListJoinSeparator   = ", "
	choiceEmptyAllowedLiteral = ""
)

// FormatChoiceUsage builds a usage string listing the accepted options inside a placeholder.
func FormatChoiceUsage(choices []string, description string) string {
	placeholder := choicePlaceholderPrefix + strings.Join(normalizeChoices(choices), choiceSeparatorLiteral) + choicePlaceholderSuffix
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplate, placeholder, description)
}

// ValidateChoice ensures the supplied value matches one of the accepted options.
// An empty value is accepted when allowEmpty is set.
func ValidateChoice(flagName string, value string, choices []string, allowEmpty bool) (string, error) {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		if allowEmpty {
			return choiceEmptyAllowedLiteral, nil
		}
		return "", fmt.Errorf(choiceInvalidTemplate, value, flagName, strings.Join(normalizeChoices(choices), choiceListJoinSeparator))
	}

	normalizedValue := strings.ToLower(trimmedValue)
	for _, choice := range normalizeChoices(choices) {
		if normalizedValue == choice {
			return normalizedValue, nil
		}
	}

	return "", fmt.Errorf(choiceInvalidTemplate, value, flagName, strings.Join(normalizeChoices(choices), choiceListJoinSeparator))
}

func normalizeChoices(choices []string) []string {
	normalized := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))

	for _, choice := range choices {
		trimmedChoice := strings.ToLower(strings.TrimSpace(choice))
		if len(trimmedChoice) == 0 {
			continue
		}
		if _, exists := seen[trimmedChoice]; exists {
			continue
		}
		normalized = append(normalized, trimmedChoice)
		seen[trimmedChoice] = struct{}{}
	}

	return normalized
}
