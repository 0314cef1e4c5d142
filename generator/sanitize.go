package generator

import (
	"regexp"
	"strings"
)

const maxObjectiveLength = 2000

var (
	controlChars = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
	multiSpace   = regexp.MustCompile(`[ \t]+`)
)

// SanitizeObjective normalizes an objective before it is interpolated into
// a prompt. Control characters are stripped and runs of whitespace collapsed
// so the objective cannot smuggle in extra prompt structure.
func SanitizeObjective(objective string) (string, error) {
	cleaned := controlChars.ReplaceAllString(objective, "")
	cleaned = multiSpace.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return "", ErrMissingObjective
	}
	if len(cleaned) > maxObjectiveLength {
		return "", ErrObjectiveTooLong
	}
	return cleaned, nil
}

// sanitizeCredential flattens a credential value to a single clean line.
func sanitizeCredential(value string) string {
	cleaned := controlChars.ReplaceAllString(value, "")
	cleaned = strings.ReplaceAll(cleaned, "\n", " ")
	cleaned = strings.ReplaceAll(cleaned, "\r", " ")
	return strings.TrimSpace(cleaned)
}
