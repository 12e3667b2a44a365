package dialogue

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrMissingField is returned when a template references a field the caller
// did not supply. Silent no-op substitution hides prompt bugs, so a missing
// field fails the render.
var ErrMissingField = errors.New("template field missing")

var placeholderRe = regexp.MustCompile(`\{([a-zA-Z_]+)\}`)

// Render substitutes every {name} placeholder in template with the matching
// entry of fields. An empty value is a valid substitution; an absent one is
// an error.
func Render(template string, fields map[string]string) (string, error) {
	var missing []string
	out := placeholderRe.ReplaceAllStringFunc(template, func(match string) string {
		name := placeholderRe.FindStringSubmatch(match)[1]
		value, ok := fields[name]
		if !ok {
			missing = append(missing, name)
			return match
		}
		return value
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %v", ErrMissingField, missing)
	}
	return out, nil
}
