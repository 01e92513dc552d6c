package diagparse

import "regexp"

// UnknownVarName is returned when no extraction strategy matches.
// Callers must treat it as a valid, expected outcome.
const UnknownVarName = "unknown"

// varNameStrategy is one pure extraction heuristic. The first capture
// group of the pattern is the candidate variable name.
type varNameStrategy struct {
	name    string
	pattern *regexp.Regexp
}

// varNameStrategies are tried in order against the full combined message;
// the first one that matches wins. Order matters: compiler-style quoted
// citations are by far the most reliable signal, a bare assignment is the
// weakest.
var varNameStrategies = []varNameStrategy{
	{
		name:    "quoted",
		pattern: regexp.MustCompile(`'([^']+)'`),
	},
	{
		name:    "allocation",
		pattern: regexp.MustCompile(`\b([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(?:malloc|calloc|realloc)\s*\(`),
	},
	{
		name:    "assignment",
		pattern: regexp.MustCompile(`\b([A-Za-z_][A-Za-z0-9_]*)\s*=[^=]`),
	},
}

// ExtractVarName pulls a best-effort variable name out of a block's
// combined message text. Returns UnknownVarName when nothing matches.
func ExtractVarName(rawMessage string) string {
	for _, s := range varNameStrategies {
		if m := s.pattern.FindStringSubmatch(rawMessage); m != nil {
			return m[1]
		}
	}
	return UnknownVarName
}
