package diagparse

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultKeywords is the keyword gate applied to header lines. Only
// diagnostics whose message text mentions one of these (case-insensitively)
// are in scope; everything else clang-tidy prints is ignored.
var DefaultKeywords = []string{"leak", "malloc", "free", "memory"}

// headerPattern matches `<file>:<line>:<col>: <severity>: <message>`.
// The file group is non-greedy so it stops at the first :digits:digits:
// sequence.
var headerPattern = regexp.MustCompile(`(?i)^(.*?):(\d+):(\d+):\s+(warning|note|error):\s+(.*)$`)

// Classifier decides whether a single line of analyzer output opens a new
// diagnostic. It is stateless: the verdict is purely a function of the line.
type Classifier struct {
	keywords []string // lowercased
}

// NewClassifier creates a classifier with the given keyword gate.
// An empty keyword list falls back to DefaultKeywords.
func NewClassifier(keywords []string) *Classifier {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	lowered := make([]string, len(keywords))
	for i, kw := range keywords {
		lowered[i] = strings.ToLower(kw)
	}
	return &Classifier{keywords: lowered}
}

// MatchHeader reports whether the line is structurally header-shaped,
// without applying the keyword gate. Lines whose line or column fields do
// not parse as positive integers are not headers; that is an expected
// non-match for unrelated output, never an error.
func (c *Classifier) MatchHeader(line string) (Header, bool) {
	h, _, ok := matchHeader(line)
	return h, ok
}

// Classify reports whether the line opens a new diagnostic: it must be
// header-shaped and its message must pass the keyword gate. The returned
// header carries the leftmost matching keyword.
func (c *Classifier) Classify(line string) (Header, bool) {
	h, msg, ok := matchHeader(line)
	if !ok {
		return Header{}, false
	}

	kw, ok := c.firstKeyword(strings.ToLower(msg))
	if !ok {
		return Header{}, false
	}
	h.Keyword = kw

	return h, true
}

func matchHeader(line string) (Header, string, bool) {
	m := headerPattern.FindStringSubmatch(line)
	if m == nil {
		return Header{}, "", false
	}

	lineNum, err := strconv.Atoi(m[2])
	if err != nil || lineNum < 1 {
		return Header{}, "", false
	}
	colNum, err := strconv.Atoi(m[3])
	if err != nil || colNum < 1 {
		return Header{}, "", false
	}

	h := Header{
		File:     m[1],
		Line:     lineNum,
		Col:      colNum,
		Severity: strings.ToLower(m[4]),
	}
	return h, m[5], true
}

// firstKeyword returns the keyword with the leftmost occurrence in the
// (already lowercased) message. Ties go to keyword list order.
func (c *Classifier) firstKeyword(msg string) (string, bool) {
	best := -1
	var found string
	for _, kw := range c.keywords {
		idx := strings.Index(msg, kw)
		if idx < 0 {
			continue
		}
		if best < 0 || idx < best {
			best = idx
			found = kw
		}
	}
	return found, best >= 0
}
