package diagparse

import "testing"

func TestClassify(t *testing.T) {
	c := NewClassifier(nil)

	tests := []struct {
		name  string
		line  string
		want  Header
		match bool
	}{
		{
			name: "warning with leak keyword",
			line: "a.c:10:3: warning: potential memory leak for 'buf'",
			want: Header{File: "a.c", Line: 10, Col: 3, Severity: "warning", Keyword: "memory"},

			match: true,
		},
		{
			name:  "note with malloc keyword",
			line:  "a.c:10:3: note: allocated here via 'malloc'",
			want:  Header{File: "a.c", Line: 10, Col: 3, Severity: "note", Keyword: "malloc"},
			match: true,
		},
		{
			name:  "error severity",
			line:  "src/util.c:7:1: error: double free detected",
			want:  Header{File: "src/util.c", Line: 7, Col: 1, Severity: "error", Keyword: "free"},
			match: true,
		},
		{
			name:  "uppercase severity and keyword",
			line:  "a.c:3:2: Warning: Memory LEAK here",
			want:  Header{File: "a.c", Line: 3, Col: 2, Severity: "warning", Keyword: "memory"},
			match: true,
		},
		{
			name:  "keyword gate rejects unrelated diagnostic",
			line:  "a.c:10:3: warning: unused variable 'x'",
			match: false,
		},
		{
			name:  "missing column",
			line:  "a.c:10: warning: memory leak",
			match: false,
		},
		{
			name:  "unknown severity keyword",
			line:  "a.c:10:3: remark: memory leak",
			match: false,
		},
		{
			name:  "plain text line",
			line:  "3 warnings generated.",
			match: false,
		},
		{
			name:  "empty line",
			line:  "",
			match: false,
		},
		{
			name:  "path with drive-style colon",
			line:  "C:/src/a.c:10:3: warning: memory leak",
			want:  Header{File: "C:/src/a.c", Line: 10, Col: 3, Severity: "warning", Keyword: "memory"},
			match: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.Classify(tt.line)
			if ok != tt.match {
				t.Fatalf("Classify(%q) match = %v, want %v", tt.line, ok, tt.match)
			}
			if !tt.match {
				return
			}
			if got != tt.want {
				t.Errorf("Classify(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestClassify_UnparsableIntegers(t *testing.T) {
	c := NewClassifier(nil)

	// A line number too large for int must be a quiet non-match, not an error.
	line := "a.c:99999999999999999999:3: warning: memory leak"
	if _, ok := c.Classify(line); ok {
		t.Errorf("Classify(%q) matched, want non-match", line)
	}
}

func TestClassify_CustomKeywords(t *testing.T) {
	c := NewClassifier([]string{"overflow"})

	if _, ok := c.Classify("a.c:1:1: warning: buffer overflow here"); !ok {
		t.Error("Custom keyword did not match")
	}
	if _, ok := c.Classify("a.c:1:1: warning: memory leak here"); ok {
		t.Error("Default keyword matched despite custom gate")
	}
}

func TestClassify_LeftmostKeywordWins(t *testing.T) {
	c := NewClassifier(nil)

	h, ok := c.Classify("a.c:1:1: warning: leak of memory from malloc")
	if !ok {
		t.Fatal("Expected a match")
	}
	if h.Keyword != "leak" {
		t.Errorf("Keyword = %q, want %q", h.Keyword, "leak")
	}
}

func TestMatchHeader_IgnoresKeywordGate(t *testing.T) {
	c := NewClassifier(nil)

	h, ok := c.MatchHeader("a.c:10:3: warning: unused variable 'x'")
	if !ok {
		t.Fatal("MatchHeader rejected a header-shaped line")
	}
	if h.File != "a.c" || h.Line != 10 || h.Col != 3 || h.Severity != "warning" {
		t.Errorf("MatchHeader = %+v", h)
	}
}
