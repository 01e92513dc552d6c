package diagparse

import (
	"strings"
	"testing"
)

func TestParse_GroupsNotesWithWarning(t *testing.T) {
	input := strings.Join([]string{
		"a.c:10:3: warning: potential memory leak for 'buf'",
		"a.c:10:3: note: allocated here via 'malloc'",
		"a.c:22:1: warning: use of freed memory for 'ptr'",
	}, "\n")

	records := NewParser().Parse(input)

	if len(records) != 2 {
		t.Fatalf("Got %d records, want 2", len(records))
	}

	first := records[0]
	if first.Location.File != "a.c" || first.Lnum != 9 || first.Col != 2 {
		t.Errorf("First record location = %s:%d:%d, want a.c:9:2",
			first.Location.File, first.Lnum, first.Col)
	}
	if first.VarName != "buf" {
		t.Errorf("First VarName = %q, want %q", first.VarName, "buf")
	}
	wantRaw := "a.c:10:3: warning: potential memory leak for 'buf'\n" +
		"a.c:10:3: note: allocated here via 'malloc'"
	if first.RawMessage != wantRaw {
		t.Errorf("First RawMessage = %q, want %q", first.RawMessage, wantRaw)
	}

	second := records[1]
	if second.Location.File != "a.c" || second.Lnum != 21 || second.Col != 0 {
		t.Errorf("Second record location = %s:%d:%d, want a.c:21:0",
			second.Location.File, second.Lnum, second.Col)
	}
	if second.VarName != "ptr" {
		t.Errorf("Second VarName = %q, want %q", second.VarName, "ptr")
	}
}

func TestParse_ContinuationLinesWithoutLocation(t *testing.T) {
	input := strings.Join([]string{
		"a.c:5:2: warning: memory leak of 'p'",
		"    p = malloc(10);",
		"    ^",
	}, "\n")

	records := NewParser().Parse(input)

	if len(records) != 1 {
		t.Fatalf("Got %d records, want 1", len(records))
	}
	if !strings.Contains(records[0].RawMessage, "    ^") {
		t.Errorf("Continuation lines missing from RawMessage: %q", records[0].RawMessage)
	}
}

func TestParse_DedupSameLineDifferentColumns(t *testing.T) {
	input := strings.Join([]string{
		"a.c:10:3: warning: memory leak of 'first'",
		"b.c:1:1: warning: memory leak of 'other'",
		"a.c:10:7: warning: memory leak of 'second'",
	}, "\n")

	records := NewParser().Parse(input)

	if len(records) != 2 {
		t.Fatalf("Got %d records, want 2", len(records))
	}
	// First block at a.c:10 wins; the column-7 duplicate is suppressed.
	if records[0].VarName != "first" {
		t.Errorf("records[0].VarName = %q, want %q", records[0].VarName, "first")
	}
	if records[1].Location.File != "b.c" {
		t.Errorf("records[1].File = %q, want %q", records[1].Location.File, "b.c")
	}
}

func TestParse_FinalFlush(t *testing.T) {
	// Stream ends right after a header: the open block must still be emitted.
	records := NewParser().Parse("a.c:3:1: warning: memory leak of 'q'")

	if len(records) != 1 {
		t.Fatalf("Got %d records, want 1", len(records))
	}
	if records[0].Lnum != 2 || records[0].Col != 0 {
		t.Errorf("Record = %d:%d, want 2:0", records[0].Lnum, records[0].Col)
	}
}

func TestParse_KeywordGate(t *testing.T) {
	// Header-shaped but out of scope: no record, and the following note must
	// not be attached to anything.
	input := strings.Join([]string{
		"a.c:10:3: warning: unused variable 'x'",
		"a.c:10:3: note: declared here",
	}, "\n")

	if records := NewParser().Parse(input); len(records) != 0 {
		t.Errorf("Got %d records, want 0", len(records))
	}
}

func TestParse_ZeroBasedConversion(t *testing.T) {
	records := NewParser().Parse("a.c:12:5: warning: memory leak")

	if len(records) != 1 {
		t.Fatalf("Got %d records, want 1", len(records))
	}
	if records[0].Lnum != 11 {
		t.Errorf("Lnum = %d, want 11", records[0].Lnum)
	}
	if records[0].Col != 4 {
		t.Errorf("Col = %d, want 4", records[0].Col)
	}
	// The reported location stays 1-based.
	if records[0].Location.Line != 12 || records[0].Location.Col != 5 {
		t.Errorf("Location = %d:%d, want 12:5", records[0].Location.Line, records[0].Location.Col)
	}
}

func TestParse_RepeatedHeaderSameLocationContinuesBlock(t *testing.T) {
	input := strings.Join([]string{
		"a.c:10:3: warning: memory leak of 'buf'",
		"a.c:10:3: note: malloc called here",
		"a.c:10:3: note: never freed",
	}, "\n")

	records := NewParser().Parse(input)

	if len(records) != 1 {
		t.Fatalf("Got %d records, want 1", len(records))
	}
	if got := strings.Count(records[0].RawMessage, "\n"); got != 2 {
		t.Errorf("RawMessage has %d newlines, want 2: %q", got, records[0].RawMessage)
	}
}

func TestParse_PreambleNoiseDiscarded(t *testing.T) {
	input := strings.Join([]string{
		"Running clang-tidy...",
		"",
		"a.c:4:2: warning: memory leak of 'p'",
	}, "\n")

	records := NewParser().Parse(input)

	if len(records) != 1 {
		t.Fatalf("Got %d records, want 1", len(records))
	}
	if strings.Contains(records[0].RawMessage, "Running") {
		t.Errorf("Preamble noise leaked into RawMessage: %q", records[0].RawMessage)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	if records := NewParser().Parse(""); len(records) != 0 {
		t.Errorf("Got %d records, want 0", len(records))
	}
}

func TestParse_SameLineDifferentFilesNotDeduped(t *testing.T) {
	input := strings.Join([]string{
		"a.c:10:3: warning: memory leak of 'p'",
		"b.c:10:3: warning: memory leak of 'q'",
	}, "\n")

	if records := NewParser().Parse(input); len(records) != 2 {
		t.Errorf("Got %d records, want 2", len(records))
	}
}

func TestParse_FreshStatePerInvocation(t *testing.T) {
	p := NewParser()
	input := "a.c:10:3: warning: memory leak of 'p'"

	first := p.Parse(input)
	second := p.Parse(input)

	// seen locations must not carry over between runs.
	if len(first) != 1 || len(second) != 1 {
		t.Errorf("Got %d then %d records, want 1 and 1", len(first), len(second))
	}
}

func TestParse_RecordOrderFollowsStream(t *testing.T) {
	input := strings.Join([]string{
		"c.c:3:1: warning: memory leak of 'a'",
		"a.c:9:1: warning: memory leak of 'b'",
		"b.c:1:1: warning: memory leak of 'c'",
	}, "\n")

	records := NewParser().Parse(input)

	if len(records) != 3 {
		t.Fatalf("Got %d records, want 3", len(records))
	}
	for i, want := range []string{"c.c", "a.c", "b.c"} {
		if records[i].Location.File != want {
			t.Errorf("records[%d].File = %q, want %q", i, records[i].Location.File, want)
		}
	}
}
