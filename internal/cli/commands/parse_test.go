package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunParse_Stdin(t *testing.T) {
	cmd := NewParseCommand()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(sampleCapture))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var records []parsedRecord
	if err := json.Unmarshal(out.Bytes(), &records); err != nil {
		t.Fatalf("Output is not JSON: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Got %d records, want 2", len(records))
	}

	first := records[0]
	if first.Filename != "a.c" || first.Lnum != 9 || first.Col != 2 {
		t.Errorf("First record = %+v, want a.c:9:2", first)
	}
	if first.VarName != "buf" {
		t.Errorf("VarName = %q, want buf", first.VarName)
	}
	if !strings.Contains(first.RawMessage, "note: allocated here") {
		t.Errorf("RawMessage lost the note line: %q", first.RawMessage)
	}

	if records[1].VarName != "ptr" {
		t.Errorf("Second VarName = %q, want ptr", records[1].VarName)
	}
}

func TestRunParse_File(t *testing.T) {
	tmpDir := t.TempDir()
	capturePath := filepath.Join(tmpDir, "capture.txt")
	if err := os.WriteFile(capturePath, []byte(sampleCapture), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := NewParseCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{capturePath})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var records []parsedRecord
	if err := json.Unmarshal(out.Bytes(), &records); err != nil {
		t.Fatalf("Output is not JSON: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("Got %d records, want 2", len(records))
	}
}

func TestRunParse_MissingFile(t *testing.T) {
	cmd := NewParseCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"/no/such/capture.txt"})

	if err := cmd.Execute(); err == nil {
		t.Error("Execute() error = nil, want read error")
	}
}

func TestRunParse_EmptyInput(t *testing.T) {
	cmd := NewParseCommand()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "[]" {
		t.Errorf("Output = %q, want empty JSON array", got)
	}
}
