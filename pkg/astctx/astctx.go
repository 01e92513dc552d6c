// Package astctx extracts a short human-readable context string for a
// variable from a clang AST dump. It is a best-effort annotation layered on
// top of already-emitted leak records and never affects grouping.
package astctx

import (
	"fmt"
	"strings"
)

// Placeholder values returned when no specific context is found.
const (
	NoContext = "No AST context"
	BasicInfo = "Basic AST info available"
)

// allocationFuncs are the call names that mark an allocation site.
var allocationFuncs = []string{"malloc", "calloc", "free"}

// Extract scans the AST dump for nodes mentioning the given 1-based source
// line and summarizes the enclosing function, the variable's declared type,
// and any allocation call it finds. An empty dump yields NoContext; a dump
// with no matching nodes yields BasicInfo.
func Extract(astDump string, line int, varName string) string {
	if astDump == "" {
		return NoContext
	}

	lineTarget := fmt.Sprintf("line:%d", line)
	var info []string

	for _, dumpLine := range strings.Split(astDump, "\n") {
		if !strings.Contains(dumpLine, lineTarget) {
			continue
		}

		switch {
		case isFunctionDecl(dumpLine):
			if name := quotedSegment(dumpLine, 1); name != "" {
				info = append(info, "function: "+name)
			}
		case isVarDecl(dumpLine, varName):
			if typ := quotedSegmentFromEnd(dumpLine, 2); typ != "" {
				info = append(info, "type: "+typ)
			}
		case isAllocationCall(dumpLine):
			info = append(info, "allocation call found")
		}
	}

	if len(info) == 0 {
		return BasicInfo
	}
	return strings.Join(info, "; ")
}

func isFunctionDecl(line string) bool {
	return strings.Contains(line, "FunctionDecl") && strings.Contains(line, "'")
}

func isVarDecl(line, varName string) bool {
	return strings.Contains(line, "VarDecl") &&
		strings.Contains(line, varName) &&
		strings.Contains(line, "'")
}

func isAllocationCall(line string) bool {
	if !strings.Contains(line, "CallExpr") {
		return false
	}
	for _, fn := range allocationFuncs {
		if strings.Contains(line, fn) {
			return true
		}
	}
	return false
}

// quotedSegment returns the i-th segment of the line split on single
// quotes; i=1 is the content of the first quoted span.
func quotedSegment(line string, i int) string {
	parts := strings.Split(line, "'")
	if len(parts) <= i {
		return ""
	}
	return parts[i]
}

// quotedSegmentFromEnd returns the i-th segment counting from the end.
// Clang prints the declared type as the last quoted span of a VarDecl.
func quotedSegmentFromEnd(line string, i int) string {
	parts := strings.Split(line, "'")
	if len(parts) <= 2 {
		return ""
	}
	return parts[len(parts)-i]
}
