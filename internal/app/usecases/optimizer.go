package usecases

import (
	"regexp"
	"strings"

	"github.com/bigking1998/algo-trade-bot-sub010/internal/app/dto"
)

var spaceRuns = regexp.MustCompile(`  +`)

// optimize applies the selected textual pass to generated code. Passes
// operate purely on text and must never alter emitted semantics or
// identifiers:
//   - none: no-op
//   - basic: strip blank lines
//   - aggressive: additionally strip // comment lines, trailing comments,
//     and collapse interior whitespace runs
func optimize(code string, level dto.OptimizationLevel) string {
	switch level {
	case dto.OptimizationBasic:
		return stripBlankLines(code)
	case dto.OptimizationAggressive:
		return collapseWhitespace(stripComments(stripBlankLines(code)))
	default:
		return code
	}
}

func stripBlankLines(code string) string {
	lines := strings.Split(code, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n") + "\n"
}

// stripComments removes // comments. Graph names, labels and parameter
// values reach the output as quoted literals and may legally contain
// "//", so the scan tracks string state instead of a plain index search.
func stripComments(code string) string {
	lines := strings.Split(code, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if idx := commentStart(line); idx >= 0 {
			line = strings.TrimRight(line[:idx], " \t")
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n") + "\n"
}

// commentStart returns the index of the first "//" outside a double-quoted
// string literal, or -1. The generator emits literals with %q, so double
// quotes with backslash escapes are the only string form to honor.
func commentStart(line string) int {
	inString := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			if inString {
				i++
			}
		case '"':
			inString = !inString
		case '/':
			if !inString && i+1 < len(line) && line[i+1] == '/' {
				return i
			}
		}
	}
	return -1
}

// collapseWhitespace reduces runs of spaces beyond leading indentation.
func collapseWhitespace(code string) string {
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		indent := line[:len(line)-len(trimmed)]
		lines[i] = indent + spaceRuns.ReplaceAllString(trimmed, " ")
	}
	return strings.Join(lines, "\n")
}
