package usecases

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/bigking1998/algo-trade-bot-sub010/internal/app/dto"
)

// checkSyntax parses the generated source with a real JavaScript grammar.
// Generated output is treated as data until this verification step: a
// parse failure is a syntax-category compiler error naming the first
// malformed region.
func checkSyntax(ctx context.Context, code string) []dto.CompilerIssue {
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, []byte(code))
	if err != nil {
		return []dto.CompilerIssue{{
			Kind:    dto.CompilerIssueSyntax,
			Message: fmt.Sprintf("generated code could not be parsed: %v", err),
		}}
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil
	}

	var issues []dto.CompilerIssue
	collectParseErrors(root, code, &issues)
	if len(issues) == 0 {
		issues = append(issues, dto.CompilerIssue{
			Kind:    dto.CompilerIssueSyntax,
			Message: "generated code contains a syntax error",
		})
	}
	return issues
}

// collectParseErrors walks the tree for ERROR and missing nodes.
func collectParseErrors(n *sitter.Node, code string, issues *[]dto.CompilerIssue) {
	if n.IsError() || n.IsMissing() {
		point := n.StartPoint()
		*issues = append(*issues, dto.CompilerIssue{
			Kind: dto.CompilerIssueSyntax,
			Message: fmt.Sprintf("syntax error at line %d, column %d: %q",
				point.Row+1, point.Column+1, excerpt(code, n)),
		})
		return
	}
	if !n.HasError() {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		collectParseErrors(n.Child(i), code, issues)
	}
}

func excerpt(code string, n *sitter.Node) string {
	start, end := int(n.StartByte()), int(n.EndByte())
	if start > len(code) {
		return ""
	}
	if end > len(code) {
		end = len(code)
	}
	text := code[start:end]
	if len(text) > 40 {
		text = text[:40] + "..."
	}
	return text
}

// scanUnresolved is a coarse best-effort heuristic, not symbol resolution:
// a literal "undefined" token in the output usually means a node reference
// failed to resolve during emission. It only ever yields a warning.
func scanUnresolved(code string) []dto.CompilerIssue {
	if !strings.Contains(code, "undefined") {
		return nil
	}
	return []dto.CompilerIssue{{
		Kind:    dto.CompilerIssueSemantic,
		Message: "generated code contains 'undefined'; a node reference may be unresolved",
	}}
}
