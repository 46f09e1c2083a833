package repl

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/dumbo/lang"
)

// exprParams lists parameter names of the expr-lang builtins offered in
// "let" expressions. A trailing "..." marks a variadic parameter.
var exprParams = map[string][]string{
	"len":        {"v"},
	"all":        {"array", "predicate"},
	"any":        {"array", "predicate"},
	"none":       {"array", "predicate"},
	"one":        {"array", "predicate"},
	"filter":     {"array", "predicate"},
	"map":        {"array", "mapper"},
	"find":       {"array", "predicate"},
	"count":      {"array", "predicate"},
	"sortBy":     {"array", "mapper"},
	"sort":       {"array"},
	"reverse":    {"array"},
	"first":      {"array"},
	"last":       {"array"},
	"sum":        {"array"},
	"min":        {"values..."},
	"max":        {"values..."},
	"abs":        {"n"},
	"join":       {"array", "separator"},
	"split":      {"string", "separator"},
	"replace":    {"string", "old", "new"},
	"repeat":     {"string", "n"},
	"trim":       {"string"},
	"trimPrefix": {"string", "prefix"},
	"trimSuffix": {"string", "suffix"},
	"upper":      {"string"},
	"lower":      {"string"},
	"hasPrefix":  {"string", "prefix"},
	"hasSuffix":  {"string", "suffix"},
	"indexOf":    {"string", "substring"},
	"int":        {"v"},
	"string":     {"v"},
	"toJSON":     {"v"},
	"type":       {"v"},
}

// keywordSyntax describes the statement forms. Upper-case parts are
// placeholders; the rest are literal keywords.
var keywordSyntax = map[string][]string{
	"if":    {"if", "COND", "do", "BODY", "endif"},
	"for":   {"for", "NAME", "in", "ITER", "do", "BODY", "endfor"},
	"print": {"print", "VALUE"},
}

var (
	signatureStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureName     = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	currentParamStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

// functionCall is the innermost call whose argument list holds the cursor.
type functionCall struct {
	name     string
	argIndex int
	inCall   bool
}

// detectFunctionCall finds the innermost unclosed call before cursor and
// the index of the argument being typed.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(max(cursor, 0), len(input))

	open, depth := -1, 0

	for i := cursor - 1; i >= 0 && open < 0; i-- {
		switch input[i] {
		case ')', ']':
			depth++
		case '(', '[':
			if depth == 0 && input[i] == '(' {
				open = i
			} else if depth > 0 {
				depth--
			}
		}
	}

	if open < 0 {
		return functionCall{}
	}

	name, _, _ := wordBounds(input[:open], open)
	if name == "" {
		return functionCall{}
	}

	call := functionCall{name: name, inCall: true}

	depth = 0

	for _, r := range input[open+1 : cursor] {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				call.argIndex++
			}
		}
	}

	return call
}

// renderSignatureHint renders name(params) with the parameter at argIndex
// highlighted. A variadic parameter stays highlighted for every later
// argument.
func renderSignatureHint(name string, params []string, argIndex int) string {
	var b strings.Builder

	b.WriteString(signatureName.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		current := i == argIndex ||
			(strings.HasSuffix(param, "...") && argIndex >= i)

		if current {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}

// statementKeyword returns the keyword of the statement under the cursor,
// and the keywords of its syntax typed after it. Statements are split at the
// last ";" of the open block.
func statementKeyword(input string, cursor int) (keyword string, seen []string) {
	cursor = min(max(cursor, 0), len(input))
	if !inBlock(input, cursor) {
		return "", nil
	}

	stmt := input[strings.LastIndex(input[:cursor], "{{")+2 : cursor]
	stmt = stmt[strings.LastIndex(stmt, ";")+1:]

	words := strings.FieldsFunc(stmt, func(r rune) bool { return !isIdentRune(r) })

	for i := len(words) - 1; i >= 0; i-- {
		syntax, ok := keywordSyntax[words[i]]
		if !ok {
			continue
		}

		for _, w := range words[i+1:] {
			if lang.IsKeyword(w) && slices.Contains(syntax, w) {
				seen = append(seen, w)
			}
		}

		if closer := syntax[len(syntax)-1]; slices.Contains(seen, closer) {
			return "", nil
		}

		return words[i], seen
	}

	return "", nil
}

// renderKeywordHint renders the syntax of keyword, highlighting the part
// that follows the last keyword already typed.
func renderKeywordHint(keyword string, seen []string) string {
	syntax := keywordSyntax[keyword]

	current := 1
	if len(seen) > 0 {
		current = slices.Index(syntax, seen[len(seen)-1]) + 1
	}

	parts := make([]string, len(syntax))

	for i, part := range syntax {
		switch {
		case i == current:
			parts[i] = currentParamStyle.Render(part)
		case i == 0:
			parts[i] = signatureName.Render(part)
		default:
			parts[i] = signatureStyle.Render(part)
		}
	}

	return strings.Join(parts, " ")
}
