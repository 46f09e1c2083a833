package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/expr-lang/expr/builtin"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/dumbo/lang"
)

// isIdentRune reports whether r may appear in an identifier. Every other rune
// delimits a completion word.
func isIdentRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// wordBounds returns the identifier under the cursor and its byte offsets in
// input. The word is empty when the cursor is not touching an identifier.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isIdentRune(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isIdentRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// inBlock reports whether offset lies inside an open control block, that is
// after a "{{" with no matching "}}" before offset.
func inBlock(input string, offset int) bool {
	prefix := input[:offset]

	open := strings.LastIndex(prefix, "{{")
	if open < 0 {
		return false
	}

	return !strings.Contains(prefix[open+2:], "}}")
}

// inString reports whether offset lies inside a single-quoted string of the
// block that starts before it.
func inString(input string, offset int) bool {
	prefix := input[strings.LastIndex(input[:offset], "{{")+2 : offset]

	quoted := false

	for i := 0; i < len(prefix); i++ {
		switch prefix[i] {
		case '\\':
			if quoted {
				i++
			}
		case '\'':
			quoted = !quoted
		}
	}

	return quoted
}

// evalCandidates returns the completion candidates for a template line with
// the word starting at wordStart.
func evalCandidates(input string, wordStart int, names []string) []string {
	if !inBlock(input, wordStart) || inString(input, wordStart) {
		return nil
	}

	candidates := slices.Clone(names)

	return append(candidates, lang.Keywords()...)
}

// exprBuiltinNames returns the names of the expr-lang builtin functions.
func exprBuiltinNames() []string {
	names := make([]string, 0, len(builtin.Builtins))
	for _, fn := range builtin.Builtins {
		if fn.Name != "" && !strings.HasPrefix(fn.Name, "$") {
			names = append(names, fn.Name)
		}
	}

	slices.Sort(names)

	return slices.Compact(names)
}

// ctrlCandidates returns the completion candidates for a command line with
// the word starting at wordStart. The first word completes to a command name;
// later words complete according to that command.
func ctrlCandidates(input string, wordStart int, names []string) []string {
	head := strings.TrimLeft(input[:wordStart], " \t")
	if head == "" {
		return commandNames()
	}

	cmd, args, _ := strings.Cut(head, " ")

	switch cmd {
	case "unset":
		return names

	case "set":
		// Only the name position of each assignment completes.
		stmt := args[strings.LastIndex(args, ";")+1:]
		if strings.Contains(stmt, ":=") {
			return nil
		}

		return names

	case "let":
		if !strings.Contains(args, "=") {
			return names
		}

		return append(slices.Clone(names), exprBuiltinNames()...)
	}

	return nil
}

// computeMatches returns the fuzzy matches, best first, for the word under
// the cursor together with the candidate list and the word's boundaries.
// An empty word has no matches.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, start, end := wordBounds(input, m.input.Position())
	if word == "" {
		return nil, nil, start, end
	}

	names := m.session.names()

	if m.mode == modeCtrl {
		candidates = ctrlCandidates(input, start, names)
	} else {
		candidates = evalCandidates(input, start, names)
	}

	if len(candidates) == 0 {
		return nil, nil, start, end
	}

	return fuzzy.Find(word, candidates), candidates, start, end
}

// renderCandidateBar builds the single-line completion bar, cut short with
// an ellipsis to fit in width. The selected candidate is highlighted while
// tab-cycling.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	reserve := lipgloss.Width(sep) + lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		item := renderCandidate(match, tabActive && i == suggIdx)

		need := lipgloss.Width(item)
		if i > 0 {
			need += lipgloss.Width(sep)
		}

		// Room for the ellipsis is kept unless this is the last candidate.
		room := width
		if i < len(matches)-1 {
			room -= reserve
		}

		if i > 0 && used+need > room {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(item)

		used += need
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched characters in bold.
// Keywords are dimmed and functions carry a "()" suffix.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base := suggestionStyle

	switch {
	case selected:
		base = selectedStyle
	case lang.IsKeyword(match.Str):
		base = keywordStyle
	}

	bold := base.Bold(true)

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(bold.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if isFunction(match.Str) {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}

// isFunction reports whether name is an expr-lang builtin function.
func isFunction(name string) bool {
	_, ok := builtin.Index[name]

	return ok
}
