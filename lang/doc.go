// Package lang implements the dumbo template language: a parser that turns
// source text into a syntax tree, and an evaluator that renders the tree
// against a chained variable scope.
//
// # Syntax
//
// Source text is output verbatim, except for control blocks delimited by
// "{{" and "}}". A block holds one or more statements separated by ";":
//
//	Hello {{ name := 'World'; print name . '!'; }}
//
// Informal EBNF:
//
//	program          → (TEXT | "{{" expressions_list "}}")*
//	expressions_list → statement (";" statement)* ";"?
//	statement        → assign | if_stmt | for_stmt | print_stmt
//	assign           → VARIABLE ":=" value
//	if_stmt          → "if" value "do" expressions_list "endif"
//	for_stmt         → "for" VARIABLE "in" (VARIABLE | list) "do" expressions_list "endfor"
//	print_stmt       → "print" value
//	list             → "(" (STRING ("," STRING)* ","?)? ")"
//
// Operators, loosest first, all left-associative:
//
//	.                string concatenation
//	or
//	and
//	< > = !=         comparison
//	+ -
//	* /              "/" rounds toward negative infinity
//
// Literals are integers (optionally preceded by "-"), single-quoted strings
// with the escapes \n, \t, \\ and \', true, false, and lists of strings.
// A parenthesized single string is a string; write ('a',) for a one-element
// list.
//
// # Scoping
//
// Every statement list opens a new scope frame. Reading a variable searches
// frames from the innermost outward; reading an unbound name fails with a
// [*BadReferenceError]. Assigning updates the innermost frame that already
// binds the name, or else creates it in the innermost frame. A for loop
// binds its variable in the enclosing frame, so the variable keeps its last
// value after the loop.
//
// # Usage
//
//	out, err := lang.Render(ctx, src, lang.WithData(frame))
//
// or, in stages:
//
//	prog, err := lang.NewParser().ParseString(ctx, src)
//	out, err := lang.NewEvaluator(lang.WithData(frame)).Evaluate(ctx, prog)
package lang
