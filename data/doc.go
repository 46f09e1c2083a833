// Package data loads variable bindings used to seed template evaluation.
//
// Bindings are written in the data language, a restricted form of the
// template language in which control blocks hold only literal assignments:
//
//	{{
//	  greeting := 'Hello';
//	  count := 3;
//	  names := ('Ada', 'Grace');
//	}}
//
// YAML and JSON documents whose top level is a mapping are accepted as well.
// Values must be booleans, integers, strings or lists of strings.
package data
