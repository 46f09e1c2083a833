package data

import (
	"io"
	"strings"

	"github.com/ardnew/dumbo/lang"
)

// Format writes frame in the data language, one assignment per line inside a
// single block. An empty frame writes nothing. The output parses back with
// [Parse] to an equal frame.
func Format(w io.Writer, frame *lang.Frame) error {
	if frame.Len() == 0 {
		return nil
	}

	var sb strings.Builder

	sb.WriteString("{{\n")

	for name, v := range frame.All() {
		sb.WriteString("  ")
		sb.WriteString(Assignment(name, v))
		sb.WriteString(";\n")
	}

	sb.WriteString("}}\n")

	_, err := io.WriteString(w, sb.String())

	return err
}

// Assignment returns the data-language form of a single binding, without a
// trailing separator.
func Assignment(name string, v lang.Value) string {
	return name + " := " + lang.LiteralSource(v)
}
