package lang

import (
	"bytes"
	"errors"
	"testing"
)

func FuzzParseString(f *testing.F) {
	for _, src := range roundTripSources {
		f.Add(src)
	}

	f.Add("{{")
	f.Add("{{'")
	f.Add("{{ a := (; }}")
	f.Add("}}{{}}")

	f.Fuzz(func(t *testing.T, src string) {
		prog, err := ParseString(t.Context(), src)
		if err != nil {
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("parse error %T is not a *ParseError", err)
			}

			_ = pe.Error()

			return
		}

		ev := NewEvaluator()
		_, _ = ev.Evaluate(t.Context(), prog)

		if d := ev.Scope().Depth(); d != 1 {
			t.Fatalf("scope depth after evaluation = %d", d)
		}
	})
}

func FuzzFormatRoundTrip(f *testing.F) {
	for _, src := range roundTripSources {
		f.Add(src)
	}

	f.Fuzz(func(t *testing.T, src string) {
		prog, err := ParseString(t.Context(), src)
		if err != nil {
			return
		}

		var buf bytes.Buffer
		if err := prog.Format(&buf, 0); err != nil {
			t.Fatal(err)
		}

		again, err := ParseString(t.Context(), buf.String())
		if err != nil {
			t.Fatalf("formatted source %q does not parse: %v", buf.String(), err)
		}

		want, wantErr := NewEvaluator().Evaluate(t.Context(), prog)
		got, gotErr := NewEvaluator().Evaluate(t.Context(), again)

		if (wantErr == nil) != (gotErr == nil) || got != want {
			t.Fatalf("output %q (%v), want %q (%v)", got, gotErr, want, wantErr)
		}
	})
}
