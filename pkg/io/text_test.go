package io

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/songsort/pkg/engine"
	serrors "github.com/matzehuels/songsort/pkg/errors"
	"github.com/matzehuels/songsort/pkg/importer"
	"github.com/matzehuels/songsort/pkg/pref"
)

func TestWriteText(t *testing.T) {
	decisions := []pref.Decision{
		{Ordinal: 1, Chosen: "Hey Jude", Rejected: "Let It Be", Kind: pref.Direct},
		{Chosen: "Help!", Rejected: "Yesterday", Kind: pref.Imported},
		{Chosen: "Hey Jude", Rejected: "Yesterday", Kind: pref.Inferred},
	}
	var buf bytes.Buffer
	if err := WriteText(&buf, decisions); err != nil {
		t.Fatal(err)
	}
	want := "1. Hey Jude > Let It Be\nI. Help! > Yesterday\n~. Hey Jude > Yesterday\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteText =\n%s\nwant\n%s", got, want)
	}
}

func TestReadText(t *testing.T) {
	items := []string{"Hey Jude", "Let It Be", "Yesterday", "A > B"}
	input := strings.Join([]string{
		"1. Hey Jude > Let It Be",
		"",
		"I. Let It Be > Yesterday",
		"Yesterday > A > B",
		"2. Hey Jude > Penny Lane",
		"just some text",
		"~. Hey Jude > Hey Jude",
	}, "\n")

	pairs, report, err := ReadText(strings.NewReader(input), items)
	if err != nil {
		t.Fatal(err)
	}
	want := []importer.Pair{
		{Chosen: "Hey Jude", Rejected: "Let It Be"},
		{Chosen: "Let It Be", Rejected: "Yesterday"},
		{Chosen: "Yesterday", Rejected: "A > B"},
	}
	if len(pairs) != len(want) {
		t.Fatalf("pairs = %v, want %v", pairs, want)
	}
	for i := range want {
		if pairs[i] != want[i] {
			t.Errorf("pairs[%d] = %v, want %v", i, pairs[i], want[i])
		}
	}
	if report.Lines != 6 || report.Parsed != 3 || len(report.Invalid) != 3 {
		t.Errorf("report = %+v, want 6 lines, 3 parsed, 3 invalid", report)
	}
	if got := report.Invalid[0]; got.Line != 5 || got.Reason != "unknown item" {
		t.Errorf("Invalid[0] = %+v, want line 5 unknown item", got)
	}
}

func TestReadTextLongLine(t *testing.T) {
	input := "1. A > B\n" + strings.Repeat("x", maxLineLength+1) + " > A\n2. B > C"
	pairs, report, err := ReadText(strings.NewReader(input), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 2 {
		t.Errorf("pairs = %v, want 2", pairs)
	}
	if len(report.Invalid) != 1 || report.Invalid[0].Line != 2 || report.Invalid[0].Reason != "line too long" {
		t.Errorf("Invalid = %+v, want line 2 too long", report.Invalid)
	}
}

func TestReadTextEmpty(t *testing.T) {
	for _, input := range []string{"", "\n\n", "nothing here"} {
		_, _, err := ReadText(strings.NewReader(input), nil)
		if !serrors.Is(err, serrors.ErrCodeInvalidFormat) {
			t.Errorf("ReadText(%q) err = %v, want INVALID_FORMAT", input, err)
		}
	}
}

func TestTextRoundTrip(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}
	src := engine.New(engine.Options{Clock: func() time.Time { return time.Unix(0, 0) }})
	for _, d := range [][2]string{{"a", "b"}, {"b", "c"}, {"a", "d"}, {"d", "e"}, {"c", "e"}} {
		if _, err := src.Record(d[0], d[1], pref.Direct); err != nil {
			t.Fatal(err)
		}
	}
	var direct []pref.Decision
	for _, d := range src.Decisions() {
		if d.Kind == pref.Direct {
			direct = append(direct, d)
		}
	}

	var buf bytes.Buffer
	if err := WriteText(&buf, direct); err != nil {
		t.Fatal(err)
	}
	pairs, _, err := ReadText(&buf, items)
	if err != nil {
		t.Fatal(err)
	}
	dst := engine.New(engine.Options{})
	sum, err := importer.Reconcile(context.Background(), dst, pairs, importer.Options{Items: items})
	if err != nil {
		t.Fatal(err)
	}
	if sum.Added != len(direct) {
		t.Errorf("added %d, want %d", sum.Added, len(direct))
	}

	for _, a := range items {
		for _, b := range items {
			if a == b {
				continue
			}
			want := pref.Reachable(src.Decisions(), a, b)
			if got := pref.Reachable(dst.Decisions(), a, b); got != want {
				t.Errorf("Reachable(%s, %s) = %v after round trip, want %v", a, b, got, want)
			}
		}
	}
}
