package io

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/songsort/pkg/errors"
	"github.com/matzehuels/songsort/pkg/importer"
	"github.com/matzehuels/songsort/pkg/pref"
)

// maxLineLength bounds a single decision line. Longer lines are reported as
// invalid.
const maxLineLength = 64 << 10

const (
	markerImported = "I"
	markerInferred = "~"
	separator      = " > "
)

// LineError describes a line ReadText could not use.
type LineError struct {
	Line   int
	Text   string
	Reason string
}

func (e LineError) String() string { return fmt.Sprintf("line %d: %s", e.Line, e.Reason) }

// ParseReport summarizes ReadText.
type ParseReport struct {
	Lines   int
	Parsed  int
	Invalid []LineError
}

// WriteText writes one line per decision in the order given.
func WriteText(w io.Writer, decisions []pref.Decision) error {
	bw := bufio.NewWriter(w)
	for _, d := range decisions {
		if _, err := fmt.Fprintf(bw, "%s. %s%s%s\n", marker(d), d.Chosen, separator, d.Rejected); err != nil {
			return fmt.Errorf("write: %w", err)
		}
	}
	return bw.Flush()
}

func marker(d pref.Decision) string {
	switch d.Kind {
	case pref.Imported:
		return markerImported
	case pref.Inferred:
		return markerInferred
	}
	return strconv.Itoa(d.Ordinal)
}

// ReadText parses decision lines from r. If items is non-empty, both sides of
// every decision must be one of items. Blank lines are ignored.
//
// ReadText returns an INVALID_FORMAT error when no line yields a decision.
// Otherwise the unusable lines are listed in the report.
func ReadText(r io.Reader, items []string) ([]importer.Pair, ParseReport, error) {
	var known map[string]bool
	if len(items) > 0 {
		known = make(map[string]bool, len(items))
		for _, it := range items {
			known[it] = true
		}
	}

	var (
		pairs  []importer.Pair
		report ParseReport
	)
	br := bufio.NewReader(r)
	for n := 1; ; n++ {
		raw, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, report, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read decisions")
		}
		if line := strings.TrimSpace(raw); line != "" {
			report.Lines++
			if len(line) > maxLineLength {
				report.Invalid = append(report.Invalid, LineError{Line: n, Text: line[:80], Reason: "line too long"})
			} else if p, reason := parseLine(line, known); reason != "" {
				report.Invalid = append(report.Invalid, LineError{Line: n, Text: line, Reason: reason})
			} else {
				pairs = append(pairs, p)
				report.Parsed++
			}
		}
		if err == io.EOF {
			break
		}
	}
	if len(pairs) == 0 {
		return nil, report, errors.New(errors.ErrCodeInvalidFormat, "no decisions found in %d lines", report.Lines)
	}
	return pairs, report, nil
}

func parseLine(line string, known map[string]bool) (importer.Pair, string) {
	body := stripMarker(line)
	if !strings.Contains(body, separator) {
		return importer.Pair{}, fmt.Sprintf("missing %q", strings.TrimSpace(separator))
	}

	var candidates []importer.Pair
	for i := 0; i+len(separator) <= len(body); i++ {
		if body[i:i+len(separator)] != separator {
			continue
		}
		chosen := strings.TrimSpace(body[:i])
		rejected := strings.TrimSpace(body[i+len(separator):])
		if chosen == "" || rejected == "" {
			continue
		}
		candidates = append(candidates, importer.Pair{Chosen: chosen, Rejected: rejected})
	}
	if len(candidates) == 0 {
		return importer.Pair{}, "empty item"
	}
	if known == nil {
		return candidates[0], ""
	}
	for _, c := range candidates {
		if known[c.Chosen] && known[c.Rejected] {
			if c.Chosen == c.Rejected {
				return importer.Pair{}, "item compared with itself"
			}
			return c, ""
		}
	}
	return importer.Pair{}, "unknown item"
}

// stripMarker removes a leading "12.", "I." or "~." token.
func stripMarker(line string) string {
	tok, rest, ok := strings.Cut(line, ". ")
	if !ok {
		return line
	}
	if tok == markerImported || tok == markerInferred {
		return rest
	}
	if _, err := strconv.Atoi(tok); err == nil {
		return rest
	}
	return line
}
