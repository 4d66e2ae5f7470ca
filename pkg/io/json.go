package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/matzehuels/songsort/pkg/pref"
)

var kindFromString = map[string]pref.Kind{
	"direct":   pref.Direct,
	"inferred": pref.Inferred,
	"imported": pref.Imported,
}

// Result is a finished ranking.
type Result struct {
	Strategy  string
	Ranking   []string
	Decisions []pref.Decision
	Completed int
	BestCase  int
	WorstCase int
}

type result struct {
	Strategy  string     `json:"strategy"`
	Ranking   []string   `json:"ranking"`
	Decisions []decision `json:"decisions"`
	Estimate  estimate   `json:"estimate"`
}

type decision struct {
	Ordinal   int    `json:"ordinal,omitempty"`
	Chosen    string `json:"chosen"`
	Rejected  string `json:"rejected"`
	Kind      string `json:"kind"`
	ElapsedMS int64  `json:"elapsed_ms,omitempty"`
}

type estimate struct {
	Completed int `json:"completed"`
	Best      int `json:"best"`
	Worst     int `json:"worst"`
}

// WriteJSON encodes res as indented JSON and writes it to w.
func WriteJSON(w io.Writer, res Result) error {
	out := result{
		Strategy:  res.Strategy,
		Ranking:   res.Ranking,
		Decisions: make([]decision, len(res.Decisions)),
		Estimate:  estimate{Completed: res.Completed, Best: res.BestCase, Worst: res.WorstCase},
	}
	if out.Ranking == nil {
		out.Ranking = []string{}
	}
	for i, d := range res.Decisions {
		out.Decisions[i] = decision{
			Ordinal:   d.Ordinal,
			Chosen:    d.Chosen,
			Rejected:  d.Rejected,
			Kind:      d.Kind.String(),
			ElapsedMS: d.Elapsed.Milliseconds(),
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a result written by [WriteJSON]. Unknown decision kinds
// are an error. ReadJSON does not close r.
func ReadJSON(r io.Reader) (Result, error) {
	var data result
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return Result{}, fmt.Errorf("decode: %w", err)
	}
	res := Result{
		Strategy:  data.Strategy,
		Ranking:   data.Ranking,
		Decisions: make([]pref.Decision, len(data.Decisions)),
		Completed: data.Estimate.Completed,
		BestCase:  data.Estimate.Best,
		WorstCase: data.Estimate.Worst,
	}
	for i, d := range data.Decisions {
		kind, ok := kindFromString[d.Kind]
		if !ok {
			return Result{}, fmt.Errorf("decision %d: unknown kind %q", i+1, d.Kind)
		}
		res.Decisions[i] = pref.Decision{
			Ordinal:  d.Ordinal,
			Chosen:   d.Chosen,
			Rejected: d.Rejected,
			Kind:     kind,
			Elapsed:  time.Duration(d.ElapsedMS) * time.Millisecond,
		}
	}
	return res, nil
}

// ExportJSON writes res to a JSON file at path.
func ExportJSON(res Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(f, res)
}

// ImportJSON reads a result from the JSON file at path.
func ImportJSON(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
