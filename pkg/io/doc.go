// Package io reads and writes ranking decisions.
//
// # Text Format
//
// Decisions are exchanged as one line per preference:
//
//	I. Help! > Yesterday
//	1. Hey Jude > Let It Be
//	2. Let It Be > Yesterday
//	~. Hey Jude > Yesterday
//
// The token before the dot is the decision's ordinal for direct decisions,
// "I" for imported ones and "~" for inferred ones. The prefix is optional
// when reading. Titles may themselves contain " > "; when the set of known
// items is supplied, [ReadText] picks the split whose two sides are both
// known.
//
// Use [WriteText] to export a ledger and [ReadText] to parse one back. Lines
// that cannot be parsed are reported in the [ParseReport] rather than failing
// the whole read.
//
// # JSON Format
//
// [WriteJSON] emits the outcome of a finished ranking for other tools:
//
//	{
//	  "strategy": "merge-insertion",
//	  "ranking": ["Hey Jude", "Let It Be", "Yesterday"],
//	  "decisions": [
//	    {"ordinal": 1, "chosen": "Hey Jude", "rejected": "Let It Be", "kind": "direct", "elapsed_ms": 2140}
//	  ],
//	  "estimate": {"completed": 3, "best": 3, "worst": 3}
//	}
//
// [ReadJSON] decodes the same document, so a result can be re-imported with
// its decisions intact.
package io
