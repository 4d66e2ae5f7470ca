// Package pkg provides the libraries behind songsort, an interactive
// comparison-sort song ranker.
//
// # Overview
//
// A ranking session sorts a list of songs with a comparison sort whose
// comparisons are answered by a person. Every answer is kept in a ledger,
// and any comparison the ledger already implies by transitivity is answered
// without asking. The pkg directory is organized as:
//
//  1. [pref] - Preference graph utilities (closure, reduction, ordering)
//  2. [ledger] - Decision records and the inference cache
//  3. [engine] - Suspendable comparisons between a sort and the user
//  4. [strategy] - Merge sort and merge-insertion (Ford-Johnson)
//  5. [importer] - Reconciling decisions from earlier sessions
//  6. [session], [io], [catalog], [render], [cache] - Outer layers
//
// # Architecture
//
// The typical data flow:
//
//	catalog (songs)
//	     ↓
//	session → strategy.Sort → engine.Compare ⇄ user (Resolve)
//	                               ↓
//	                            ledger ← importer ← io.ReadText
//	                               ↓
//	                  ranking, io.WriteText, render.ToDOT
//
// # Quick Start
//
//	sess, _ := session.New(items, strategy.MergeInsertion{}, session.Options{})
//	sess.Start(ctx)
//	for !sess.Finished() {
//	    if req, ok := sess.Engine.Active(); ok {
//	        sess.Resolve(ask(req.Left, req.Right))
//	    }
//	    <-sess.Changed()
//	}
//	ranking, _ := sess.Result()
//
// [pref]: https://pkg.go.dev/github.com/matzehuels/songsort/pkg/pref
// [ledger]: https://pkg.go.dev/github.com/matzehuels/songsort/pkg/ledger
// [engine]: https://pkg.go.dev/github.com/matzehuels/songsort/pkg/engine
// [strategy]: https://pkg.go.dev/github.com/matzehuels/songsort/pkg/strategy
// [importer]: https://pkg.go.dev/github.com/matzehuels/songsort/pkg/importer
// [session]: https://pkg.go.dev/github.com/matzehuels/songsort/pkg/session
// [io]: https://pkg.go.dev/github.com/matzehuels/songsort/pkg/io
// [catalog]: https://pkg.go.dev/github.com/matzehuels/songsort/pkg/catalog
// [render]: https://pkg.go.dev/github.com/matzehuels/songsort/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/songsort/pkg/cache
package pkg
