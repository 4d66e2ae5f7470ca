// Package pref provides the preference graph utilities behind songsort.
//
// A [Decision] records that one item (the chosen song) is preferred over
// another (the rejected song). Read as a directed edge chosen → rejected, a
// sequence of decisions forms the preference graph. This package computes
// derived views of that graph without ever storing it as ground truth:
//
//   - [TransitiveClosure]: every preference implied by transitivity
//   - [TransitiveReduction]: the minimal edge set with the same reachability
//   - [TopologicalSortItems] and [TopologicalSortPreferences]: Kahn ordering
//   - [Reachable] and [HasCycle]: cycle tests for import reconciliation
//
// All functions are pure: they never mutate their input and produce the same
// output for the same input sequence. Ties are broken by first-encountered
// order, so callers that keep decisions in ledger order get stable results.
//
// # Performance
//
// Closure and reduction use a dense boolean matrix and run in O(V³) time for
// V distinct items. Ranking sessions hold tens to low hundreds of songs, so
// the matrix stays small.
package pref
