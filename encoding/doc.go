// Package encoding implements the run-length encoding core of rlez.
//
// An encoded stream is a flat sequence of (symbol, count) pairs, two bytes per
// run, with counts in [1, 255]. A run longer than 255 bytes is written as
// saturated (symbol, 255) runs followed by the remainder, so a run of n bytes
// always has the same representation no matter how the input was split.
//
// # Windows and Partials
//
// EncodeWindow encodes one contiguous window of input in isolation and returns
// its Partial encoding. Windows can be encoded concurrently; they share nothing.
//
// # Merging
//
// Merge (and its incremental form, Merger) joins Partials of consecutive
// windows in stream order. When the last run accumulated so far and the first
// run of the next Partial carry the same symbol, the two halves of the split
// run are combined and re-split at 255. Merging is associative:
//
//	Merge(EncodeWindow(a), EncodeWindow(b)) == EncodeWindow(a ++ b)
//
// which is why the same operator serves both window-within-file and
// file-within-invocation joins.
//
// # Verification
//
// Runs iterates the runs of a stream, Expand reproduces the bytes a stream
// describes and Validate checks that a stream is well formed and canonical.
// They exist to verify encoder output; rlez does not ship a decompressor.
package encoding
