// Package protocol owns the core wire contract of the word-aligned TL format.
//
// Ownership boundary:
// - constructor tags and the closed kind set the dumper dispatches over
// - sentinel and typed decode errors
// - error classification for callers that report outcomes
//
// Subpackages own the primitives: wire (cursor), layer (version wrappers),
// gzipped (packed sub-streams) and dump (text rendering).
package protocol
