// Package encoding provides the per-kind column codecs used by journal
// snapshots:
//   - Ints: delta-of-delta encoding with variable-width buckets
//   - Floats: XOR encoding of successive IEEE-754 bit patterns
//   - Strings: dictionary encoding with varint references
//   - Bools: run-length encoding
//
// Every codec is self-delimiting: it starts with the element count and
// decoders report malformed input with ErrCorrupt.
package encoding
