// Package har provides the HAR 1.2 (HTTP Archive) record model and loader.
//
// The types mirror the HAR 1.2 document structure field for field. Optional
// attributes are pointers so that absence can be told apart from a zero
// value; the filter engine relies on that distinction ("field absent").
//
// Records are read-only once loaded. Nothing in this package mutates an
// Entry after Parse returns, and callers are expected to treat entries the
// same way.
//
// Loading accepts:
//   - "-" for standard input
//   - plain JSON files
//   - gzip or zstd compressed files (detected by magic bytes)
//   - brotli compressed files (detected by the ".br" extension)
//   - doublestar glob patterns, whose matches are concatenated into one log
package har
