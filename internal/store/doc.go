// Package store exports HAR entries into a SQLite database for ad-hoc SQL.
//
// Each export run becomes one row in exports, identified by a UUIDv7, and
// its entries are flattened into the entries table:
//   - host, path and status are indexed columns
//   - headers are stored as JSON arrays of {name, value}
//   - bodies are stored as decoded text when they are text
//   - GraphQL operation name and type are filled for GraphQL requests
//
// # Ordering
//
// Exports are listed ORDER BY created_at ASC, id ASC COLLATE BINARY and
// entries ORDER BY idx ASC, so repeated reads return identical results.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
