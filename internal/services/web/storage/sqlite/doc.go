// Package sqlite provides the client state store backed by SQLite.
//
// Values are opaque strings keyed by (client id, key); the form state layer
// owns their encoding.
package sqlite
