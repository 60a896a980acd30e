// Package store persists scan history in SQLite so the CLI can show and
// act on the latest duplicate groups without re-scanning.
//
// Each completed scan is written as one row plus its groups and members;
// the newest scan is the authoritative result and older scans are pruned
// past the configured retention cap. Schema changes bump the version in
// schema.go; users clear the database to adopt the new schema.
package store
