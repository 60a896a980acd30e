// Command photodup finds and removes byte-identical photos in a library.
//
// A scan fetches every asset's content with bounded concurrency, hashes it,
// and records groups of identical assets in a local history database. The
// groups, delete, and status commands operate on the latest recorded scan.
package main
