// Package library defines the asset-source collaborator the scan pipeline
// consumes: access requests, asset enumeration, tiered content fetches, and
// atomic batch deletion. Dir implements it over a plain photo directory;
// remote photo services implement the same interface.
package library
