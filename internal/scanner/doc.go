// Package scanner implements the duplicate-detection core: it fetches asset
// content with bounded concurrency, hashes each buffer, groups assets by
// digest, and publishes the resulting duplicate groups as an atomic
// snapshot.
//
// The Service is the single owner of scan state. One scan runs at a time;
// a scan request while one is running is a soft no-op. Group deletion is
// delegated to the library's atomic batch delete and followed by a fresh
// scan, since deletion invalidates the previous result's membership.
//
// Buffers are transient: each fetched buffer is reduced to a digest by the
// collector and dropped, so memory stays bounded regardless of library
// size.
package scanner
