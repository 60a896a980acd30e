// Package hashing computes the content digests that drive duplicate
// detection. Two assets are duplicates exactly when their fetched bytes
// produce equal digests.
package hashing
