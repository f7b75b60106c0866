// Package selectors derives read-only views from store snapshots. Every
// function is pure, recomputed on each call, and returns an empty result for
// an empty or zero snapshot.
package selectors
