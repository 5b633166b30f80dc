// Package cleanup implements bulk repository cleanup operations: deleting
// stale releases, tags, and branches, and closing open issues. Selection is
// driven by an optional compact time frame (releases) and an optional cap on
// the number of mutations.
package cleanup
