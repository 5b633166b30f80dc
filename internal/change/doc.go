// Package change implements repository settings changes: switching visibility
// for one repository or every repository in an organization, and renaming a
// single repository.
package change
