package githubapi

import (
	"strings"
	"time"
)

const (
	tagReferencePrefixConstant = "refs/tags/"
)

// RepositoryVisibility enumerates supported repository visibility values.
type RepositoryVisibility string

// Repository visibility enumerations.
const (
	VisibilityPrivate  RepositoryVisibility = "private"
	VisibilityPublic   RepositoryVisibility = "public"
	VisibilityInternal RepositoryVisibility = "internal"
)

// IssueState enumerates GitHub issue states.
type IssueState string

// Issue state enumerations.
const (
	IssueStateOpen   IssueState = "open"
	IssueStateClosed IssueState = "closed"
)

// Repository describes a repository returned by the GitHub API.
type Repository struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Visibility    string `json:"visibility"`
	DefaultBranch string `json:"default_branch"`
}

// Release describes a published release.
type Release struct {
	Identifier int64     `json:"id"`
	Name       string    `json:"name"`
	TagName    string    `json:"tag_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// DisplayName prefers the release name, falling back to the tag name.
func (release Release) DisplayName() string {
	if len(strings.TrimSpace(release.Name)) > 0 {
		return release.Name
	}
	return release.TagName
}

// TagReference describes a git tag ref entry.
type TagReference struct {
	Reference string `json:"ref"`
}

// TagName strips the refs/tags/ prefix from the reference.
func (tagReference TagReference) TagName() string {
	return strings.TrimPrefix(tagReference.Reference, tagReferencePrefixConstant)
}

// Branch describes a repository branch.
type Branch struct {
	Name string `json:"name"`
}

// Issue describes a repository issue.
type Issue struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	State  string `json:"state"`
}
