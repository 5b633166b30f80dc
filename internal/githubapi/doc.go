// Package githubapi provides a typed client for the GitHub REST API.
//
// It defines the RepositoryService which performs paginated listing of
// releases, tags, branches, issues, and organization repositories, along with
// the delete and patch mutations used by the cleanup and change commands.
// Requests are paced through a client-side rate limiter and rate-limit
// responses are retried with bounded backoff.
package githubapi
