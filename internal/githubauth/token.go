// Package githubauth resolves GitHub API tokens from explicit values and the
// process environment.
package githubauth

import (
	"errors"
	"os"
	"strings"
)

// Environment variable names used by GitHub authentication helpers.
const (
	EnvGitHubCLIToken = "GH_TOKEN"
	EnvGitHubToken    = "GITHUB_TOKEN"
	EnvGitHubAPIToken = "GITHUB_API_TOKEN"
)

const tokenNotFoundMessageConstant = "github token not provided; use --token, configuration, or GH_TOKEN/GITHUB_TOKEN/GITHUB_API_TOKEN"

// ErrTokenNotFound indicates no token candidate produced a usable value.
var ErrTokenNotFound = errors.New(tokenNotFoundMessageConstant)

var tokenPreference = []string{
	EnvGitHubCLIToken,
	EnvGitHubToken,
	EnvGitHubAPIToken,
}

// EnvironmentLookup obtains an environment variable value.
type EnvironmentLookup func(key string) (string, bool)

// ResolveToken returns the first non-empty token among the explicit candidates,
// falling back to the well-known environment variables in preference order.
func ResolveToken(explicitCandidates []string, environmentLookup EnvironmentLookup) (string, error) {
	for _, candidate := range explicitCandidates {
		trimmedCandidate := strings.TrimSpace(candidate)
		if len(trimmedCandidate) > 0 {
			return trimmedCandidate, nil
		}
	}

	resolvedLookup := environmentLookup
	if resolvedLookup == nil {
		resolvedLookup = os.LookupEnv
	}

	for _, environmentKey := range tokenPreference {
		value, found := resolvedLookup(environmentKey)
		if !found {
			continue
		}
		trimmedValue := strings.TrimSpace(value)
		if len(trimmedValue) > 0 {
			return trimmedValue, nil
		}
	}

	return "", ErrTokenNotFound
}
