package githubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const (
	perPageQueryParameterConstant     = "per_page"
	pageQueryParameterConstant        = "page"
	stateQueryParameterConstant       = "state"
	releasesEndpointTemplateConstant  = "/repos/%s/%s/releases"
	releaseEndpointTemplateConstant   = "/repos/%s/%s/releases/%d"
	tagRefsEndpointTemplateConstant   = "/repos/%s/%s/git/refs/tags"
	tagRefEndpointTemplateConstant    = "/repos/%s/%s/git/refs/tags/%s"
	branchesEndpointTemplateConstant  = "/repos/%s/%s/branches"
	branchRefEndpointTemplateConstant = "/repos/%s/%s/git/refs/heads/%s"
	issuesEndpointTemplateConstant    = "/repos/%s/%s/issues"
	issueEndpointTemplateConstant     = "/repos/%s/%s/issues/%d"
	repositoryEndpointTemplate        = "/repos/%s/%s"
	orgReposEndpointTemplateConstant  = "/orgs/%s/repos"
	decodingErrorTemplateConstant     = "%s response decoding failed: %w"
)

type issueStatePayload struct {
	State string `json:"state"`
}

type visibilityPayload struct {
	Visibility string `json:"visibility"`
}

type renamePayload struct {
	Name string `json:"name"`
}

// ListReleases enumerates every release of the repository.
func (service *RepositoryService) ListReleases(executionContext context.Context, organization string, repository string) ([]Release, error) {
	requestPath := fmt.Sprintf(releasesEndpointTemplateConstant, organization, repository)

	var releases []Release
	collectionError := service.collectPages(executionContext, requestPath, nil, func(pageBody []byte) (int, error) {
		var page []Release
		if decodingError := json.Unmarshal(pageBody, &page); decodingError != nil {
			return 0, fmt.Errorf(decodingErrorTemplateConstant, requestPath, decodingError)
		}
		releases = append(releases, page...)
		return len(page), nil
	})
	if collectionError != nil {
		return nil, collectionError
	}

	return releases, nil
}

// ListTags enumerates every tag ref of the repository.
func (service *RepositoryService) ListTags(executionContext context.Context, organization string, repository string) ([]TagReference, error) {
	requestPath := fmt.Sprintf(tagRefsEndpointTemplateConstant, organization, repository)

	var tagReferences []TagReference
	collectionError := service.collectPages(executionContext, requestPath, nil, func(pageBody []byte) (int, error) {
		var page []TagReference
		if decodingError := json.Unmarshal(pageBody, &page); decodingError != nil {
			return 0, fmt.Errorf(decodingErrorTemplateConstant, requestPath, decodingError)
		}
		tagReferences = append(tagReferences, page...)
		return len(page), nil
	})
	if collectionError != nil {
		return nil, collectionError
	}

	return tagReferences, nil
}

// ListBranches enumerates every branch of the repository.
func (service *RepositoryService) ListBranches(executionContext context.Context, organization string, repository string) ([]Branch, error) {
	requestPath := fmt.Sprintf(branchesEndpointTemplateConstant, organization, repository)

	var branches []Branch
	collectionError := service.collectPages(executionContext, requestPath, nil, func(pageBody []byte) (int, error) {
		var page []Branch
		if decodingError := json.Unmarshal(pageBody, &page); decodingError != nil {
			return 0, fmt.Errorf(decodingErrorTemplateConstant, requestPath, decodingError)
		}
		branches = append(branches, page...)
		return len(page), nil
	})
	if collectionError != nil {
		return nil, collectionError
	}

	return branches, nil
}

// ListOpenIssues enumerates every open issue of the repository.
func (service *RepositoryService) ListOpenIssues(executionContext context.Context, organization string, repository string) ([]Issue, error) {
	requestPath := fmt.Sprintf(issuesEndpointTemplateConstant, organization, repository)
	stateQuery := url.Values{stateQueryParameterConstant: []string{string(IssueStateOpen)}}

	var issues []Issue
	collectionError := service.collectPages(executionContext, requestPath, stateQuery, func(pageBody []byte) (int, error) {
		var page []Issue
		if decodingError := json.Unmarshal(pageBody, &page); decodingError != nil {
			return 0, fmt.Errorf(decodingErrorTemplateConstant, requestPath, decodingError)
		}
		issues = append(issues, page...)
		return len(page), nil
	})
	if collectionError != nil {
		return nil, collectionError
	}

	return issues, nil
}

// ListOrganizationRepositories enumerates every repository owned by the organization.
func (service *RepositoryService) ListOrganizationRepositories(executionContext context.Context, organization string) ([]Repository, error) {
	requestPath := fmt.Sprintf(orgReposEndpointTemplateConstant, organization)

	var repositories []Repository
	collectionError := service.collectPages(executionContext, requestPath, nil, func(pageBody []byte) (int, error) {
		var page []Repository
		if decodingError := json.Unmarshal(pageBody, &page); decodingError != nil {
			return 0, fmt.Errorf(decodingErrorTemplateConstant, requestPath, decodingError)
		}
		repositories = append(repositories, page...)
		return len(page), nil
	})
	if collectionError != nil {
		return nil, collectionError
	}

	return repositories, nil
}

// DeleteRelease removes a release by identifier.
func (service *RepositoryService) DeleteRelease(executionContext context.Context, organization string, repository string, releaseIdentifier int64) error {
	requestPath := fmt.Sprintf(releaseEndpointTemplateConstant, organization, repository, releaseIdentifier)
	_, executionError := service.executeRequest(executionContext, http.MethodDelete, requestPath, nil, nil)
	return executionError
}

// DeleteTag removes the git ref backing a tag.
func (service *RepositoryService) DeleteTag(executionContext context.Context, organization string, repository string, tagName string) error {
	requestPath := fmt.Sprintf(tagRefEndpointTemplateConstant, organization, repository, url.PathEscape(tagName))
	_, executionError := service.executeRequest(executionContext, http.MethodDelete, requestPath, nil, nil)
	return executionError
}

// DeleteBranch removes the git ref backing a branch.
func (service *RepositoryService) DeleteBranch(executionContext context.Context, organization string, repository string, branchName string) error {
	requestPath := fmt.Sprintf(branchRefEndpointTemplateConstant, organization, repository, url.PathEscape(branchName))
	_, executionError := service.executeRequest(executionContext, http.MethodDelete, requestPath, nil, nil)
	return executionError
}

// CloseIssue transitions an issue to the closed state.
func (service *RepositoryService) CloseIssue(executionContext context.Context, organization string, repository string, issueNumber int) error {
	requestPath := fmt.Sprintf(issueEndpointTemplateConstant, organization, repository, issueNumber)
	_, executionError := service.executeRequest(executionContext, http.MethodPatch, requestPath, nil, issueStatePayload{State: string(IssueStateClosed)})
	return executionError
}

// SetRepositoryVisibility patches the repository visibility.
func (service *RepositoryService) SetRepositoryVisibility(executionContext context.Context, organization string, repository string, visibility RepositoryVisibility) error {
	requestPath := fmt.Sprintf(repositoryEndpointTemplate, organization, repository)
	_, executionError := service.executeRequest(executionContext, http.MethodPatch, requestPath, nil, visibilityPayload{Visibility: string(visibility)})
	return executionError
}

// RenameRepository patches the repository name.
func (service *RepositoryService) RenameRepository(executionContext context.Context, organization string, repository string, newName string) error {
	requestPath := fmt.Sprintf(repositoryEndpointTemplate, organization, repository)
	_, executionError := service.executeRequest(executionContext, http.MethodPatch, requestPath, nil, renamePayload{Name: newName})
	return executionError
}

// collectPages walks the paginated endpoint until a short page signals exhaustion.
func (service *RepositoryService) collectPages(executionContext context.Context, requestPath string, baseQuery url.Values, appendPage func(pageBody []byte) (int, error)) error {
	for pageNumber := 1; ; pageNumber++ {
		pageQuery := url.Values{}
		for queryKey, queryValues := range baseQuery {
			pageQuery[queryKey] = queryValues
		}
		pageQuery.Set(perPageQueryParameterConstant, strconv.Itoa(service.configuration.PageSize))
		pageQuery.Set(pageQueryParameterConstant, strconv.Itoa(pageNumber))

		pageBody, executionError := service.executeRequest(executionContext, http.MethodGet, requestPath, pageQuery, nil)
		if executionError != nil {
			return executionError
		}

		itemCount, appendError := appendPage(pageBody)
		if appendError != nil {
			return appendError
		}

		if itemCount < service.configuration.PageSize {
			return nil
		}
	}
}
