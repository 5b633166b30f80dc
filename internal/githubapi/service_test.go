package githubapi_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/ghops/internal/githubapi"
)

const (
	testReleasesFirstPageConstant  = `[{"id":1,"name":"one","tag_name":"v1","created_at":"2024-01-01T00:00:00Z"},{"id":2,"name":"two","tag_name":"v2","created_at":"2024-02-01T00:00:00Z"}]`
	testReleasesSecondPageConstant = `[{"id":3,"name":"three","tag_name":"v3","created_at":"2024-03-01T00:00:00Z"}]`
	testIssuesPageConstant         = `[{"number":7,"title":"broken build","state":"open"}]`
	testBranchesPageConstant       = `[{"name":"main"},{"name":"dev"}]`
	testRepositoriesPageConstant   = `[{"name":"widget","full_name":"acme/widget","visibility":"public","default_branch":"main"}]`
	testSlashTagNameConstant       = "release/2024"
	testSlashBranchNameConstant    = "feature/login"
	testNewRepositoryNameConstant  = "gadget"
)

func TestListReleasesWalksPages(testInstance *testing.T) {
	httpClient := &stubHTTPClient{responses: []stubResponse{
		{statusCode: http.StatusOK, body: testReleasesFirstPageConstant},
		{statusCode: http.StatusOK, body: testReleasesSecondPageConstant},
	}}
	service, _ := newTestService(testInstance, httpClient)

	releases, listError := service.ListReleases(context.Background(), testOrganizationConstant, testRepositoryConstant)
	require.NoError(testInstance, listError)
	require.Len(testInstance, releases, 3)
	require.Equal(testInstance, int64(3), releases[2].Identifier)

	require.Len(testInstance, httpClient.requests, 2)

	firstRequest := httpClient.requests[0]
	require.Equal(testInstance, http.MethodGet, firstRequest.Method)
	require.Equal(testInstance, "/repos/acme/widget/releases", firstRequest.URL.Path)
	require.Equal(testInstance, "2", firstRequest.URL.Query().Get("per_page"))
	require.Equal(testInstance, "1", firstRequest.URL.Query().Get("page"))

	secondRequest := httpClient.requests[1]
	require.Equal(testInstance, "2", secondRequest.URL.Query().Get("page"))
}

func TestListOpenIssuesFiltersByState(testInstance *testing.T) {
	httpClient := &stubHTTPClient{responses: []stubResponse{
		{statusCode: http.StatusOK, body: testIssuesPageConstant},
	}}
	service, _ := newTestService(testInstance, httpClient)

	issues, listError := service.ListOpenIssues(context.Background(), testOrganizationConstant, testRepositoryConstant)
	require.NoError(testInstance, listError)
	require.Len(testInstance, issues, 1)
	require.Equal(testInstance, 7, issues[0].Number)

	require.Len(testInstance, httpClient.requests, 1)
	require.Equal(testInstance, "open", httpClient.requests[0].URL.Query().Get("state"))
}

func TestListBranchesDecodesNames(testInstance *testing.T) {
	httpClient := &stubHTTPClient{responses: []stubResponse{
		{statusCode: http.StatusOK, body: testBranchesPageConstant},
	}}
	service, _ := newTestService(testInstance, httpClient)

	branches, listError := service.ListBranches(context.Background(), testOrganizationConstant, testRepositoryConstant)
	require.NoError(testInstance, listError)
	require.Equal(testInstance, []githubapi.Branch{{Name: "main"}, {Name: "dev"}}, branches)
}

func TestListOrganizationRepositories(testInstance *testing.T) {
	httpClient := &stubHTTPClient{responses: []stubResponse{
		{statusCode: http.StatusOK, body: testRepositoriesPageConstant},
	}}
	service, _ := newTestService(testInstance, httpClient)

	repositories, listError := service.ListOrganizationRepositories(context.Background(), testOrganizationConstant)
	require.NoError(testInstance, listError)
	require.Len(testInstance, repositories, 1)
	require.Equal(testInstance, "widget", repositories[0].Name)
	require.Equal(testInstance, "/orgs/acme/repos", httpClient.requests[0].URL.Path)
}

func TestDeleteReleaseTargetsIdentifier(testInstance *testing.T) {
	httpClient := &stubHTTPClient{responses: []stubResponse{{statusCode: http.StatusNoContent}}}
	service, _ := newTestService(testInstance, httpClient)

	deletionError := service.DeleteRelease(context.Background(), testOrganizationConstant, testRepositoryConstant, 42)
	require.NoError(testInstance, deletionError)

	require.Len(testInstance, httpClient.requests, 1)
	require.Equal(testInstance, http.MethodDelete, httpClient.requests[0].Method)
	require.Equal(testInstance, "/repos/acme/widget/releases/42", httpClient.requests[0].URL.Path)
}

func TestDeleteTagEscapesName(testInstance *testing.T) {
	httpClient := &stubHTTPClient{responses: []stubResponse{{statusCode: http.StatusNoContent}}}
	service, _ := newTestService(testInstance, httpClient)

	deletionError := service.DeleteTag(context.Background(), testOrganizationConstant, testRepositoryConstant, testSlashTagNameConstant)
	require.NoError(testInstance, deletionError)

	require.Len(testInstance, httpClient.requests, 1)
	require.Equal(testInstance, "/repos/acme/widget/git/refs/tags/release%2F2024", httpClient.requests[0].URL.RawPath)
}

func TestDeleteBranchEscapesName(testInstance *testing.T) {
	httpClient := &stubHTTPClient{responses: []stubResponse{{statusCode: http.StatusNoContent}}}
	service, _ := newTestService(testInstance, httpClient)

	deletionError := service.DeleteBranch(context.Background(), testOrganizationConstant, testRepositoryConstant, testSlashBranchNameConstant)
	require.NoError(testInstance, deletionError)

	require.Len(testInstance, httpClient.requests, 1)
	require.Equal(testInstance, "/repos/acme/widget/git/refs/heads/feature%2Flogin", httpClient.requests[0].URL.RawPath)
}

func TestCloseIssuePatchesState(testInstance *testing.T) {
	httpClient := &stubHTTPClient{responses: []stubResponse{{statusCode: http.StatusOK, body: "{}"}}}
	service, _ := newTestService(testInstance, httpClient)

	closeError := service.CloseIssue(context.Background(), testOrganizationConstant, testRepositoryConstant, 7)
	require.NoError(testInstance, closeError)

	require.Len(testInstance, httpClient.requests, 1)
	require.Equal(testInstance, http.MethodPatch, httpClient.requests[0].Method)
	require.Equal(testInstance, "/repos/acme/widget/issues/7", httpClient.requests[0].URL.Path)
	require.JSONEq(testInstance, `{"state":"closed"}`, httpClient.bodies[0])
}

func TestSetRepositoryVisibilityPatchesVisibility(testInstance *testing.T) {
	httpClient := &stubHTTPClient{responses: []stubResponse{{statusCode: http.StatusOK, body: "{}"}}}
	service, _ := newTestService(testInstance, httpClient)

	visibilityError := service.SetRepositoryVisibility(context.Background(), testOrganizationConstant, testRepositoryConstant, githubapi.VisibilityPrivate)
	require.NoError(testInstance, visibilityError)

	require.Len(testInstance, httpClient.requests, 1)
	require.Equal(testInstance, http.MethodPatch, httpClient.requests[0].Method)
	require.Equal(testInstance, "/repos/acme/widget", httpClient.requests[0].URL.Path)
	require.JSONEq(testInstance, `{"visibility":"private"}`, httpClient.bodies[0])
}

func TestRenameRepositoryPatchesName(testInstance *testing.T) {
	httpClient := &stubHTTPClient{responses: []stubResponse{{statusCode: http.StatusOK, body: "{}"}}}
	service, _ := newTestService(testInstance, httpClient)

	renameError := service.RenameRepository(context.Background(), testOrganizationConstant, testRepositoryConstant, testNewRepositoryNameConstant)
	require.NoError(testInstance, renameError)

	require.Len(testInstance, httpClient.requests, 1)
	require.JSONEq(testInstance, `{"name":"gadget"}`, httpClient.bodies[0])
}

func TestTagReferenceTagName(testInstance *testing.T) {
	tagReference := githubapi.TagReference{Reference: "refs/tags/v1.2.3"}
	require.Equal(testInstance, "v1.2.3", tagReference.TagName())
}

func TestReleaseDisplayNameFallsBackToTag(testInstance *testing.T) {
	require.Equal(testInstance, "named", githubapi.Release{Name: "named", TagName: "v1"}.DisplayName())
	require.Equal(testInstance, "v1", githubapi.Release{TagName: "v1"}.DisplayName())
}
