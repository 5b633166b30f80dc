package githubapi_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/ghops/internal/githubapi"
)

const (
	testTokenConstant              = "test-token"
	testOrganizationConstant       = "acme"
	testRepositoryConstant         = "widget"
	testTagNameConstant            = "v1.0.0"
	testAuthorizationHeaderValue   = "Bearer test-token"
	testAcceptHeaderValueConstant  = "application/vnd.github+json"
	testRetryAfterSecondsConstant  = "7"
	testNotFoundBodyConstant       = `{"message":"Not Found"}`
	testForbiddenBodyConstant      = `{"message":"Forbidden"}`
	testRetryBaseDelayConstant     = 2 * time.Second
	testExpectedRetryAfterDuration = 7 * time.Second
)

type stubResponse struct {
	statusCode int
	body       string
	header     http.Header
}

type stubHTTPClient struct {
	responses []stubResponse
	requests  []*http.Request
	bodies    []string
}

func (client *stubHTTPClient) Do(request *http.Request) (*http.Response, error) {
	requestBody := ""
	if request.Body != nil {
		bodyBytes, readError := io.ReadAll(request.Body)
		if readError != nil {
			return nil, readError
		}
		requestBody = string(bodyBytes)
	}

	client.requests = append(client.requests, request)
	client.bodies = append(client.bodies, requestBody)

	response := stubResponse{statusCode: http.StatusOK, body: "[]"}
	if len(client.responses) > 0 {
		response = client.responses[0]
		client.responses = client.responses[1:]
	}

	header := response.header
	if header == nil {
		header = http.Header{}
	}

	return &http.Response{
		StatusCode: response.statusCode,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(response.body)),
	}, nil
}

func newTestService(testInstance *testing.T, httpClient *stubHTTPClient) (*githubapi.RepositoryService, *[]time.Duration) {
	testInstance.Helper()

	service, creationError := githubapi.NewRepositoryService(nil, httpClient, githubapi.ServiceConfiguration{
		Token:          testTokenConstant,
		PageSize:       2,
		RetryBaseDelay: testRetryBaseDelayConstant,
	})
	require.NoError(testInstance, creationError)

	recordedDelays := &[]time.Duration{}
	service.SetSleeper(func(_ context.Context, delay time.Duration) error {
		*recordedDelays = append(*recordedDelays, delay)
		return nil
	})

	return service, recordedDelays
}

func TestNewRepositoryServiceRequiresToken(testInstance *testing.T) {
	_, creationError := githubapi.NewRepositoryService(nil, &stubHTTPClient{}, githubapi.ServiceConfiguration{})
	require.ErrorIs(testInstance, creationError, githubapi.ErrTokenMissing)
}

func TestRequestsCarryAuthenticationHeaders(testInstance *testing.T) {
	httpClient := &stubHTTPClient{responses: []stubResponse{{statusCode: http.StatusNoContent}}}
	service, _ := newTestService(testInstance, httpClient)

	deletionError := service.DeleteTag(context.Background(), testOrganizationConstant, testRepositoryConstant, testTagNameConstant)
	require.NoError(testInstance, deletionError)

	require.Len(testInstance, httpClient.requests, 1)
	request := httpClient.requests[0]
	require.Equal(testInstance, testAuthorizationHeaderValue, request.Header.Get("Authorization"))
	require.Equal(testInstance, testAcceptHeaderValueConstant, request.Header.Get("Accept"))
}

func TestRateLimitResponsesAreRetried(testInstance *testing.T) {
	testCases := []struct {
		name          string
		firstResponse stubResponse
		expectedDelay time.Duration
	}{
		{
			name:          "too_many_requests_uses_scaled_base_delay",
			firstResponse: stubResponse{statusCode: http.StatusTooManyRequests},
			expectedDelay: testRetryBaseDelayConstant,
		},
		{
			name: "retry_after_header_wins",
			firstResponse: stubResponse{
				statusCode: http.StatusTooManyRequests,
				header:     http.Header{"Retry-After": []string{testRetryAfterSecondsConstant}},
			},
			expectedDelay: testExpectedRetryAfterDuration,
		},
		{
			name: "secondary_rate_limit_forbidden",
			firstResponse: stubResponse{
				statusCode: http.StatusForbidden,
				header:     http.Header{"X-Ratelimit-Remaining": []string{"0"}},
			},
			expectedDelay: testRetryBaseDelayConstant,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			httpClient := &stubHTTPClient{responses: []stubResponse{
				testCase.firstResponse,
				{statusCode: http.StatusNoContent},
			}}
			service, recordedDelays := newTestService(subTest, httpClient)

			deletionError := service.DeleteTag(context.Background(), testOrganizationConstant, testRepositoryConstant, testTagNameConstant)
			require.NoError(subTest, deletionError)

			require.Len(subTest, httpClient.requests, 2)
			require.Equal(subTest, []time.Duration{testCase.expectedDelay}, *recordedDelays)
		})
	}
}

func TestRateLimitRetriesAreBounded(testInstance *testing.T) {
	httpClient := &stubHTTPClient{responses: []stubResponse{
		{statusCode: http.StatusTooManyRequests},
		{statusCode: http.StatusTooManyRequests},
		{statusCode: http.StatusTooManyRequests},
		{statusCode: http.StatusTooManyRequests},
	}}
	service, recordedDelays := newTestService(testInstance, httpClient)

	deletionError := service.DeleteTag(context.Background(), testOrganizationConstant, testRepositoryConstant, testTagNameConstant)

	var rateLimitError githubapi.RateLimitError
	require.ErrorAs(testInstance, deletionError, &rateLimitError)
	require.Equal(testInstance, 3, rateLimitError.Attempts)
	require.Len(testInstance, httpClient.requests, 3)

	// Backoff never decreases across attempts; no sleep after the final attempt.
	require.Equal(testInstance, []time.Duration{testRetryBaseDelayConstant, 2 * testRetryBaseDelayConstant}, *recordedDelays)
}

func TestNonRateLimitFailuresAreNotRetried(testInstance *testing.T) {
	testCases := []struct {
		name           string
		response       stubResponse
		expectedStatus int
	}{
		{
			name:           "not_found",
			response:       stubResponse{statusCode: http.StatusNotFound, body: testNotFoundBodyConstant},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "forbidden_without_rate_limit_headers",
			response:       stubResponse{statusCode: http.StatusForbidden, body: testForbiddenBodyConstant},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			httpClient := &stubHTTPClient{responses: []stubResponse{testCase.response}}
			service, recordedDelays := newTestService(subTest, httpClient)

			deletionError := service.DeleteTag(context.Background(), testOrganizationConstant, testRepositoryConstant, testTagNameConstant)

			var statusError githubapi.StatusError
			require.ErrorAs(subTest, deletionError, &statusError)
			require.Equal(subTest, testCase.expectedStatus, statusError.StatusCode)
			require.Len(subTest, httpClient.requests, 1)
			require.Empty(subTest, *recordedDelays)
		})
	}
}

func TestTransportFailuresAreWrapped(testInstance *testing.T) {
	transportFailure := errors.New("connection refused")

	failingClient := &failingHTTPClient{cause: transportFailure}
	failingService, creationError := githubapi.NewRepositoryService(nil, failingClient, githubapi.ServiceConfiguration{Token: testTokenConstant})
	require.NoError(testInstance, creationError)

	deletionError := failingService.DeleteTag(context.Background(), testOrganizationConstant, testRepositoryConstant, testTagNameConstant)

	var requestError githubapi.RequestError
	require.ErrorAs(testInstance, deletionError, &requestError)
	require.ErrorIs(testInstance, deletionError, transportFailure)
}

type failingHTTPClient struct {
	cause error
}

func (client *failingHTTPClient) Do(*http.Request) (*http.Response, error) {
	return nil, client.cause
}
