package githubapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultServiceBaseURLConstant       = "https://api.github.com"
	defaultPageSizeConstant             = 50
	defaultRetryAttemptLimitConstant    = 3
	defaultRetryBaseDelayConstant       = 2 * time.Second
	maximumRetryDelayConstant           = 5 * time.Minute
	defaultRequestTimeoutConstant       = 30 * time.Second
	requestsPerSecondConstant           = 1
	requestBurstConstant                = 5
	authorizationHeaderNameConstant     = "Authorization"
	authorizationHeaderTemplateConstant = "Bearer %s"
	acceptHeaderNameConstant            = "Accept"
	acceptHeaderValueConstant           = "application/vnd.github+json"
	contentTypeHeaderNameConstant       = "Content-Type"
	contentTypeHeaderValueConstant      = "application/json"
	retryAfterHeaderNameConstant        = "Retry-After"
	rateLimitRemainingHeaderConstant    = "X-RateLimit-Remaining"
	rateLimitExhaustedHeaderValue       = "0"
	tokenMissingMessageConstant         = "github token must be provided"
	payloadEncodingMessageConstant      = "payload encoding failed"
	rateLimitedLogMessageConstant       = "rate limit response received"
	logFieldMethodConstant              = "method"
	logFieldPathConstant                = "path"
	logFieldAttemptConstant             = "attempt"
	logFieldDelaySecondsConstant        = "delay_seconds"
)

// ErrTokenMissing indicates the service was constructed without an API token.
var ErrTokenMissing = errors.New(tokenMissingMessageConstant)

// HTTPClient abstracts request execution for test substitution.
type HTTPClient interface {
	Do(request *http.Request) (*http.Response, error)
}

// Sleeper suspends execution for the backoff interval and honors context cancellation.
type Sleeper func(sleepContext context.Context, delay time.Duration) error

// ServiceConfiguration tunes the repository service transport behavior.
type ServiceConfiguration struct {
	BaseURL           string
	Token             string
	PageSize          int
	RetryAttemptLimit int
	RetryBaseDelay    time.Duration
}

// RepositoryService performs typed GitHub REST API operations.
type RepositoryService struct {
	logger         *zap.Logger
	httpClient     HTTPClient
	configuration  ServiceConfiguration
	requestLimiter *rate.Limiter
	sleeper        Sleeper
}

// NewRepositoryService constructs a repository service with defaulted collaborators.
func NewRepositoryService(logger *zap.Logger, httpClient HTTPClient, configuration ServiceConfiguration) (*RepositoryService, error) {
	if len(strings.TrimSpace(configuration.Token)) == 0 {
		return nil, ErrTokenMissing
	}

	resolvedLogger := logger
	if resolvedLogger == nil {
		resolvedLogger = zap.NewNop()
	}

	resolvedHTTPClient := httpClient
	if resolvedHTTPClient == nil {
		resolvedHTTPClient = &http.Client{Timeout: defaultRequestTimeoutConstant}
	}

	if len(strings.TrimSpace(configuration.BaseURL)) == 0 {
		configuration.BaseURL = defaultServiceBaseURLConstant
	}
	configuration.BaseURL = strings.TrimRight(configuration.BaseURL, "/")

	if configuration.PageSize <= 0 {
		configuration.PageSize = defaultPageSizeConstant
	}

	if configuration.RetryAttemptLimit <= 0 {
		configuration.RetryAttemptLimit = defaultRetryAttemptLimitConstant
	}

	if configuration.RetryBaseDelay <= 0 {
		configuration.RetryBaseDelay = defaultRetryBaseDelayConstant
	}

	service := &RepositoryService{
		logger:         resolvedLogger,
		httpClient:     resolvedHTTPClient,
		configuration:  configuration,
		requestLimiter: rate.NewLimiter(rate.Limit(requestsPerSecondConstant), requestBurstConstant),
		sleeper:        contextSleep,
	}

	return service, nil
}

// SetSleeper overrides the backoff sleep behavior. Intended for tests.
func (service *RepositoryService) SetSleeper(sleeper Sleeper) {
	if sleeper != nil {
		service.sleeper = sleeper
	}
}

// executeRequest performs one API call with rate-limit pacing and bounded retry.
func (service *RepositoryService) executeRequest(executionContext context.Context, method string, requestPath string, query url.Values, payload any) ([]byte, error) {
	var encodedPayload []byte
	if payload != nil {
		marshalledPayload, encodingError := json.Marshal(payload)
		if encodingError != nil {
			return nil, RequestError{Method: method, Path: requestPath, Cause: encodingError}
		}
		encodedPayload = marshalledPayload
	}

	requestURL := service.configuration.BaseURL + requestPath
	if len(query) > 0 {
		requestURL = requestURL + "?" + query.Encode()
	}

	for attempt := 1; attempt <= service.configuration.RetryAttemptLimit; attempt++ {
		if limiterError := service.requestLimiter.Wait(executionContext); limiterError != nil {
			return nil, RequestError{Method: method, Path: requestPath, Cause: limiterError}
		}

		var requestBody io.Reader
		if encodedPayload != nil {
			requestBody = bytes.NewReader(encodedPayload)
		}

		request, requestCreationError := http.NewRequestWithContext(executionContext, method, requestURL, requestBody)
		if requestCreationError != nil {
			return nil, RequestError{Method: method, Path: requestPath, Cause: requestCreationError}
		}

		request.Header.Set(authorizationHeaderNameConstant, fmt.Sprintf(authorizationHeaderTemplateConstant, service.configuration.Token))
		request.Header.Set(acceptHeaderNameConstant, acceptHeaderValueConstant)
		if encodedPayload != nil {
			request.Header.Set(contentTypeHeaderNameConstant, contentTypeHeaderValueConstant)
		}

		response, executionError := service.httpClient.Do(request)
		if executionError != nil {
			return nil, RequestError{Method: method, Path: requestPath, Cause: executionError}
		}

		responseBody, readError := io.ReadAll(response.Body)
		closeError := response.Body.Close()
		if readError != nil {
			return nil, RequestError{Method: method, Path: requestPath, Cause: readError}
		}
		if closeError != nil {
			return nil, RequestError{Method: method, Path: requestPath, Cause: closeError}
		}

		if isRateLimitResponse(response) {
			retryDelay := service.retryDelay(response, attempt)
			service.logger.Warn(
				rateLimitedLogMessageConstant,
				zap.String(logFieldMethodConstant, method),
				zap.String(logFieldPathConstant, requestPath),
				zap.Int(logFieldAttemptConstant, attempt),
				zap.Float64(logFieldDelaySecondsConstant, retryDelay.Seconds()),
			)

			if attempt == service.configuration.RetryAttemptLimit {
				break
			}

			if sleepError := service.sleeper(executionContext, retryDelay); sleepError != nil {
				return nil, RequestError{Method: method, Path: requestPath, Cause: sleepError}
			}
			continue
		}

		if response.StatusCode >= http.StatusOK && response.StatusCode < http.StatusMultipleChoices {
			return responseBody, nil
		}

		return nil, StatusError{
			Method:     method,
			Path:       requestPath,
			StatusCode: response.StatusCode,
			Body:       strings.TrimSpace(string(responseBody)),
		}
	}

	return nil, RateLimitError{Method: method, Path: requestPath, Attempts: service.configuration.RetryAttemptLimit}
}

// retryDelay honors Retry-After when present and otherwise scales the base
// delay by the attempt number so backoff never decreases.
func (service *RepositoryService) retryDelay(response *http.Response, attempt int) time.Duration {
	retryAfterValue := strings.TrimSpace(response.Header.Get(retryAfterHeaderNameConstant))
	if len(retryAfterValue) > 0 {
		if retryAfterSeconds, parseError := strconv.Atoi(retryAfterValue); parseError == nil && retryAfterSeconds > 0 {
			serverDelay := time.Duration(retryAfterSeconds) * time.Second
			if serverDelay > maximumRetryDelayConstant {
				return maximumRetryDelayConstant
			}
			return serverDelay
		}
	}

	scaledDelay := service.configuration.RetryBaseDelay * time.Duration(attempt)
	if scaledDelay > maximumRetryDelayConstant {
		return maximumRetryDelayConstant
	}
	return scaledDelay
}

// isRateLimitResponse recognizes primary and secondary rate-limit signals.
func isRateLimitResponse(response *http.Response) bool {
	if response.StatusCode == http.StatusTooManyRequests {
		return true
	}

	if response.StatusCode != http.StatusForbidden {
		return false
	}

	if len(strings.TrimSpace(response.Header.Get(retryAfterHeaderNameConstant))) > 0 {
		return true
	}

	return strings.TrimSpace(response.Header.Get(rateLimitRemainingHeaderConstant)) == rateLimitExhaustedHeaderValue
}

func contextSleep(sleepContext context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-sleepContext.Done():
		return sleepContext.Err()
	case <-timer.C:
		return nil
	}
}
