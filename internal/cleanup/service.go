package cleanup

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/ghops/internal/githubapi"
	"github.com/temirov/ghops/internal/report"
)

const (
	resourceReleasesValueConstant           = "releases"
	resourceTagsValueConstant               = "tags"
	resourceBranchesValueConstant           = "branches"
	resourceIssuesValueConstant             = "issues"
	operationsMissingMessageConstant        = "github operations must be provided"
	organizationMissingMessageConstant      = "organization must be provided"
	repositoryMissingMessageConstant        = "repository must be provided"
	resourceInvalidTemplateConstant         = "unsupported cleanup resource %q"
	timeFrameResourceMessageConstant        = "--time-frame-gt applies only to releases"
	listFailureTemplateConstant             = "listing %s failed: %w"
	defaultBranchSkipDetailConstant         = "default branch"
	retainedDetailTemplateConstant          = "created %s, after cutoff %s"
	createdDetailTemplateConstant           = "created %s"
	cleanupStartedMessageConstant           = "cleanup started"
	itemDeletedMessageConstant              = "item deleted"
	itemClosedMessageConstant               = "item closed"
	itemSkippedMessageConstant              = "item skipped"
	itemFailedMessageConstant               = "item operation failed"
	limitReachedMessageConstant             = "mutation limit reached"
	logFieldResourceConstant                = "resource"
	logFieldOrganizationConstant            = "organization"
	logFieldRepositoryConstant              = "repository"
	logFieldItemConstant                    = "item"
	logFieldLimitConstant                   = "limit"
	logFieldCutoffConstant                  = "cutoff"
	logFieldErrorConstant                   = "error"
	timestampDetailLayoutConstant           = time.RFC3339
)

// Branch names never selected for deletion.
var excludedBranchNames = map[string]struct{}{
	"main":   {},
	"master": {},
}

// ResourceType enumerates cleanable repository resources.
type ResourceType string

// Cleanup resource enumerations.
const (
	ResourceReleases ResourceType = ResourceType(resourceReleasesValueConstant)
	ResourceTags     ResourceType = ResourceType(resourceTagsValueConstant)
	ResourceBranches ResourceType = ResourceType(resourceBranchesValueConstant)
	ResourceIssues   ResourceType = ResourceType(resourceIssuesValueConstant)
)

// ResourceTypeValues lists the accepted --type flag values.
func ResourceTypeValues() []string {
	return []string{
		resourceReleasesValueConstant,
		resourceTagsValueConstant,
		resourceBranchesValueConstant,
		resourceIssuesValueConstant,
	}
}

// ParseResourceType normalizes textual resource values.
func ParseResourceType(value string) (ResourceType, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(value))
	switch ResourceType(normalizedValue) {
	case ResourceReleases, ResourceTags, ResourceBranches, ResourceIssues:
		return ResourceType(normalizedValue), nil
	default:
		return "", fmt.Errorf(resourceInvalidTemplateConstant, value)
	}
}

// Clock abstracts time acquisition for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system time source.
type SystemClock struct{}

// Now returns the current system time in UTC.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// GitHubOperations is the API surface the cleanup service depends on.
type GitHubOperations interface {
	ListReleases(executionContext context.Context, organization string, repository string) ([]githubapi.Release, error)
	ListTags(executionContext context.Context, organization string, repository string) ([]githubapi.TagReference, error)
	ListBranches(executionContext context.Context, organization string, repository string) ([]githubapi.Branch, error)
	ListOpenIssues(executionContext context.Context, organization string, repository string) ([]githubapi.Issue, error)
	DeleteRelease(executionContext context.Context, organization string, repository string, releaseIdentifier int64) error
	DeleteTag(executionContext context.Context, organization string, repository string, tagName string) error
	DeleteBranch(executionContext context.Context, organization string, repository string, branchName string) error
	CloseIssue(executionContext context.Context, organization string, repository string, issueNumber int) error
}

// Options configures one cleanup run.
type Options struct {
	Organization string
	Repository   string
	Resource     ResourceType
	TimeFrame    *TimeFrame
	Limit        int
	DryRun       bool
}

// Result aggregates the per-item outcomes of a cleanup run.
type Result struct {
	Outcomes      []report.Outcome
	MutationCount int
	FailureCount  int
	SkippedCount  int
}

// Service executes cleanup operations against the GitHub API.
type Service struct {
	logger     *zap.Logger
	operations GitHubOperations
	clock      Clock
}

// NewService constructs a cleanup service.
func NewService(logger *zap.Logger, operations GitHubOperations, clock Clock) (*Service, error) {
	if operations == nil {
		return nil, errors.New(operationsMissingMessageConstant)
	}

	resolvedLogger := logger
	if resolvedLogger == nil {
		resolvedLogger = zap.NewNop()
	}

	resolvedClock := clock
	if resolvedClock == nil {
		resolvedClock = SystemClock{}
	}

	return &Service{logger: resolvedLogger, operations: operations, clock: resolvedClock}, nil
}

// Cleanup lists the requested resource and applies the matching mutation per
// item. Individual failures are recorded and do not abort the run.
func (service *Service) Cleanup(executionContext context.Context, options Options) (Result, error) {
	if validationError := validateOptions(options); validationError != nil {
		return Result{}, validationError
	}

	service.logger.Info(
		cleanupStartedMessageConstant,
		zap.String(logFieldResourceConstant, string(options.Resource)),
		zap.String(logFieldOrganizationConstant, options.Organization),
		zap.String(logFieldRepositoryConstant, options.Repository),
		zap.Int(logFieldLimitConstant, options.Limit),
	)

	switch options.Resource {
	case ResourceReleases:
		return service.cleanupReleases(executionContext, options)
	case ResourceTags:
		return service.cleanupTags(executionContext, options)
	case ResourceBranches:
		return service.cleanupBranches(executionContext, options)
	case ResourceIssues:
		return service.cleanupIssues(executionContext, options)
	default:
		return Result{}, fmt.Errorf(resourceInvalidTemplateConstant, options.Resource)
	}
}

func validateOptions(options Options) error {
	if len(strings.TrimSpace(options.Organization)) == 0 {
		return errors.New(organizationMissingMessageConstant)
	}
	if len(strings.TrimSpace(options.Repository)) == 0 {
		return errors.New(repositoryMissingMessageConstant)
	}
	if options.TimeFrame != nil && options.Resource != ResourceReleases {
		return errors.New(timeFrameResourceMessageConstant)
	}
	if _, parseError := ParseResourceType(string(options.Resource)); parseError != nil {
		return parseError
	}
	return nil
}

func (service *Service) cleanupReleases(executionContext context.Context, options Options) (Result, error) {
	releases, listError := service.operations.ListReleases(executionContext, options.Organization, options.Repository)
	if listError != nil {
		return Result{}, fmt.Errorf(listFailureTemplateConstant, ResourceReleases, listError)
	}

	var cutoff *time.Time
	if options.TimeFrame != nil {
		cutoffValue := options.TimeFrame.CutoffFrom(service.clock.Now())
		cutoff = &cutoffValue
		service.logger.Info(
			cleanupStartedMessageConstant,
			zap.String(logFieldResourceConstant, string(ResourceReleases)),
			zap.String(logFieldCutoffConstant, cutoffValue.Format(timestampDetailLayoutConstant)),
		)
	}

	result := Result{}
	for _, release := range releases {
		if service.limitReached(&result, options) {
			break
		}

		if cutoff != nil && !release.CreatedAt.Before(*cutoff) {
			service.recordSkip(&result, ResourceReleases, release.DisplayName(), fmt.Sprintf(
				retainedDetailTemplateConstant,
				release.CreatedAt.Format(timestampDetailLayoutConstant),
				cutoff.Format(timestampDetailLayoutConstant),
			))
			continue
		}

		detail := fmt.Sprintf(createdDetailTemplateConstant, release.CreatedAt.Format(timestampDetailLayoutConstant))
		releaseIdentifier := release.Identifier
		service.applyMutation(&result, options, ResourceReleases, release.DisplayName(), detail, report.ActionDeleted, func() error {
			return service.operations.DeleteRelease(executionContext, options.Organization, options.Repository, releaseIdentifier)
		})
	}

	return result, nil
}

func (service *Service) cleanupTags(executionContext context.Context, options Options) (Result, error) {
	tagReferences, listError := service.operations.ListTags(executionContext, options.Organization, options.Repository)
	if listError != nil {
		return Result{}, fmt.Errorf(listFailureTemplateConstant, ResourceTags, listError)
	}

	result := Result{}
	for _, tagReference := range tagReferences {
		if service.limitReached(&result, options) {
			break
		}

		tagName := tagReference.TagName()
		service.applyMutation(&result, options, ResourceTags, tagName, "", report.ActionDeleted, func() error {
			return service.operations.DeleteTag(executionContext, options.Organization, options.Repository, tagName)
		})
	}

	return result, nil
}

func (service *Service) cleanupBranches(executionContext context.Context, options Options) (Result, error) {
	branches, listError := service.operations.ListBranches(executionContext, options.Organization, options.Repository)
	if listError != nil {
		return Result{}, fmt.Errorf(listFailureTemplateConstant, ResourceBranches, listError)
	}

	result := Result{}
	for _, branch := range branches {
		if service.limitReached(&result, options) {
			break
		}

		if _, isExcluded := excludedBranchNames[branch.Name]; isExcluded {
			service.recordSkip(&result, ResourceBranches, branch.Name, defaultBranchSkipDetailConstant)
			continue
		}

		branchName := branch.Name
		service.applyMutation(&result, options, ResourceBranches, branchName, "", report.ActionDeleted, func() error {
			return service.operations.DeleteBranch(executionContext, options.Organization, options.Repository, branchName)
		})
	}

	return result, nil
}

func (service *Service) cleanupIssues(executionContext context.Context, options Options) (Result, error) {
	issues, listError := service.operations.ListOpenIssues(executionContext, options.Organization, options.Repository)
	if listError != nil {
		return Result{}, fmt.Errorf(listFailureTemplateConstant, ResourceIssues, listError)
	}

	result := Result{}
	for _, issue := range issues {
		if service.limitReached(&result, options) {
			break
		}

		issueNumber := issue.Number
		itemLabel := strconv.Itoa(issueNumber)
		service.applyMutation(&result, options, ResourceIssues, itemLabel, issue.Title, report.ActionClosed, func() error {
			return service.operations.CloseIssue(executionContext, options.Organization, options.Repository, issueNumber)
		})
	}

	return result, nil
}

// applyMutation performs one mutating call (or records a dry-run plan) and
// captures the outcome. Failures count toward the mutation cap because a call
// was issued.
func (service *Service) applyMutation(result *Result, options Options, resource ResourceType, itemLabel string, detail string, successAction report.Action, mutation func() error) {
	if options.DryRun {
		result.MutationCount++
		result.Outcomes = append(result.Outcomes, report.Outcome{
			Resource: string(resource),
			Item:     itemLabel,
			Action:   report.ActionPlanned,
			Detail:   detail,
		})
		return
	}

	result.MutationCount++
	mutationError := mutation()
	if mutationError != nil {
		result.FailureCount++
		result.Outcomes = append(result.Outcomes, report.Outcome{
			Resource: string(resource),
			Item:     itemLabel,
			Action:   report.ActionFailed,
			Detail:   mutationError.Error(),
		})
		service.logger.Warn(
			itemFailedMessageConstant,
			zap.String(logFieldResourceConstant, string(resource)),
			zap.String(logFieldItemConstant, itemLabel),
			zap.String(logFieldErrorConstant, mutationError.Error()),
		)
		return
	}

	result.Outcomes = append(result.Outcomes, report.Outcome{
		Resource: string(resource),
		Item:     itemLabel,
		Action:   successAction,
		Detail:   detail,
	})

	logMessage := itemDeletedMessageConstant
	if successAction == report.ActionClosed {
		logMessage = itemClosedMessageConstant
	}
	service.logger.Info(
		logMessage,
		zap.String(logFieldResourceConstant, string(resource)),
		zap.String(logFieldItemConstant, itemLabel),
	)
}

func (service *Service) recordSkip(result *Result, resource ResourceType, itemLabel string, detail string) {
	result.SkippedCount++
	result.Outcomes = append(result.Outcomes, report.Outcome{
		Resource: string(resource),
		Item:     itemLabel,
		Action:   report.ActionSkipped,
		Detail:   detail,
	})
	service.logger.Debug(
		itemSkippedMessageConstant,
		zap.String(logFieldResourceConstant, string(resource)),
		zap.String(logFieldItemConstant, itemLabel),
	)
}

func (service *Service) limitReached(result *Result, options Options) bool {
	if options.Limit <= 0 {
		return false
	}
	if result.MutationCount < options.Limit {
		return false
	}
	service.logger.Info(
		limitReachedMessageConstant,
		zap.String(logFieldResourceConstant, string(options.Resource)),
		zap.Int(logFieldLimitConstant, options.Limit),
	)
	return true
}
