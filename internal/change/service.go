package change

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/ghops/internal/githubapi"
	"github.com/temirov/ghops/internal/report"
)

const (
	operationsMissingMessageConstant       = "github operations must be provided"
	organizationMissingMessageConstant     = "organization must be provided"
	repositoryMissingMessageConstant       = "repository must be provided for rename or single-repository changes"
	noChangeRequestedMessageConstant       = "either a visibility or a new name must be provided"
	renameAllRepositoriesMessageConstant   = "rename requires a single repository target"
	repositoryListingFailureTemplate       = "listing organization repositories failed: %w"
	visibilityChangeFailureTemplate        = "visibility change for %s failed: %w"
	renameFailureTemplateConstant          = "rename of %s failed: %w"
	repositoryResourceNameConstant         = "repository"
	visibilityDetailTemplateConstant       = "visibility %s"
	renameDetailTemplateConstant           = "renamed to %s"
	changeStartedMessageConstant           = "change started"
	visibilityChangedMessageConstant       = "repository visibility changed"
	repositoryRenamedMessageConstant       = "repository renamed"
	visibilityChangeFailedMessageConstant  = "repository visibility change failed"
	logFieldOrganizationConstant           = "organization"
	logFieldRepositoryConstant             = "repository"
	logFieldVisibilityConstant             = "visibility"
	logFieldNewNameConstant                = "new_name"
	logFieldErrorConstant                  = "error"
)

// GitHubOperations is the API surface the change service depends on.
type GitHubOperations interface {
	ListOrganizationRepositories(executionContext context.Context, organization string) ([]githubapi.Repository, error)
	SetRepositoryVisibility(executionContext context.Context, organization string, repository string, visibility githubapi.RepositoryVisibility) error
	RenameRepository(executionContext context.Context, organization string, repository string, newName string) error
}

// Options configures one change run.
type Options struct {
	Organization      string
	Repository        string
	AllRepositories   bool
	Visibility        githubapi.RepositoryVisibility
	NewRepositoryName string
}

// Result aggregates the per-repository outcomes of a change run.
type Result struct {
	Outcomes     []report.Outcome
	PatchCount   int
	FailureCount int
}

// Service executes repository setting changes against the GitHub API.
type Service struct {
	logger     *zap.Logger
	operations GitHubOperations
}

// NewService constructs a change service.
func NewService(logger *zap.Logger, operations GitHubOperations) (*Service, error) {
	if operations == nil {
		return nil, errors.New(operationsMissingMessageConstant)
	}

	resolvedLogger := logger
	if resolvedLogger == nil {
		resolvedLogger = zap.NewNop()
	}

	return &Service{logger: resolvedLogger, operations: operations}, nil
}

// Execute applies the requested changes. Single-target operations fail fast;
// organization-wide visibility changes continue past individual failures.
func (service *Service) Execute(executionContext context.Context, options Options) (Result, error) {
	if validationError := validateOptions(options); validationError != nil {
		return Result{}, validationError
	}

	service.logger.Info(
		changeStartedMessageConstant,
		zap.String(logFieldOrganizationConstant, options.Organization),
		zap.String(logFieldRepositoryConstant, options.Repository),
		zap.String(logFieldVisibilityConstant, string(options.Visibility)),
		zap.String(logFieldNewNameConstant, options.NewRepositoryName),
	)

	if options.AllRepositories {
		return service.changeVisibilityForOrganization(executionContext, options)
	}

	return service.changeSingleRepository(executionContext, options)
}

func validateOptions(options Options) error {
	if len(strings.TrimSpace(options.Organization)) == 0 {
		return errors.New(organizationMissingMessageConstant)
	}
	if len(options.Visibility) == 0 && len(strings.TrimSpace(options.NewRepositoryName)) == 0 {
		return errors.New(noChangeRequestedMessageConstant)
	}
	if len(strings.TrimSpace(options.NewRepositoryName)) > 0 && options.AllRepositories {
		return errors.New(renameAllRepositoriesMessageConstant)
	}
	if !options.AllRepositories && len(strings.TrimSpace(options.Repository)) == 0 {
		return errors.New(repositoryMissingMessageConstant)
	}
	return nil
}

// changeSingleRepository applies visibility before rename so the patch targets
// the current repository name.
func (service *Service) changeSingleRepository(executionContext context.Context, options Options) (Result, error) {
	result := Result{}

	if len(options.Visibility) > 0 {
		result.PatchCount++
		visibilityError := service.operations.SetRepositoryVisibility(executionContext, options.Organization, options.Repository, options.Visibility)
		if visibilityError != nil {
			return Result{}, fmt.Errorf(visibilityChangeFailureTemplate, options.Repository, visibilityError)
		}

		result.Outcomes = append(result.Outcomes, report.Outcome{
			Resource: repositoryResourceNameConstant,
			Item:     options.Repository,
			Action:   report.ActionUpdated,
			Detail:   fmt.Sprintf(visibilityDetailTemplateConstant, options.Visibility),
		})
		service.logger.Info(
			visibilityChangedMessageConstant,
			zap.String(logFieldRepositoryConstant, options.Repository),
			zap.String(logFieldVisibilityConstant, string(options.Visibility)),
		)
	}

	if len(strings.TrimSpace(options.NewRepositoryName)) > 0 {
		result.PatchCount++
		renameError := service.operations.RenameRepository(executionContext, options.Organization, options.Repository, options.NewRepositoryName)
		if renameError != nil {
			return Result{}, fmt.Errorf(renameFailureTemplateConstant, options.Repository, renameError)
		}

		result.Outcomes = append(result.Outcomes, report.Outcome{
			Resource: repositoryResourceNameConstant,
			Item:     options.Repository,
			Action:   report.ActionRenamed,
			Detail:   fmt.Sprintf(renameDetailTemplateConstant, options.NewRepositoryName),
		})
		service.logger.Info(
			repositoryRenamedMessageConstant,
			zap.String(logFieldRepositoryConstant, options.Repository),
			zap.String(logFieldNewNameConstant, options.NewRepositoryName),
		)
	}

	return result, nil
}

func (service *Service) changeVisibilityForOrganization(executionContext context.Context, options Options) (Result, error) {
	repositories, listError := service.operations.ListOrganizationRepositories(executionContext, options.Organization)
	if listError != nil {
		return Result{}, fmt.Errorf(repositoryListingFailureTemplate, listError)
	}

	result := Result{}
	for _, repository := range repositories {
		result.PatchCount++
		visibilityError := service.operations.SetRepositoryVisibility(executionContext, options.Organization, repository.Name, options.Visibility)
		if visibilityError != nil {
			result.FailureCount++
			result.Outcomes = append(result.Outcomes, report.Outcome{
				Resource: repositoryResourceNameConstant,
				Item:     repository.Name,
				Action:   report.ActionFailed,
				Detail:   visibilityError.Error(),
			})
			service.logger.Warn(
				visibilityChangeFailedMessageConstant,
				zap.String(logFieldRepositoryConstant, repository.Name),
				zap.String(logFieldErrorConstant, visibilityError.Error()),
			)
			continue
		}

		result.Outcomes = append(result.Outcomes, report.Outcome{
			Resource: repositoryResourceNameConstant,
			Item:     repository.Name,
			Action:   report.ActionUpdated,
			Detail:   fmt.Sprintf(visibilityDetailTemplateConstant, options.Visibility),
		})
		service.logger.Info(
			visibilityChangedMessageConstant,
			zap.String(logFieldRepositoryConstant, repository.Name),
			zap.String(logFieldVisibilityConstant, string(options.Visibility)),
		)
	}

	return result, nil
}
