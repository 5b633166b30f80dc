package change

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/ghops/internal/githubapi"
	"github.com/temirov/ghops/internal/githubauth"
	"github.com/temirov/ghops/internal/report"
	"github.com/temirov/ghops/internal/utils/flags"
)

const (
	commandUseConstant                    = "change"
	commandShortDescriptionConstant       = "Change repository visibility or rename a repository"
	commandLongDescriptionConstant        = "change patches repository settings: visibility for one or all repositories in an organization, or a repository name."
	commandExecutionErrorTemplateConstant = "change failed: %w"
	unexpectedArgumentsMessageConstant    = "change does not accept positional arguments"
	flagOrganizationNameConstant          = "org"
	flagOrganizationDescriptionConstant   = "GitHub organization name"
	flagRepositoryNameConstant            = "repo"
	flagRepositoryDescriptionConstant     = "GitHub repository name (single repository target)"
	flagAllRepositoriesNameConstant       = "all-repos"
	flagAllRepositoriesDescription        = "Apply the visibility change to every repository in the organization"
	flagVisibilityNameConstant            = "visibility"
	flagVisibilityDescriptionConstant     = "New repository visibility"
	flagChangeNameNameConstant            = "change-name"
	flagChangeNameDescriptionConstant     = "New name for the repository"
	flagTokenNameConstant                 = "token"
	flagTokenDescriptionConstant          = "GitHub API token (falls back to configuration and environment)"
	organizationRequiredMessageConstant   = "--org is required"
	targetRequiredMessageConstant         = "either --repo or --all-repos must be provided"
	targetExclusiveMessageConstant        = "--repo and --all-repos are mutually exclusive"
	changeRequiredMessageConstant         = "at least one of --visibility or --change-name must be provided"
	renameRequiresRepoMessageConstant     = "--change-name requires --repo"
	allReposVisibilityMessageConstant     = "--all-repos requires --visibility"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current change configuration.
type ConfigurationProvider func() CommandConfiguration

// ServiceResolver creates change services once a token is known.
type ServiceResolver interface {
	Resolve(logger *zap.Logger, token string) (*Service, error)
}

// CommandBuilder assembles the Cobra command for repository setting changes.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	ServiceResolver       ServiceResolver
	HTTPClient            githubapi.HTTPClient
	EnvironmentLookup     githubauth.EnvironmentLookup
	SummaryWriter         io.Writer
}

// Build constructs the change command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	visibilityChoices := []string{
		string(githubapi.VisibilityPrivate),
		string(githubapi.VisibilityPublic),
		string(githubapi.VisibilityInternal),
	}

	command.Flags().String(flagOrganizationNameConstant, "", flagOrganizationDescriptionConstant)
	command.Flags().String(flagRepositoryNameConstant, "", flagRepositoryDescriptionConstant)
	command.Flags().Bool(flagAllRepositoriesNameConstant, false, flagAllRepositoriesDescription)
	command.Flags().String(flagVisibilityNameConstant, "", flags.FormatChoiceUsage(visibilityChoices, flagVisibilityDescriptionConstant))
	command.Flags().String(flagChangeNameNameConstant, "", flagChangeNameDescriptionConstant)
	command.Flags().String(flagTokenNameConstant, "", flagTokenDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errors.New(unexpectedArgumentsMessageConstant)
	}

	options, token, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger()
	service, serviceError := builder.resolveService(logger, token)
	if serviceError != nil {
		return serviceError
	}

	result, executionError := service.Execute(command.Context(), options)
	if executionError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, executionError)
	}

	summaryWriter := builder.SummaryWriter
	if summaryWriter == nil {
		summaryWriter = command.OutOrStdout()
	}
	report.WriteSummary(summaryWriter, result.Outcomes)

	return nil
}

// parseOptions validates flag combinations before any network call is made.
func (builder *CommandBuilder) parseOptions(command *cobra.Command) (Options, string, error) {
	configuration := builder.resolveConfiguration()

	organizationValue, _ := command.Flags().GetString(flagOrganizationNameConstant)
	organization := selectStringValue(organizationValue, configuration.Organization)
	if len(organization) == 0 {
		return Options{}, "", errors.New(organizationRequiredMessageConstant)
	}

	repositoryValue, _ := command.Flags().GetString(flagRepositoryNameConstant)
	repository := strings.TrimSpace(repositoryValue)

	allRepositories, _ := command.Flags().GetBool(flagAllRepositoriesNameConstant)

	if len(repository) == 0 && !allRepositories {
		return Options{}, "", errors.New(targetRequiredMessageConstant)
	}
	if len(repository) > 0 && allRepositories {
		return Options{}, "", errors.New(targetExclusiveMessageConstant)
	}

	visibilityChoices := []string{
		string(githubapi.VisibilityPrivate),
		string(githubapi.VisibilityPublic),
		string(githubapi.VisibilityInternal),
	}
	visibilityValue, _ := command.Flags().GetString(flagVisibilityNameConstant)
	validatedVisibility, visibilityError := flags.ValidateChoice(flagVisibilityNameConstant, visibilityValue, visibilityChoices, true)
	if visibilityError != nil {
		return Options{}, "", visibilityError
	}

	newNameValue, _ := command.Flags().GetString(flagChangeNameNameConstant)
	newRepositoryName := strings.TrimSpace(newNameValue)

	if len(validatedVisibility) == 0 && len(newRepositoryName) == 0 {
		return Options{}, "", errors.New(changeRequiredMessageConstant)
	}
	if len(newRepositoryName) > 0 && allRepositories {
		return Options{}, "", errors.New(renameRequiresRepoMessageConstant)
	}
	if allRepositories && len(validatedVisibility) == 0 {
		return Options{}, "", errors.New(allReposVisibilityMessageConstant)
	}

	tokenValue, _ := command.Flags().GetString(flagTokenNameConstant)
	token, tokenError := githubauth.ResolveToken([]string{tokenValue, configuration.Token}, builder.EnvironmentLookup)
	if tokenError != nil {
		return Options{}, "", tokenError
	}

	options := Options{
		Organization:      organization,
		Repository:        repository,
		AllRepositories:   allRepositories,
		Visibility:        githubapi.RepositoryVisibility(validatedVisibility),
		NewRepositoryName: newRepositoryName,
	}

	return options, token, nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	return configuration.sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveService(logger *zap.Logger, token string) (*Service, error) {
	if builder.ServiceResolver != nil {
		return builder.ServiceResolver.Resolve(logger, token)
	}

	repositoryService, creationError := githubapi.NewRepositoryService(logger, builder.HTTPClient, githubapi.ServiceConfiguration{Token: token})
	if creationError != nil {
		return nil, creationError
	}

	return NewService(logger, repositoryService)
}

func selectStringValue(flagValue string, configurationValue string) string {
	trimmedFlagValue := strings.TrimSpace(flagValue)
	if len(trimmedFlagValue) > 0 {
		return trimmedFlagValue
	}
	return strings.TrimSpace(configurationValue)
}
