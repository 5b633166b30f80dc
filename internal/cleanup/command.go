package cleanup

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
	commandUseConstant                    = "cleanup"
	commandShortDescriptionConstant       = "Delete stale releases, tags, or branches, or close issues"
	commandLongDescriptionConstant        = "cleanup bulk-deletes releases, tags, or branches, or bulk-closes issues in a GitHub repository."
	commandExecutionErrorTemplateConstant = "cleanup failed: %w"
	unexpectedArgumentsMessageConstant    = "cleanup does not accept positional arguments"
	flagOrganizationNameConstant          = "org"
	flagOrganizationDescriptionConstant   = "GitHub organization name"
	flagRepositoryNameConstant            = "repo"
	flagRepositoryDescriptionConstant     = "GitHub repository name"
	flagTypeNameConstant                  = "type"
	flagTypeDescriptionConstant           = "Resource to clean up"
	flagTimeFrameNameConstant             = "time-frame-gt"
	flagTimeFrameDescriptionConstant      = "Delete releases older than this time frame (e.g. 1m, 30d, 24h)"
	flagLimitNameConstant                 = "limit"
	flagLimitDescriptionConstant          = "Maximum number of items to clean up"
	flagDryRunNameConstant                = "dry-run"
	flagDryRunDescriptionConstant         = "Preview deletions without making changes"
	flagTokenNameConstant                 = "token"
	flagTokenDescriptionConstant          = "GitHub API token (falls back to configuration and environment)"
	organizationRequiredMessageConstant   = "--org is required"
	repositoryRequiredMessageConstant     = "--repo is required"
	typeRequiredMessageConstant           = "--type is required"
	limitNegativeMessageConstant          = "--limit must be a positive number"
	timeFrameOnlyReleasesMessageConstant  = "--time-frame-gt is only supported with --type releases"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current cleanup configuration.
type ConfigurationProvider func() CommandConfiguration

// ServiceResolver creates cleanup services once a token is known.
type ServiceResolver interface {
	Resolve(logger *zap.Logger, token string) (*Service, error)
}

// CommandBuilder assembles the Cobra command for repository cleanup.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	ServiceResolver       ServiceResolver
	HTTPClient            githubapi.HTTPClient
	Clock                 Clock
	EnvironmentLookup     githubauth.EnvironmentLookup
	SummaryWriter         io.Writer
}

// Build constructs the cleanup command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(flagOrganizationNameConstant, "", flagOrganizationDescriptionConstant)
	command.Flags().String(flagRepositoryNameConstant, "", flagRepositoryDescriptionConstant)
	command.Flags().String(flagTypeNameConstant, "", flags.FormatChoiceUsage(ResourceTypeValues(), flagTypeDescriptionConstant))
	command.Flags().String(flagTimeFrameNameConstant, "", flagTimeFrameDescriptionConstant)
	command.Flags().Int(flagLimitNameConstant, 0, flagLimitDescriptionConstant)
	command.Flags().Bool(flagDryRunNameConstant, false, flagDryRunDescriptionConstant)
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

	result, cleanupError := service.Cleanup(command.Context(), options)
	if cleanupError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, cleanupError)
	}

	summaryWriter := builder.SummaryWriter
	if summaryWriter == nil {
		summaryWriter = command.OutOrStdout()
	}
	report.WriteSummary(summaryWriter, result.Outcomes)

	return nil
}

// parseOptions validates flags before any network call is made.
func (builder *CommandBuilder) parseOptions(command *cobra.Command) (Options, string, error) {
	configuration := builder.resolveConfiguration()

	organizationValue, _ := command.Flags().GetString(flagOrganizationNameConstant)
	organization := selectStringValue(organizationValue, configuration.Organization)
	if len(organization) == 0 {
		return Options{}, "", errors.New(organizationRequiredMessageConstant)
	}

	repositoryValue, _ := command.Flags().GetString(flagRepositoryNameConstant)
	repository := selectStringValue(repositoryValue, configuration.Repository)
	if len(repository) == 0 {
		return Options{}, "", errors.New(repositoryRequiredMessageConstant)
	}

	typeValue, _ := command.Flags().GetString(flagTypeNameConstant)
	if len(strings.TrimSpace(typeValue)) == 0 {
		return Options{}, "", errors.New(typeRequiredMessageConstant)
	}
	resource, resourceError := ParseResourceType(typeValue)
	if resourceError != nil {
		return Options{}, "", resourceError
	}

	var timeFrame *TimeFrame
	timeFrameValue, _ := command.Flags().GetString(flagTimeFrameNameConstant)
	if len(strings.TrimSpace(timeFrameValue)) > 0 {
		if resource != ResourceReleases {
			return Options{}, "", errors.New(timeFrameOnlyReleasesMessageConstant)
		}
		parsedTimeFrame, timeFrameError := ParseTimeFrame(timeFrameValue)
		if timeFrameError != nil {
			return Options{}, "", timeFrameError
		}
		timeFrame = &parsedTimeFrame
	}

	limit := configuration.Limit
	if command.Flags().Changed(flagLimitNameConstant) {
		limitValue, _ := command.Flags().GetInt(flagLimitNameConstant)
		limit = limitValue
	}
	if limit < 0 || (command.Flags().Changed(flagLimitNameConstant) && limit == 0) {
		return Options{}, "", errors.New(limitNegativeMessageConstant)
	}

	dryRun := configuration.DryRun
	if command.Flags().Changed(flagDryRunNameConstant) {
		dryRunValue, _ := command.Flags().GetBool(flagDryRunNameConstant)
		dryRun = dryRunValue
	}

	tokenValue, _ := command.Flags().GetString(flagTokenNameConstant)
	token, tokenError := githubauth.ResolveToken([]string{tokenValue, configuration.Token}, builder.EnvironmentLookup)
	if tokenError != nil {
		return Options{}, "", tokenError
	}

	options := Options{
		Organization: organization,
		Repository:   repository,
		Resource:     resource,
		TimeFrame:    timeFrame,
		Limit:        limit,
		DryRun:       dryRun,
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

	return NewService(logger, repositoryService, builder.Clock)
}

func selectStringValue(flagValue string, configurationValue string) string {
	trimmedFlagValue := strings.TrimSpace(flagValue)
	if len(trimmedFlagValue) > 0 {
		return trimmedFlagValue
	}
	return strings.TrimSpace(configurationValue)
}
