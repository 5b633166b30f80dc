package cleanup

import "strings"

const (
	organizationConfigurationKeyConstant = ".organization"
	repositoryConfigurationKeyConstant   = ".repository"
	tokenConfigurationKeyConstant        = ".token"
	limitConfigurationKeyConstant        = ".limit"
	dryRunConfigurationKeyConstant       = ".dry_run"
)

// CommandConfiguration captures configuration values for the cleanup command.
type CommandConfiguration struct {
	Organization string `mapstructure:"organization"`
	Repository   string `mapstructure:"repository"`
	Token        string `mapstructure:"token"`
	Limit        int    `mapstructure:"limit"`
	DryRun       bool   `mapstructure:"dry_run"`
}

// DefaultCommandConfiguration provides baseline configuration values for cleanup.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{}
}

// DefaultConfigurationValues exposes viper defaults under the provided key prefix.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationKeyPrefix + organizationConfigurationKeyConstant: defaults.Organization,
		configurationKeyPrefix + repositoryConfigurationKeyConstant:   defaults.Repository,
		configurationKeyPrefix + tokenConfigurationKeyConstant:        defaults.Token,
		configurationKeyPrefix + limitConfigurationKeyConstant:        defaults.Limit,
		configurationKeyPrefix + dryRunConfigurationKeyConstant:       defaults.DryRun,
	}
}

// sanitize trims configured values without applying implicit defaults.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Organization = strings.TrimSpace(configuration.Organization)
	sanitized.Repository = strings.TrimSpace(configuration.Repository)
	sanitized.Token = strings.TrimSpace(configuration.Token)
	if sanitized.Limit < 0 {
		sanitized.Limit = 0
	}
	return sanitized
}
