package change

import "strings"

const (
	organizationConfigurationKeyConstant = ".organization"
	tokenConfigurationKeyConstant        = ".token"
)

// CommandConfiguration captures configuration values for the change command.
type CommandConfiguration struct {
	Organization string `mapstructure:"organization"`
	Token        string `mapstructure:"token"`
}

// DefaultCommandConfiguration provides baseline configuration values for change.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{}
}

// DefaultConfigurationValues exposes viper defaults under the provided key prefix.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationKeyPrefix + organizationConfigurationKeyConstant: defaults.Organization,
		configurationKeyPrefix + tokenConfigurationKeyConstant:        defaults.Token,
	}
}

// sanitize trims configured values without applying implicit defaults.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Organization = strings.TrimSpace(configuration.Organization)
	sanitized.Token = strings.TrimSpace(configuration.Token)
	return sanitized
}
