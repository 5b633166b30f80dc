package docs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const (
	readmeFileNameConstant           = "README.md"
	yamlFenceStartConstant           = "```yaml"
	yamlFenceEndConstant             = "```"
	configHeaderMarkerConstant       = "# config.yaml"
	parentDirectoryReferenceConstant = ".."
	missingHeaderMessageConstant     = "README example missing config header marker"
	missingStartFenceMessageConstant = "README example missing yaml fence start"
	missingEndFenceMessageConstant   = "README example missing yaml fence end"
	expectedLogLevelConstant         = "info"
	expectedLogFormatConstant        = "console"
	expectedOrganizationConstant     = "acme"
	expectedRepositoryConstant       = "widget"
	expectedLimitConstant            = 25
)

type readmeApplicationConfiguration struct {
	Common struct {
		LogLevel  string `yaml:"log_level"`
		LogFormat string `yaml:"log_format"`
	} `yaml:"common"`
	Tools struct {
		Cleanup struct {
			Organization string `yaml:"organization"`
			Repository   string `yaml:"repository"`
			Limit        int    `yaml:"limit"`
			DryRun       bool   `yaml:"dry_run"`
		} `yaml:"cleanup"`
		Change struct {
			Organization string `yaml:"organization"`
		} `yaml:"change"`
	} `yaml:"tools"`
}

func TestReadmeConfigurationParses(testInstance *testing.T) {
	workingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)

	readmePath := filepath.Join(workingDirectory, parentDirectoryReferenceConstant, readmeFileNameConstant)
	contentBytes, readError := os.ReadFile(readmePath)
	require.NoError(testInstance, readError)

	contentText := string(contentBytes)
	headerIndex := strings.Index(contentText, configHeaderMarkerConstant)
	require.NotEqual(testInstance, -1, headerIndex, missingHeaderMessageConstant)

	fenceStartIndex := strings.LastIndex(contentText[:headerIndex], yamlFenceStartConstant)
	require.NotEqual(testInstance, -1, fenceStartIndex, missingStartFenceMessageConstant)

	remainingText := contentText[headerIndex:]
	fenceEndRelativeIndex := strings.Index(remainingText, yamlFenceEndConstant)
	require.NotEqual(testInstance, -1, fenceEndRelativeIndex, missingEndFenceMessageConstant)
	fenceEndIndex := headerIndex + fenceEndRelativeIndex

	snippetContent := strings.TrimSpace(contentText[fenceStartIndex+len(yamlFenceStartConstant) : fenceEndIndex])

	var applicationConfiguration readmeApplicationConfiguration
	unmarshalError := yaml.Unmarshal([]byte(snippetContent), &applicationConfiguration)
	require.NoError(testInstance, unmarshalError)

	require.Equal(testInstance, expectedLogLevelConstant, applicationConfiguration.Common.LogLevel)
	require.Equal(testInstance, expectedLogFormatConstant, applicationConfiguration.Common.LogFormat)
	require.Equal(testInstance, expectedOrganizationConstant, applicationConfiguration.Tools.Cleanup.Organization)
	require.Equal(testInstance, expectedRepositoryConstant, applicationConfiguration.Tools.Cleanup.Repository)
	require.Equal(testInstance, expectedLimitConstant, applicationConfiguration.Tools.Cleanup.Limit)
	require.True(testInstance, applicationConfiguration.Tools.Cleanup.DryRun)
	require.Equal(testInstance, expectedOrganizationConstant, applicationConfiguration.Tools.Change.Organization)
}
