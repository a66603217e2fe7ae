// Package config decodes the static snapshot rules compiled into the binary.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/temirov/codesnap/internal/filter"
	"github.com/temirov/codesnap/internal/types"
)

const (
	configurationType  = "yaml"
	extensionPrefix    = "."
	pathSeparatorChars = `/\`

	errorReadDefaultsFormat    = "read embedded configuration: %w"
	errorDecodeDefaultsFormat  = "decode embedded configuration: %w"
	errorEmptySetFormat        = "configuration %s must not be empty"
	errorExtensionPrefixFormat = "allowed extension %q must start with %q"
	errorBareNameFormat        = "configuration %s entry %q must be a bare name"
	errorOutputFileFormat      = "output file %q must be a bare file name"
)

//go:embed defaults.yaml
var defaultConfiguration []byte

// Configuration is the decoded form of the compiled-in rules.
type Configuration struct {
	OutputFile         string   `mapstructure:"output_file"`
	AllowedExtensions  []string `mapstructure:"allowed_extensions"`
	IgnoredDirectories []string `mapstructure:"ignored_directories"`
	IgnoredFiles       []string `mapstructure:"ignored_files"`
}

// LoadDefaultConfiguration decodes and validates the configuration embedded in the binary.
func LoadDefaultConfiguration() (Configuration, error) {
	return parseConfiguration(defaultConfiguration)
}

func parseConfiguration(document []byte) (Configuration, error) {
	reader := viper.New()
	reader.SetConfigType(configurationType)
	if readErr := reader.ReadConfig(bytes.NewReader(document)); readErr != nil {
		return Configuration{}, fmt.Errorf(errorReadDefaultsFormat, readErr)
	}
	var configuration Configuration
	if decodeErr := reader.Unmarshal(&configuration); decodeErr != nil {
		return Configuration{}, fmt.Errorf(errorDecodeDefaultsFormat, decodeErr)
	}
	configuration.OutputFile = strings.TrimSpace(configuration.OutputFile)
	configuration.AllowedExtensions = trimEntries(configuration.AllowedExtensions)
	configuration.IgnoredDirectories = trimEntries(configuration.IgnoredDirectories)
	configuration.IgnoredFiles = trimEntries(configuration.IgnoredFiles)
	if validationErr := configuration.Validate(); validationErr != nil {
		return Configuration{}, validationErr
	}
	return configuration, nil
}

// Validate reports configuration values the traversal cannot honor.
func (configuration Configuration) Validate() error {
	if configuration.OutputFile == "" || strings.ContainsAny(configuration.OutputFile, pathSeparatorChars) {
		return fmt.Errorf(errorOutputFileFormat, configuration.OutputFile)
	}
	if len(configuration.AllowedExtensions) == 0 {
		return fmt.Errorf(errorEmptySetFormat, "allowed_extensions")
	}
	for _, extension := range configuration.AllowedExtensions {
		if !strings.HasPrefix(extension, extensionPrefix) {
			return fmt.Errorf(errorExtensionPrefixFormat, extension, extensionPrefix)
		}
	}
	for _, directoryName := range configuration.IgnoredDirectories {
		if strings.ContainsAny(directoryName, pathSeparatorChars) {
			return fmt.Errorf(errorBareNameFormat, "ignored_directories", directoryName)
		}
	}
	for _, fileName := range configuration.IgnoredFiles {
		if strings.ContainsAny(fileName, pathSeparatorChars) {
			return fmt.Errorf(errorBareNameFormat, "ignored_files", fileName)
		}
	}
	return nil
}

// Rules converts the configuration into immutable filter rules.
// The output file is always ignored so a snapshot never embeds a previous one.
func (configuration Configuration) Rules() filter.Rules {
	ignoredFiles := append([]string{configuration.OutputFile}, configuration.IgnoredFiles...)
	return filter.Rules{
		AllowedExtensions:  types.NewNameSet(configuration.AllowedExtensions...),
		IgnoredDirectories: types.NewNameSet(configuration.IgnoredDirectories...),
		IgnoredFiles:       types.NewNameSet(ignoredFiles...),
	}
}

func trimEntries(entries []string) []string {
	trimmed := make([]string, 0, len(entries))
	for _, entry := range entries {
		if value := strings.TrimSpace(entry); value != "" {
			trimmed = append(trimmed, value)
		}
	}
	return trimmed
}
