package readiness

// Configuration captures the user-tunable inputs of the check command.
type Configuration struct {
	RequiredFiles []string `mapstructure:"required_files"`
}

// Default required file names, checked in this order.
var defaultRequiredFiles = []string{"LICENSE", "README.md", "CHANGELOG.md", "CITATION.cff"}

// DefaultConfiguration returns the configuration applied when no overrides are provided.
func DefaultConfiguration() Configuration {
	return Configuration{RequiredFiles: append([]string(nil), defaultRequiredFiles...)}
}

// WithDefaults fills unset fields with their default values.
func (configuration Configuration) WithDefaults() Configuration {
	if len(configuration.RequiredFiles) == 0 {
		configuration.RequiredFiles = append([]string(nil), defaultRequiredFiles...)
	}
	return configuration
}
