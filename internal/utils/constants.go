package utils

const (
	// LoggerInitializationFailedMessageFormat reports a logger that could not be built.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal errors logged by main.
	ApplicationExecutionFailedMessage = "codesnap failed"
)
