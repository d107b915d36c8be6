package utils

// LoggerInitializationFailedMessageFormat reports a logger that could not be constructed.
const LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"

// ApplicationExecutionFailedMessage prefixes the fatal log line of a failed run.
const ApplicationExecutionFailedMessage = "codepack failed"
