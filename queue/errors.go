package queue

// ConfigError reports an invalid construction parameter. The queue is never
// created when New returns a ConfigError.
type ConfigError struct {
	msg string
}

// NewConfigError returns a new ConfigError.
func NewConfigError(msg string) *ConfigError {
	return &ConfigError{
		msg: msg,
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return "invalid queue configuration: " + e.msg
}

// InvalidJobError reports a job that cannot be admitted into the queue.
// The queue state is unchanged when Push returns an InvalidJobError.
type InvalidJobError struct {
	msg string
}

// NewInvalidJobError returns a new InvalidJobError.
func NewInvalidJobError(msg string) *InvalidJobError {
	return &InvalidJobError{
		msg: msg,
	}
}

// Error implements the error interface
func (e *InvalidJobError) Error() string {
	return "invalid job: " + e.msg
}
