package cli

import "fmt"

// CommandError wraps a subcommand failure so Execute prints one uniform
// "deckhand <command>: ..." line regardless of where the failure came
// from. Configuration problems keep their own taxonomy in the config
// package (FieldError, ValidationError) and are wrapped, not replaced.
type CommandError struct {
	// Command is the subcommand that failed ("run", "daemon", ...).
	Command string

	// Err is the underlying failure.
	Err error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("deckhand %s: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}
