package momentoredis

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupported matches every unsupported command or option error.
	ErrUnsupported = errors.New("momentoredis: not supported")
	// ErrInvalidArgument matches every ArgumentError.
	ErrInvalidArgument = errors.New("momentoredis: invalid argument")
)

// CommandError is a backend failure for one command. It is published to the
// client's Hooks and never returned as a usage error. It satisfies the
// go-redis redis.Error marker, so code that checks for server replies treats
// it like one.
type CommandError struct {
	Command string
	Key     string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("momentoredis: %s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("momentoredis: %s %q: %v", e.Command, e.Key, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

func (e *CommandError) RedisError() {}

// UnsupportedCommandError is returned synchronously for a command the client
// does not translate. Unknown is set when the name is not a Redis command at all.
type UnsupportedCommandError struct {
	Command string
	Unknown bool
}

func (e *UnsupportedCommandError) Error() string {
	if e.Unknown {
		return fmt.Sprintf("momentoredis: unknown command %s", e.Command)
	}
	return fmt.Sprintf("momentoredis: command %s is not implemented", e.Command)
}

func (e *UnsupportedCommandError) Is(target error) bool { return target == ErrUnsupported }

// UnsupportedOptionError names a recognised option the client refuses to
// emulate (KEEPTTL, XX, GET on SET).
type UnsupportedOptionError struct {
	Command string
	Option  string
}

func (e *UnsupportedOptionError) Error() string {
	return fmt.Sprintf("momentoredis: %s option %s is not implemented", e.Command, e.Option)
}

func (e *UnsupportedOptionError) Is(target error) bool { return target == ErrUnsupported }

// ArgumentError reports a malformed call: wrong arity, bad option syntax,
// a value type that cannot be written.
type ArgumentError struct {
	Command string
	Msg     string
}

func (e *ArgumentError) Error() string {
	if e.Command == "" {
		return "momentoredis: " + e.Msg
	}
	return fmt.Sprintf("momentoredis: %s: %s", e.Command, e.Msg)
}

func (e *ArgumentError) Is(target error) bool { return target == ErrInvalidArgument }

func argErr(cmd, format string, args ...any) *ArgumentError {
	return &ArgumentError{Command: cmd, Msg: fmt.Sprintf(format, args...)}
}
