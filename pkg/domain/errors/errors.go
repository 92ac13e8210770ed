// Package errors defines the stable error kinds of the engine (§7) and
// their exit-code mapping. Each kind wraps an optional cause while staying
// distinguishable via errors.As.
package errors

import (
	"errors"
	"fmt"

	xe "github.com/valeger/automl/pkg/errors"
)

type wrappingError struct {
	message  string
	causedBy error
}

func as[E error](err error) bool {
	if err == nil {
		return false
	}
	p := new(E)
	return errors.As(err, p)
}

func format(e wrappingError) string {
	if e.causedBy == nil {
		return e.message
	}
	if e.message == "" {
		return fmt.Sprintf("caused by: %+v", e.causedBy)
	}
	return fmt.Sprintf("%s / caused by: %+v", e.message, e.causedBy)
}

// ExitCoder is implemented by every error kind below; the CLI's outer frame
// is the only place this is consulted (§7 propagation policy).
type ExitCoder interface {
	error
	ExitCode() int
}

// Validation: config malformed, name collision, missing file, invalid cron.
// Fails fast, no cluster mutation.
type ErrValidation wrappingError

var AsValidation = as[*ErrValidation]

func NewValidation(message string) error {
	return xe.WrapAsOuter(&ErrValidation{message: message}, 1)
}

func NewValidationCausedBy(message string, err error) error {
	return xe.WrapAsOuter(&ErrValidation{message: message, causedBy: err}, 1)
}

func (e *ErrValidation) Error() string  { return format(wrappingError(*e)) }
func (e *ErrValidation) Unwrap() error  { return e.causedBy }
func (e *ErrValidation) ExitCode() int  { return 2 }

// Precondition: referenced secret missing, source fetch 401/404, unsupported
// Kubernetes version. Fails before stage 1 submission.
type ErrPrecondition wrappingError

var AsPrecondition = as[*ErrPrecondition]

func NewPrecondition(message string) error {
	return xe.WrapAsOuter(&ErrPrecondition{message: message}, 1)
}

func NewPreconditionCausedBy(message string, err error) error {
	return xe.WrapAsOuter(&ErrPrecondition{message: message, causedBy: err}, 1)
}

func (e *ErrPrecondition) Error() string { return format(wrappingError(*e)) }
func (e *ErrPrecondition) Unwrap() error { return e.causedBy }
func (e *ErrPrecondition) ExitCode() int { return 3 }

// StepFailure: pod CrashLoop, non-zero exit, image pull failure, init
// failure. Aborts the current stage; Sweeper runs.
type ErrStepFailure wrappingError

var AsStepFailure = as[*ErrStepFailure]

func NewStepFailure(message string) error {
	return xe.WrapAsOuter(&ErrStepFailure{message: message}, 1)
}

func NewStepFailureCausedBy(message string, err error) error {
	return xe.WrapAsOuter(&ErrStepFailure{message: message, causedBy: err}, 1)
}

func (e *ErrStepFailure) Error() string { return format(wrappingError(*e)) }
func (e *ErrStepFailure) Unwrap() error { return e.causedBy }
func (e *ErrStepFailure) ExitCode() int { return 4 }

// Timeout: same recovery as StepFailure, distinguished exit code.
type ErrTimeout wrappingError

var AsTimeout = as[*ErrTimeout]

func NewTimeout(message string) error {
	return xe.WrapAsOuter(&ErrTimeout{message: message}, 1)
}

func (e *ErrTimeout) Error() string { return format(wrappingError(*e)) }
func (e *ErrTimeout) Unwrap() error { return e.causedBy }
func (e *ErrTimeout) ExitCode() int { return 5 }

// Fatal: RBAC denied, quota exceeded mid-stage, or a transient cluster
// error promoted past its retry cap. Aborts, sweeps, surfaces the raw API
// message. Shares exit code 3 with Precondition: both name a cluster-facing
// failure the operator cannot retry client-side (§6 exit code table groups
// "cluster error (network, RBAC)" under a single code).
type ErrFatal wrappingError

var AsFatal = as[*ErrFatal]

func NewFatal(message string) error {
	return xe.WrapAsOuter(&ErrFatal{message: message}, 1)
}

func NewFatalCausedBy(message string, err error) error {
	return xe.WrapAsOuter(&ErrFatal{message: message, causedBy: err}, 1)
}

func (e *ErrFatal) Error() string { return format(wrappingError(*e)) }
func (e *ErrFatal) Unwrap() error { return e.causedBy }
func (e *ErrFatal) ExitCode() int { return 3 }

// Cancellation: the operator interrupted the run (SIGINT/SIGTERM) while
// steps were in flight. The Sweeper still runs; this kind only
// distinguishes the exit code from a step's own failure.
type ErrCancellation wrappingError

var AsCancellation = as[*ErrCancellation]

func NewCancellation(message string) error {
	return xe.WrapAsOuter(&ErrCancellation{message: message}, 1)
}

func (e *ErrCancellation) Error() string { return format(wrappingError(*e)) }
func (e *ErrCancellation) Unwrap() error { return e.causedBy }
func (e *ErrCancellation) ExitCode() int { return 6 }

// ErrTransientCluster marks a connection reset / 5xx / watch disconnect
// worth a retry. Nothing in this module constructs it; it has no
// ExitCode method, so ExitCode maps it to 1.
type ErrTransientCluster wrappingError

var AsTransientCluster = as[*ErrTransientCluster]

func NewTransientCluster(message string, err error) error {
	return xe.WrapAsOuter(&ErrTransientCluster{message: message, causedBy: err}, 1)
}

func (e *ErrTransientCluster) Error() string { return format(wrappingError(*e)) }
func (e *ErrTransientCluster) Unwrap() error { return e.causedBy }

// ExitCode extracts the exit code of the first ExitCoder in err's chain,
// defaulting to 1 for an unrecognized error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ec ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return 1
}
