package common

import (
	"errors"
	"log"
	"os"

	domainerrors "github.com/valeger/automl/pkg/domain/errors"
)

// ExitCode resolves err to the stable exit code of spec §6/§7: 0 success,
// 2 validation, 3 cluster/precondition, 4 step failure, 5 timeout, 6
// cancellation, 1 anything else. This is deliberately the only place in
// the CLI that inspects an error's kind — every subcommand's Task ends up
// here.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ec domainerrors.ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return 1
}

// Fail logs err and terminates the process with its mapped exit code.
// subcommands' own ExitStatus enum only distinguishes success/failure/usage
// error, too coarse for spec §6's table, so the process exit happens here
// rather than by returning through flarc.
func Fail(logger *log.Logger, err error) {
	logger.Print(err)
	os.Exit(ExitCode(err))
}
