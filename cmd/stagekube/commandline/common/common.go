// Package common threads the flags and dependencies every leaf subcommand
// needs (a *log.Logger, the resolved env.Env, a k8sclient.ClusterClient)
// through flarc's positional-argument channel, adapted from the teacher's
// cmd/knit/subcommands/common package. The teacher's version resolves a
// knitprofile and builds a REST client from it; this one has no profile
// store to load, so it goes straight from CommonFlags to
// k8sclient.Connect.
package common

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/youta-t/flarc"

	"github.com/valeger/automl/cmd/stagekube/env"
	"github.com/valeger/automl/pkg/k8sclient"
)

// CommonFlags is the flag set every command in the tree inherits from the
// top-level command group (spec §6 global option --namespace|-ns; the
// kubeconfig path is not itself a spec-listed flag but is required to
// resolve one, following pkg/k8sclient.Connect's own precedence order).
type CommonFlags struct {
	Namespace  string `flag:"namespace,short=ns,help=target Kubernetes namespace"`
	Kubeconfig string `flag:"kubeconfig,help=path to kubeconfig; defaults to KUBECONFIG env var or ~/.kube/config"`
}

func DefaultCommonFlags() CommonFlags {
	return CommonFlags{Namespace: ""}
}

type KnitTaskWithCommonFlag[T any] func(
	ctx context.Context,
	logger *log.Logger,
	commonFlag CommonFlags,
	cl flarc.Commandline[T],
	params []any,
) error

func NewTaskWithCommonFlag[T any](task KnitTaskWithCommonFlag[T]) flarc.Task[T] {
	return func(ctx context.Context, cl flarc.Commandline[T], pos []any) error {
		var commonFlag CommonFlags
		found := false
		newpos := make([]any, 0, len(pos))
		for _, p := range pos {
			switch v := p.(type) {
			case CommonFlags:
				found = true
				commonFlag = v
			default:
				newpos = append(newpos, p)
			}
		}
		if !found {
			return errors.New("programming error: common flags not found")
		}

		logger := log.New(cl.Stderr(), "", log.LstdFlags)
		logger.SetPrefix(fmt.Sprintf("[%s] ", cl.Fullname()))

		if err := task(ctx, logger, commonFlag, cl, newpos); err != nil {
			Fail(logger, err)
		}
		return nil
	}
}

// Task is the signature every leaf command's business logic is wrapped in.
type Task[T any] func(
	ctx context.Context,
	logger *log.Logger,
	common CommonFlags,
	e env.Env,
	client k8sclient.ClusterClient,
	cl flarc.Commandline[T],
	params []any,
) error

func NewTask[T any](task Task[T]) flarc.Task[T] {
	return NewTaskWithCommonFlag(func(
		ctx context.Context,
		logger *log.Logger,
		commonFlag CommonFlags,
		cl flarc.Commandline[T],
		params []any,
	) error {
		client, err := k8sclient.Connect(commonFlag.Kubeconfig)
		if err != nil {
			return fmt.Errorf("%w: cannot connect to cluster", err)
		}
		return task(ctx, logger, commonFlag, env.Load(), client, cl, params)
	})
}

// Namespace resolves the effective namespace: the CommonFlags value if
// set, else the caller's fallback (callers pass domain.DefaultNamespace,
// the Config Loader's own fallback, so `create workflow` without
// --namespace and a bare `get workflows` agree on where to look).
func Namespace(commonFlag CommonFlags, fallback string) string {
	if commonFlag.Namespace != "" {
		return commonFlag.Namespace
	}
	return fallback
}
