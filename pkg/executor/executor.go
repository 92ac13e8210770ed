// Package executor drives a Workflow through its stages: stage-sequential,
// step-parallel, per spec §4.4. It owns no cluster-object bookkeeping of
// its own — the Sweeper rediscovers everything via label selector — so the
// Executor's only state is the in-flight Run it returns.
package executor

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	kubecore "k8s.io/api/core/v1"
	kubeapimeta "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/valeger/automl/pkg/domain"
	domainerrors "github.com/valeger/automl/pkg/domain/errors"
	"github.com/valeger/automl/pkg/k8sclient"
	"github.com/valeger/automl/pkg/poller"
	"github.com/valeger/automl/pkg/sweeper"
	"github.com/valeger/automl/pkg/synth"
)

type Executor struct {
	Client  k8sclient.ClusterClient
	Poller  *poller.Poller
	Sweeper *sweeper.Sweeper
	Logger  *log.Logger
	Opts    synth.Options
}

func New(client k8sclient.ClusterClient, logger *log.Logger, opts synth.Options) *Executor {
	return &Executor{
		Client:  client,
		Poller:  poller.New(client, logger),
		Sweeper: sweeper.New(client, logger),
		Logger:  logger,
		Opts:    opts,
	}
}

// Run executes the workflow's stages in order (spec §4.4 scheduling
// model). On any step Failed/TimedOut within a stage, it waits for every
// other step of that stage to also reach a terminal outcome (never
// short-circuits mid-stage, per S2), then sweeps all resources of the run
// and returns an aggregate error naming each failed step, or an
// ErrCancellation when ctx was cancelled.
func (e *Executor) Run(ctx context.Context, w domain.Workflow) (*domain.Run, error) {
	run := &domain.Run{Workflow: w}

	_, owned, err := e.ensureNamespace(ctx, w.Namespace)
	if err != nil {
		return run, err
	}
	run.NamespaceOwned = owned

	if w.Source.Private() {
		if err := e.ensureRepoSecret(ctx, w); err != nil {
			return run, err
		}
	}

	for i, stage := range w.Stages {
		run.StageIndex = i

		results := e.runStage(ctx, w, stage)
		run.StepResults = append(run.StepResults, results...)

		failed := failedSteps(results)
		if len(failed) > 0 {
			sweepErr := e.Sweeper.SweepRun(context.WithoutCancel(ctx), w.Namespace, w.Name)
			if sweepErr != nil {
				e.Logger.Printf("executor: sweep after failure reported an error: %v", sweepErr)
			}
			if ctx.Err() != nil {
				return run, domainerrors.NewCancellation(fmt.Sprintf("run cancelled during stage %q", stage.Name))
			}
			return run, aggregateError(failed)
		}
	}

	return run, nil
}

// runStage submits every step of one stage via Ensure, then waits for all
// of their pollers to reach a terminal outcome before returning.
func (e *Executor) runStage(ctx context.Context, w domain.Workflow, stage domain.Stage) []domain.StepResult {
	results := make([]domain.StepResult, len(stage.Steps))

	var wg sync.WaitGroup
	for i, step := range stage.Steps {
		i, step := i, step
		if err := e.ensure(ctx, w, stage.Name, step); err != nil {
			results[i] = domain.StepResult{Stage: stage.Name, Step: step.Name, Outcome: domain.OutcomeFailed, Err: err}
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = e.Poller.Run(ctx, w, stage.Name, step)
		}()
	}
	wg.Wait()

	return results
}

// ensure synthesizes and creates every object of a step's Bundle, in
// dependency order (Deployment before Service before Ingress).
func (e *Executor) ensure(ctx context.Context, w domain.Workflow, stage string, s domain.Step) error {
	bundle := synth.Synthesize(w, stage, s, e.Opts)

	if bundle.Job != nil {
		if _, err := e.Client.CreateJob(ctx, w.Namespace, bundle.Job); err != nil {
			return domainerrors.NewStepFailureCausedBy(fmt.Sprintf("creating job for step %q", s.Name), err)
		}
	}
	if bundle.Deployment != nil {
		if _, err := e.Client.CreateDeployment(ctx, w.Namespace, bundle.Deployment); err != nil {
			return domainerrors.NewStepFailureCausedBy(fmt.Sprintf("creating deployment for step %q", s.Name), err)
		}
	}
	if bundle.Service != nil {
		if _, err := e.Client.CreateService(ctx, w.Namespace, bundle.Service); err != nil {
			return domainerrors.NewStepFailureCausedBy(fmt.Sprintf("creating service for step %q", s.Name), err)
		}
	}
	if bundle.Ingress != nil {
		if _, err := e.Client.CreateIngress(ctx, w.Namespace, bundle.Ingress); err != nil {
			return domainerrors.NewFatalCausedBy(fmt.Sprintf("creating ingress for step %q (no ingress class available?)", s.Name), err)
		}
	}
	return nil
}

func (e *Executor) ensureNamespace(ctx context.Context, name string) (*kubecore.Namespace, bool, error) {
	existing, created, err := e.Client.EnsureNamespace(ctx, &kubecore.Namespace{
		ObjectMeta: kubeapimeta.ObjectMeta{Name: name},
	})
	if err != nil {
		return nil, false, domainerrors.NewPreconditionCausedBy("ensuring namespace", err)
	}
	return existing, created, nil
}

func (e *Executor) ensureRepoSecret(ctx context.Context, w domain.Workflow) error {
	secret := synth.BuildRepoSecret(w)
	if _, err := e.Client.CreateSecret(ctx, w.Namespace, secret); err != nil {
		return domainerrors.NewPreconditionCausedBy("ensuring repo-access secret", err)
	}
	return nil
}

func failedSteps(results []domain.StepResult) []domain.StepResult {
	var failed []domain.StepResult
	for _, r := range results {
		if r.Outcome == domain.OutcomeFailed || r.Outcome == domain.OutcomeTimedOut {
			failed = append(failed, r)
		}
	}
	return failed
}

// aggregateError names every failed step and distinguishes a timeout from
// a step failure only when every failure in the stage was a timeout
// (matching the distinct exit codes of §7).
func aggregateError(failed []domain.StepResult) error {
	names := make([]string, 0, len(failed))
	allTimedOut := true
	for _, r := range failed {
		names = append(names, fmt.Sprintf("%s/%s", r.Stage, r.Step))
		if r.Outcome != domain.OutcomeTimedOut {
			allTimedOut = false
		}
	}
	msg := fmt.Sprintf("step(s) did not succeed: %s", strings.Join(names, ", "))
	if allTimedOut {
		return domainerrors.NewTimeout(msg)
	}
	return domainerrors.NewStepFailure(msg)
}
