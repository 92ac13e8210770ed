// Package poller implements the per-step state machine of spec §4.5: one
// Poller watches exactly one step's workload until it reaches a terminal
// domain.Outcome, polling the Cluster Client at a bounded interval rather
// than consuming a live watch stream (the periodic-Get fallback named
// alongside watch consumption in §4.5 — this implementation relies on it
// exclusively, which keeps the state machine a pure function of repeated
// Get calls and easy to drive from the fake ClusterClient in tests).
package poller

import (
	"context"
	"fmt"
	"log"
	"time"

	kubeapps "k8s.io/api/apps/v1"
	kubebatch "k8s.io/api/batch/v1"

	"github.com/valeger/automl/pkg/domain"
	"github.com/valeger/automl/pkg/k8sclient"
	"github.com/valeger/automl/pkg/loop"
	"github.com/valeger/automl/pkg/synth"
)

// maxBackoffMultiple bounds the linear backoff on transient connection
// errors to 10x the step's base polling interval (§4.5).
const maxBackoffMultiple = 10

// tailLines is how many trailing log lines are requested from each of a
// failing step's pods; captureLogs keeps at most the first 4096 bytes it
// reads from each.
const tailLines = 200

// Poller drives one step to a terminal domain.Outcome.
type Poller struct {
	Client k8sclient.ClusterClient
	Logger *log.Logger
}

func New(client k8sclient.ClusterClient, logger *log.Logger) *Poller {
	return &Poller{Client: client, Logger: logger}
}

type pollState struct {
	attempt int
	outcome domain.Outcome
	logs    string
	err     error
}

// Run blocks until the step named by (stage, step) reaches a terminal
// outcome, context cancellation, or its timeout budget (TimeoutSeconds +
// WarmUpSeconds, measured from the moment Ensure returned success, per §5)
// elapses.
func (p *Poller) Run(ctx context.Context, w domain.Workflow, stage string, s domain.Step) domain.StepResult {
	start := time.Now()
	deadline := start.Add(time.Duration(s.WarmUpSeconds+s.TimeoutSeconds) * time.Second)
	base := time.Duration(s.PollingIntervalSecond) * time.Second
	if base <= 0 {
		base = time.Second
	}

	bundleName := synth.BundleName(w.Name, stage, s.Name)

	task := func(ctx context.Context, st pollState) (pollState, loop.Next) {
		if time.Now().After(deadline) {
			st.outcome = domain.OutcomeTimedOut
			st.logs = p.captureLogs(ctx, w.Name, w.Namespace, stage, s)
			return st, loop.Break(nil)
		}

		outcome, err := p.probe(ctx, w.Namespace, s, bundleName)
		if err != nil {
			st.attempt++
			p.Logger.Printf("poller: %s/%s transient error, retrying: %v", stage, s.Name, err)
			return st, loop.Continue(backoff(base, st.attempt))
		}
		st.attempt = 0

		if !outcome.Terminal() {
			return st, loop.Continue(base)
		}

		st.outcome = outcome
		if outcome == domain.OutcomeFailed {
			st.logs = p.captureLogs(ctx, w.Name, w.Namespace, stage, s)
		}
		return st, loop.Break(nil)
	}

	if s.WarmUpSeconds > 0 {
		timer := time.NewTimer(time.Duration(s.WarmUpSeconds) * time.Second)
		select {
		case <-ctx.Done():
			timer.Stop()
			return domain.StepResult{Stage: stage, Step: s.Name, Outcome: domain.OutcomeFailed, Err: ctx.Err()}
		case <-timer.C:
		}
	}

	final, err := loop.Start(ctx, pollState{}, task)
	if err != nil {
		// context cancellation: surfaced as Failed so the Executor sweeps
		// the run and reports it as a cancellation.
		return domain.StepResult{Stage: stage, Step: s.Name, Outcome: domain.OutcomeFailed, Err: err}
	}

	return domain.StepResult{
		Stage:   stage,
		Step:    s.Name,
		Outcome: final.outcome,
		Logs:    final.logs,
		Err:     final.err,
	}
}

// probe reads the step's current status and translates it into a
// (possibly non-terminal) Outcome. Non-terminal is represented as
// OutcomeUnknown.
func (p *Poller) probe(ctx context.Context, namespace string, s domain.Step, name string) (domain.Outcome, error) {
	if s.IsService() {
		depl, err := p.Client.GetDeployment(ctx, namespace, name)
		if err != nil {
			return domain.OutcomeUnknown, err
		}
		return deploymentOutcome(depl, s), nil
	}
	job, err := p.Client.GetJob(ctx, namespace, name)
	if err != nil {
		return domain.OutcomeUnknown, err
	}
	return jobOutcome(job), nil
}

// jobOutcome mirrors original_source/automl/k8s/job.py:get_job_status.
func jobOutcome(job *kubebatch.Job) domain.Outcome {
	switch {
	case job.Status.Succeeded > 0:
		return domain.OutcomeSucceeded
	case job.Status.Failed > 0:
		return domain.OutcomeFailed
	default:
		return domain.OutcomeUnknown
	}
}

// deploymentOutcome mirrors original_source/automl/k8s/deployment.py's
// AVAILABLE/ROLLOUT split, requiring AvailableReplicas to reach
// s.Replicas (§4.4: "terminal once ... Available (>= minReadySeconds for
// at least replicas pods)").
func deploymentOutcome(depl *kubeapps.Deployment, s domain.Step) domain.Outcome {
	if depl.Status.AvailableReplicas >= s.Replicas && depl.Status.AvailableReplicas > 0 {
		return domain.OutcomeSucceeded
	}
	return domain.OutcomeUnknown
}

func (p *Poller) captureLogs(ctx context.Context, workflow, namespace, stage string, s domain.Step) string {
	pods, err := p.Client.FindPods(ctx, namespace, k8sclient.LabelSelector{
		"app": synth.LabelApp, "workflow": workflow, "stage": stage, "step": s.Name,
	})
	if err != nil || len(pods) == 0 {
		return ""
	}

	var combined string
	for _, pod := range pods {
		rc, err := p.Client.ReadPodLogs(ctx, namespace, pod.Name, synth.ContainerName, tailLines)
		if err != nil {
			continue
		}
		buf := make([]byte, 4096)
		n, _ := rc.Read(buf)
		rc.Close()
		combined += fmt.Sprintf("\npod=%s\n%s", pod.Name, string(buf[:n]))
	}
	return combined
}

func backoff(base time.Duration, attempt int) time.Duration {
	mult := attempt
	if mult > maxBackoffMultiple {
		mult = maxBackoffMultiple
	}
	return base * time.Duration(mult)
}
