package executor_test

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kubebatch "k8s.io/api/batch/v1"

	"github.com/valeger/automl/pkg/domain"
	domainerrors "github.com/valeger/automl/pkg/domain/errors"
	"github.com/valeger/automl/pkg/executor"
	"github.com/valeger/automl/pkg/k8sclient"
	"github.com/valeger/automl/pkg/k8sclient/fake"
	"github.com/valeger/automl/pkg/synth"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func singleStageWorkflow(namespace, name string) domain.Workflow {
	return domain.Workflow{
		Namespace: namespace,
		Name:      name,
		Source:    domain.SourceRef{Host: "github.com", Repo: "acme/demo", Branch: "main"},
		Stages: []domain.Stage{
			{Name: "train", Steps: []domain.Step{
				{
					Name:                  "fit",
					PathToExecutable:      "train.py",
					Image:                 "valeger/automl:v1",
					CPURequest:            0.5,
					MemoryRequest:         256,
					TimeoutSeconds:        30,
					PollingIntervalSecond: 1,
				},
			}},
		},
	}
}

// autoSucceedJobs marks every job this executor creates as Succeeded as soon as
// it is submitted, by racing the Poller's own polling loop: the fake client
// has no admission hook, so the test instead pre-seeds completion via a
// goroutine that watches for the job to appear.
func autoSucceedJobs(t *testing.T, client *fake.Client, namespace string) (stop func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		seen := map[string]bool{}
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			jobs, err := client.ListJobs(ctx, namespace, k8sclient.LabelSelector{"app": synth.LabelApp})
			if err == nil {
				for _, j := range jobs {
					if seen[j.Name] {
						continue
					}
					seen[j.Name] = true
					_ = client.SetJobStatus(namespace, j.Name, kubebatch.JobStatus{Succeeded: 1})
				}
			}
		}
	}()
	return cancel
}

func TestExecutorRunSingleStageSuccess(t *testing.T) {
	client := fake.New()
	stop := autoSucceedJobs(t, client, "automl")
	defer stop()

	e := executor.New(client, testLogger(), synth.Options{})
	w := singleStageWorkflow("automl", "pipeline")

	run, err := e.Run(context.Background(), w)
	require.NoError(t, err)
	require.Len(t, run.StepResults, 1)
	assert.Equal(t, domain.OutcomeSucceeded, run.StepResults[0].Outcome)
	assert.True(t, run.NamespaceOwned, "namespace did not exist before Run")
}

func TestExecutorRunSweepsOnStepFailure(t *testing.T) {
	client := fake.New()
	const namespace = "automl"

	go func() {
		ctx := context.Background()
		for i := 0; i < 200; i++ {
			jobs, err := client.ListJobs(ctx, namespace, k8sclient.LabelSelector{"app": synth.LabelApp})
			if err == nil && len(jobs) > 0 {
				_ = client.SetJobStatus(namespace, jobs[0].Name, kubebatch.JobStatus{Failed: 1})
				return
			}
		}
	}()

	e := executor.New(client, testLogger(), synth.Options{})
	w := singleStageWorkflow(namespace, "pipeline")

	run, err := e.Run(context.Background(), w)
	require.Error(t, err)
	assert.True(t, domainerrors.AsStepFailure(err))
	require.Len(t, run.StepResults, 1)
	assert.Equal(t, domain.OutcomeFailed, run.StepResults[0].Outcome)

	sel := k8sclient.LabelSelector(synth.WorkflowSelector(w.Name))
	counts := client.ObjectCounts(namespace, sel)
	assert.Zero(t, counts["jobs"], "a failed step's job must be swept")
}

func TestExecutorRunTimeoutAggregatesAsTimeout(t *testing.T) {
	client := fake.New()
	e := executor.New(client, testLogger(), synth.Options{})
	w := singleStageWorkflow("automl", "pipeline")
	w.Stages[0].Steps[0].TimeoutSeconds = 0
	w.Stages[0].Steps[0].WarmUpSeconds = 0
	// Job never reaches a terminal status; a zero timeout budget forces an
	// immediate OutcomeTimedOut on the Poller's first check.

	run, err := e.Run(context.Background(), w)
	require.Error(t, err)
	assert.True(t, domainerrors.AsTimeout(err))
	require.Len(t, run.StepResults, 1)
	assert.Equal(t, domain.OutcomeTimedOut, run.StepResults[0].Outcome)
}

func TestExecutorRunEnsuresRepoSecretForPrivateSource(t *testing.T) {
	client := fake.New()
	stop := autoSucceedJobs(t, client, "automl")
	defer stop()

	e := executor.New(client, testLogger(), synth.Options{})
	w := singleStageWorkflow("automl", "pipeline")
	w.Source.Token = "ghp_abc123"

	_, err := e.Run(context.Background(), w)
	require.NoError(t, err)

	_, err = client.GetSecret(context.Background(), "automl", synth.RepoSecretName(w.Name))
	assert.NoError(t, err, "a private source must have its repo-access secret created")
}
