package workflows_test

import (
	"context"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kubeapps "k8s.io/api/apps/v1"
	kubebatch "k8s.io/api/batch/v1"
	kubeapimeta "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/valeger/automl/cmd/stagekube/commandline/common"
	"github.com/valeger/automl/cmd/stagekube/commandline/testutil"
	"github.com/valeger/automl/cmd/stagekube/env"
	"github.com/valeger/automl/cmd/stagekube/subcommands/workflows"
	"github.com/valeger/automl/pkg/k8sclient/fake"
)

func jobLabels(workflow, stage string) map[string]string {
	return map[string]string{"app": "automl", "workflow": workflow, "stage": stage}
}

func TestWorkflowsTaskAggregatesStepsAndStagesPerWorkflow(t *testing.T) {
	client := fake.New()
	ctx := context.Background()

	_, err := client.CreateJob(ctx, "automl", &kubebatch.Job{
		ObjectMeta: kubeapimeta.ObjectMeta{Name: "pipeline-a-prepare", Namespace: "automl", Labels: jobLabels("pipeline-a", "prepare")},
	})
	require.NoError(t, err)
	_, err = client.CreateJob(ctx, "automl", &kubebatch.Job{
		ObjectMeta: kubeapimeta.ObjectMeta{Name: "pipeline-a-train-0", Namespace: "automl", Labels: jobLabels("pipeline-a", "train")},
	})
	require.NoError(t, err)
	_, err = client.CreateJob(ctx, "automl", &kubebatch.Job{
		ObjectMeta: kubeapimeta.ObjectMeta{Name: "pipeline-a-train-1", Namespace: "automl", Labels: jobLabels("pipeline-a", "train")},
	})
	require.NoError(t, err)

	var stdout strings.Builder
	cl := testutil.MockCommandline[workflows.Flags]{Stdout_: &stdout}

	err = workflows.Task(ctx, log.New(io.Discard, "", 0), common.CommonFlags{Namespace: "automl"}, env.Env{}, client, cl, nil)
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "pipeline-a")
	assert.Contains(t, out, "workflow")
	// 3 jobs total, but only 2 distinct stages (prepare, train).
	assert.Contains(t, out, "2")
	assert.Contains(t, out, "3")
}

func TestWorkflowsTaskDistinguishesCronWorkflowsByScheduleLabel(t *testing.T) {
	client := fake.New()
	ctx := context.Background()

	labels := jobLabels("nightly-retrain", "train")
	labels["schedule"] = "0 2 * * *"
	_, err := client.CreateDeployment(ctx, "automl", &kubeapps.Deployment{
		ObjectMeta: kubeapimeta.ObjectMeta{Name: "nightly-retrain-serve", Namespace: "automl", Labels: labels},
	})
	require.NoError(t, err)

	var stdout strings.Builder
	cl := testutil.MockCommandline[workflows.Flags]{Stdout_: &stdout}

	err = workflows.Task(ctx, log.New(io.Discard, "", 0), common.CommonFlags{Namespace: "automl"}, env.Env{}, client, cl, nil)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "cw")
}
