package sweeper_test

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kubeapps "k8s.io/api/apps/v1"
	kubebatch "k8s.io/api/batch/v1"
	kubecore "k8s.io/api/core/v1"
	kubenet "k8s.io/api/networking/v1"
	kubeapimeta "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/valeger/automl/pkg/k8sclient"
	"github.com/valeger/automl/pkg/k8sclient/fake"
	"github.com/valeger/automl/pkg/sweeper"
	"github.com/valeger/automl/pkg/synth"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func seedWorkflowObjects(t *testing.T, client *fake.Client, namespace, workflow string) {
	t.Helper()
	ctx := context.Background()
	labels := synth.WorkflowSelector(workflow)

	_, err := client.CreateJob(ctx, namespace, &kubebatch.Job{
		ObjectMeta: kubeapimeta.ObjectMeta{Name: workflow + "-job", Namespace: namespace, Labels: labels},
	})
	require.NoError(t, err)

	_, err = client.CreateCronJob(ctx, namespace, &kubebatch.CronJob{
		ObjectMeta: kubeapimeta.ObjectMeta{Name: workflow + "-cronjob", Namespace: namespace, Labels: labels},
	})
	require.NoError(t, err)

	_, err = client.CreateDeployment(ctx, namespace, &kubeapps.Deployment{
		ObjectMeta: kubeapimeta.ObjectMeta{Name: workflow + "-deployment", Namespace: namespace, Labels: labels},
	})
	require.NoError(t, err)

	_, err = client.CreateService(ctx, namespace, &kubecore.Service{
		ObjectMeta: kubeapimeta.ObjectMeta{Name: workflow + "-service", Namespace: namespace, Labels: labels},
	})
	require.NoError(t, err)

	_, err = client.CreateIngress(ctx, namespace, &kubenet.Ingress{
		ObjectMeta: kubeapimeta.ObjectMeta{Name: workflow + "-ingress", Namespace: namespace, Labels: labels},
	})
	require.NoError(t, err)
}

func TestSweepRunDeletesAllRunScopedObjects(t *testing.T) {
	client := fake.New()
	const namespace, workflow = "automl", "pipeline"
	seedWorkflowObjects(t, client, namespace, workflow)

	sel := k8sclient.LabelSelector(synth.WorkflowSelector(workflow))
	counts := client.ObjectCounts(namespace, sel)
	require.Equal(t, 1, counts["jobs"])
	require.Equal(t, 1, counts["cronjobs"])
	require.Equal(t, 1, counts["deployments"])
	require.Equal(t, 1, counts["services"])
	require.Equal(t, 1, counts["ingresses"])

	sw := sweeper.New(client, testLogger())
	require.NoError(t, sw.SweepRun(context.Background(), namespace, workflow))

	after := client.ObjectCounts(namespace, sel)
	assert.Zero(t, after["jobs"])
	assert.Zero(t, after["cronjobs"])
	assert.Zero(t, after["deployments"])
	assert.Zero(t, after["services"])
	assert.Zero(t, after["ingresses"])
}

func TestSweepRunIsIdempotent(t *testing.T) {
	client := fake.New()
	const namespace, workflow = "automl", "pipeline"
	seedWorkflowObjects(t, client, namespace, workflow)

	sw := sweeper.New(client, testLogger())
	require.NoError(t, sw.SweepRun(context.Background(), namespace, workflow))
	// A second sweep against already-deleted objects must still succeed
	// (deleteIgnoreNotFound absorbs the NotFound error).
	assert.NoError(t, sw.SweepRun(context.Background(), namespace, workflow))
}

func TestSweepRunLeavesSecretsUntouched(t *testing.T) {
	client := fake.New()
	const namespace, workflow = "automl", "pipeline"
	ctx := context.Background()

	_, err := client.CreateSecret(ctx, namespace, &kubecore.Secret{
		ObjectMeta: kubeapimeta.ObjectMeta{Name: synth.RepoSecretName(workflow), Namespace: namespace,
			Labels: map[string]string{"app": synth.LabelApp}},
	})
	require.NoError(t, err)

	sw := sweeper.New(client, testLogger())
	require.NoError(t, sw.SweepRun(ctx, namespace, workflow))

	_, err = client.GetSecret(ctx, namespace, synth.RepoSecretName(workflow))
	assert.NoError(t, err, "SweepRun must never delete workflow secrets")
}

func TestSweepWorkflowDeletesSecrets(t *testing.T) {
	client := fake.New()
	const namespace, workflow = "automl", "pipeline"
	ctx := context.Background()

	_, err := client.CreateSecret(ctx, namespace, &kubecore.Secret{
		ObjectMeta: kubeapimeta.ObjectMeta{Name: synth.RepoSecretName(workflow), Namespace: namespace,
			Labels: map[string]string{"app": synth.LabelApp}},
	})
	require.NoError(t, err)
	_, err = client.CreateSecret(ctx, namespace, &kubecore.Secret{
		ObjectMeta: kubeapimeta.ObjectMeta{Name: synth.DockerSecretName(workflow), Namespace: namespace,
			Labels: map[string]string{"app": synth.LabelApp}},
	})
	require.NoError(t, err)

	sw := sweeper.New(client, testLogger())
	require.NoError(t, sw.SweepWorkflow(ctx, namespace, workflow, false))

	_, err = client.GetSecret(ctx, namespace, synth.RepoSecretName(workflow))
	assert.Error(t, err)
	_, err = client.GetSecret(ctx, namespace, synth.DockerSecretName(workflow))
	assert.Error(t, err)
}

func TestSweepWorkflowDeletesNamespaceOnlyWhenOwnedAndEmpty(t *testing.T) {
	ctx := context.Background()
	const namespace, workflow = "automl", "pipeline"

	t.Run("not namespace-owned leaves the namespace alone", func(t *testing.T) {
		client := fake.New()
		_, _, err := client.EnsureNamespace(ctx, &kubecore.Namespace{ObjectMeta: kubeapimeta.ObjectMeta{Name: namespace}})
		require.NoError(t, err)

		sw := sweeper.New(client, testLogger())
		require.NoError(t, sw.SweepWorkflow(ctx, namespace, workflow, false))

		_, _, err = client.EnsureNamespace(ctx, &kubecore.Namespace{ObjectMeta: kubeapimeta.ObjectMeta{Name: namespace}})
		assert.NoError(t, err, "namespace must still exist")
	})

	t.Run("owned and empty of other workflows' secrets is deleted", func(t *testing.T) {
		client := fake.New()
		_, created, err := client.EnsureNamespace(ctx, &kubecore.Namespace{ObjectMeta: kubeapimeta.ObjectMeta{Name: namespace}})
		require.NoError(t, err)
		require.True(t, created)

		sw := sweeper.New(client, testLogger())
		require.NoError(t, sw.SweepWorkflow(ctx, namespace, workflow, true))

		_, created, err = client.EnsureNamespace(ctx, &kubecore.Namespace{ObjectMeta: kubeapimeta.ObjectMeta{Name: namespace}})
		require.NoError(t, err)
		assert.True(t, created, "namespace was deleted and EnsureNamespace had to recreate it")
	})

	t.Run("owned but another workflow's secret remains keeps the namespace", func(t *testing.T) {
		client := fake.New()
		_, _, err := client.EnsureNamespace(ctx, &kubecore.Namespace{ObjectMeta: kubeapimeta.ObjectMeta{Name: namespace}})
		require.NoError(t, err)
		_, err = client.CreateSecret(ctx, namespace, &kubecore.Secret{
			ObjectMeta: kubeapimeta.ObjectMeta{Name: synth.RepoSecretName("other"), Namespace: namespace,
				Labels: map[string]string{"app": synth.LabelApp}},
		})
		require.NoError(t, err)

		sw := sweeper.New(client, testLogger())
		require.NoError(t, sw.SweepWorkflow(ctx, namespace, workflow, true))

		_, created, err := client.EnsureNamespace(ctx, &kubecore.Namespace{ObjectMeta: kubeapimeta.ObjectMeta{Name: namespace}})
		require.NoError(t, err)
		assert.False(t, created, "namespace must survive while another workflow's secret remains")
	})
}
