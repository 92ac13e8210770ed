// Package sweeper deletes every Kubernetes object owned by a workflow,
// using label selectors as the sole ownership model (spec §9 Design Notes,
// "Label selector as ownership model") rather than an in-memory registry of
// created objects. Adapted in spirit from the teacher's
// cmd/loops/tasks/gc reconciler, but invoked synchronously from the
// Executor rather than run as a standing controller loop (spec.md's CLI
// acts as the controller for the run's lifetime only).
package sweeper

import (
	"context"
	"log"

	"github.com/valeger/automl/pkg/k8sclient"
	"github.com/valeger/automl/pkg/synth"
)

type Sweeper struct {
	Client k8sclient.ClusterClient
	Logger *log.Logger
}

func New(client k8sclient.ClusterClient, logger *log.Logger) *Sweeper {
	return &Sweeper{Client: client, Logger: logger}
}

// SweepRun deletes every run-scoped object (Jobs, CronJobs, Deployments,
// Services, Ingresses) under the workflow's label selector, in reverse
// creation order (Ingress/Service before Deployment, then Jobs/CronJobs).
// Workflow-scoped secrets are NOT touched here: they are deleted only by
// SweepWorkflow, per §4.6 ("deleted only when the workflow is deleted, not
// on per-run failures").
func (s *Sweeper) SweepRun(ctx context.Context, namespace, workflow string) error {
	sel := k8sclient.LabelSelector(synth.WorkflowSelector(workflow))

	ingresses, err := s.Client.ListIngresses(ctx, namespace, sel)
	if err != nil {
		return err
	}
	for _, ing := range ingresses {
		if err := s.deleteIgnoreNotFound(func() error {
			return s.Client.DeleteIngress(ctx, namespace, ing.Name)
		}); err != nil {
			return err
		}
	}

	services, err := s.Client.ListServices(ctx, namespace, sel)
	if err != nil {
		return err
	}
	for _, svc := range services {
		if err := s.deleteIgnoreNotFound(func() error {
			return s.Client.DeleteService(ctx, namespace, svc.Name)
		}); err != nil {
			return err
		}
	}

	deployments, err := s.Client.ListDeployments(ctx, namespace, sel)
	if err != nil {
		return err
	}
	for _, depl := range deployments {
		if err := s.deleteIgnoreNotFound(func() error {
			return s.Client.DeleteDeployment(ctx, namespace, depl.Name)
		}); err != nil {
			return err
		}
	}

	jobs, err := s.Client.ListJobs(ctx, namespace, sel)
	if err != nil {
		return err
	}
	for _, job := range jobs {
		if err := s.deleteIgnoreNotFound(func() error {
			return s.Client.DeleteJob(ctx, namespace, job.Name)
		}); err != nil {
			return err
		}
	}

	cronjobs, err := s.Client.ListCronJobs(ctx, namespace, sel)
	if err != nil {
		return err
	}
	for _, cj := range cronjobs {
		if err := s.deleteIgnoreNotFound(func() error {
			return s.Client.DeleteCronJob(ctx, namespace, cj.Name)
		}); err != nil {
			return err
		}
	}

	s.Logger.Printf("sweeper: run %s swept (%d jobs, %d cronjobs, %d deployments, %d services, %d ingresses)",
		workflow, len(jobs), len(cronjobs), len(deployments), len(services), len(ingresses))
	return nil
}

// SweepWorkflow performs SweepRun plus deletes the workflow's repo/docker
// secrets, and drops the namespace iff it was created by this run and no
// app-labelled Job, CronJob, Deployment or Secret remains in it (§4.6).
func (s *Sweeper) SweepWorkflow(ctx context.Context, namespace, workflow string, namespaceOwned bool) error {
	if err := s.SweepRun(ctx, namespace, workflow); err != nil {
		return err
	}

	secretNames := []string{synth.RepoSecretName(workflow), synth.DockerSecretName(workflow)}
	for _, name := range secretNames {
		if err := s.deleteIgnoreNotFound(func() error {
			return s.Client.DeleteSecret(ctx, namespace, name)
		}); err != nil {
			return err
		}
	}

	if !namespaceOwned {
		return nil
	}

	sel := k8sclient.LabelSelector{"app": synth.LabelApp}
	secrets, err := s.Client.ListSecrets(ctx, namespace, sel)
	if err != nil {
		return err
	}
	jobs, err := s.Client.ListJobs(ctx, namespace, sel)
	if err != nil {
		return err
	}
	cronjobs, err := s.Client.ListCronJobs(ctx, namespace, sel)
	if err != nil {
		return err
	}
	deployments, err := s.Client.ListDeployments(ctx, namespace, sel)
	if err != nil {
		return err
	}
	if len(secrets)+len(jobs)+len(cronjobs)+len(deployments) > 0 {
		return nil
	}
	return s.deleteIgnoreNotFound(func() error {
		return s.Client.DeleteNamespace(ctx, namespace)
	})
}

// deleteIgnoreNotFound treats an absent object as success, matching §4.6's
// idempotence requirement.
func (s *Sweeper) deleteIgnoreNotFound(del func() error) error {
	err := del()
	if err == nil {
		return nil
	}
	if isNotFound(err) {
		return nil
	}
	return err
}
