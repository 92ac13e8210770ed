// Package shared holds the pieces workflow and cw subcommands both need:
// parsing the source repository reference off the command line and
// driving/reporting an Executor run. Kept out of pkg/ since it is CLI
// presentation glue, not engine logic.
package shared

import (
	"context"
	"fmt"
	"log"
	"strings"

	kubeapimeta "k8s.io/apimachinery/pkg/apis/meta/v1"
	kubecore "k8s.io/api/core/v1"

	"github.com/valeger/automl/pkg/domain"
	domainerrors "github.com/valeger/automl/pkg/domain/errors"
	"github.com/valeger/automl/pkg/executor"
	"github.com/valeger/automl/pkg/k8sclient"
	"github.com/valeger/automl/pkg/sourcefetch"
	"github.com/valeger/automl/pkg/synth"
)

// ParseRepoRef splits a "<host>/<owner>/<repo>" positional argument (e.g.
// "github.com/valeger/automl-example") into a domain.SourceRef, applying
// branch/token from the command's own flags. host is resolved the same
// way pkg/sourcefetch.For resolves it, so an unsupported host fails here
// with the same message the fetch step would otherwise produce later.
func ParseRepoRef(repoArg, branch, token string) (domain.SourceRef, error) {
	parts := strings.SplitN(repoArg, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return domain.SourceRef{}, domainerrors.NewValidation(
			fmt.Sprintf("repository reference %q must be <host>/<owner>/<repo>, e.g. github.com/acme/demo", repoArg),
		)
	}
	if _, err := sourcefetch.For(parts[0]); err != nil {
		return domain.SourceRef{}, err
	}
	return domain.SourceRef{
		Host:   parts[0],
		Repo:   parts[1],
		Branch: branch,
		Token:  token,
	}, nil
}

// FallbackName derives a workflow name from a repo reference's final path
// segment when the caller supplies neither --id nor a `name` field in the
// config document.
func FallbackName(repoArg string) string {
	segs := strings.Split(strings.TrimRight(repoArg, "/"), "/")
	return domain.NormalizeName(segs[len(segs)-1])
}

// FetchConfigDocument rejects a host sourcefetch.For does not support,
// then downloads path from ref's repository as a single raw file
// (sourcefetch.FetchConfig), returning its raw bytes. ref is passed
// through unmodified; callers assign it onto the resulting Workflow after
// config.Load succeeds, since the Config Loader itself never sees Source
// (the YAML document carries no repository fields, spec §6's "Input").
func FetchConfigDocument(ctx context.Context, ref domain.SourceRef, path string) ([]byte, domain.SourceRef, error) {
	if _, err := sourcefetch.For(ref.Host); err != nil {
		return nil, ref, err
	}
	content, err := sourcefetch.FetchConfig(ctx, ref, path)
	if err != nil {
		return nil, ref, err
	}
	return content, ref, nil
}

// KnownSecrets lists the generic secrets already labelled app=automl in
// namespace, the set `create`/`update workflow` confirm a step's `secrets`
// references against. Auto-managed secrets (repo-<name>, docker-<name>)
// are intentionally excluded: a step is never meant to reference its own
// workflow's repo-access credential by name.
func KnownSecrets(ctx context.Context, client k8sclient.ClusterClient, namespace string) (domain.KnownSecrets, error) {
	secrets, err := client.ListSecrets(ctx, namespace, k8sclient.LabelSelector{"app": synth.LabelApp, "kind": "user-secret"})
	if err != nil {
		return nil, domainerrors.NewPreconditionCausedBy("listing known secrets", err)
	}
	known := domain.KnownSecrets{}
	for _, s := range secrets {
		known[s.Name] = true
	}
	return known, nil
}

// RunWorkflow drives an Executor over w and logs a per-step summary. It
// returns the executor's own error unmodified so the caller's outer frame
// can map it to an exit code.
func RunWorkflow(ctx context.Context, logger *log.Logger, client k8sclient.ClusterClient, w domain.Workflow, opts synth.Options) (*domain.Run, error) {
	exec := executor.New(client, logger, opts)
	run, err := exec.Run(ctx, w)
	for _, r := range run.StepResults {
		logger.Printf("stage=%s step=%s outcome=%s", r.Stage, r.Step, r.Outcome)
		if r.Outcome == domain.OutcomeFailed || r.Outcome == domain.OutcomeTimedOut {
			if r.Logs != "" {
				logger.Printf("stage=%s step=%s logs:\n%s", r.Stage, r.Step, r.Logs)
			}
		}
	}
	return run, err
}

// RunCronWorkflow ensures the namespace and repo secret, then submits every
// step's bundle once. Unlike RunWorkflow it never polls: a cron workflow's
// task steps fire on the cluster's own schedule long after this call
// returns, and any service step is brought up immediately (synth.
// SynthesizeScheduled), exactly as a plain workflow's service step would
// be.
func RunCronWorkflow(ctx context.Context, logger *log.Logger, client k8sclient.ClusterClient, cw domain.CronWorkflow, opts synth.Options) error {
	w := cw.Workflow

	if _, _, err := client.EnsureNamespace(ctx, &kubecore.Namespace{ObjectMeta: kubeapimeta.ObjectMeta{Name: w.Namespace}}); err != nil {
		return domainerrors.NewPreconditionCausedBy("ensuring namespace", err)
	}
	if w.Source.Private() {
		if _, err := client.CreateSecret(ctx, w.Namespace, synth.BuildRepoSecret(w)); err != nil {
			return domainerrors.NewPreconditionCausedBy("ensuring repo-access secret", err)
		}
	}

	for _, stage := range w.Stages {
		for _, step := range stage.Steps {
			bundle := synth.SynthesizeScheduled(cw, stage.Name, step, opts)
			if bundle.CronJob != nil {
				if _, err := client.CreateCronJob(ctx, w.Namespace, bundle.CronJob); err != nil {
					return domainerrors.NewStepFailureCausedBy(fmt.Sprintf("creating cronjob for step %q", step.Name), err)
				}
			}
			if bundle.Deployment != nil {
				if _, err := client.CreateDeployment(ctx, w.Namespace, bundle.Deployment); err != nil {
					return domainerrors.NewStepFailureCausedBy(fmt.Sprintf("creating deployment for step %q", step.Name), err)
				}
			}
			if bundle.Service != nil {
				if _, err := client.CreateService(ctx, w.Namespace, bundle.Service); err != nil {
					return domainerrors.NewStepFailureCausedBy(fmt.Sprintf("creating service for step %q", step.Name), err)
				}
			}
			if bundle.Ingress != nil {
				if _, err := client.CreateIngress(ctx, w.Namespace, bundle.Ingress); err != nil {
					return domainerrors.NewFatalCausedBy(fmt.Sprintf("creating ingress for step %q", step.Name), err)
				}
			}
			logger.Printf("stage=%s step=%s submitted", stage.Name, step.Name)
		}
	}
	return nil
}
