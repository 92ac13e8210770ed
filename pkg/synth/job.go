package synth

import (
	kubebatch "k8s.io/api/batch/v1"
	kubecore "k8s.io/api/core/v1"
	kubeapimeta "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/valeger/automl/pkg/domain"
	"github.com/valeger/automl/pkg/utils/pointer"
)

// BuildJob synthesizes a Job for a Task step, grounded on
// original_source/automl/k8s/job.py:create_job_object.
func BuildJob(w domain.Workflow, stage string, s domain.Step, opts Options) *kubebatch.Job {
	m := NewMetaSource(w.Name, stage, s.Name)
	name := BundleName(w.Name, stage, s.Name)

	podSpec := buildPodSpec(s, w, opts, kubecore.RestartPolicyNever)

	meta := ToObjectMeta(m, w.Namespace, name)
	meta.Annotations = map[string]string{"executable_module": s.PathToExecutable}

	return &kubebatch.Job{
		TypeMeta: kubeapimeta.TypeMeta{APIVersion: "batch/v1", Kind: "Job"},
		ObjectMeta: meta,
		Spec: kubebatch.JobSpec{
			Template: kubecore.PodTemplateSpec{
				ObjectMeta: kubeapimeta.ObjectMeta{Labels: ToLabels(m)},
				Spec:       podSpec,
			},
			Completions:  pointer.Ref(int32(1)),
			BackoffLimit: pointer.Ref(s.BackoffLimit),
		},
	}
}

// BuildCronJob wraps BuildJob's template into a CronJob for scheduled
// materialization (spec §8 S5): no Jobs are created immediately, only the
// CronJob object with the given schedule.
func BuildCronJob(cw domain.CronWorkflow, stage string, s domain.Step, opts Options) *kubebatch.CronJob {
	job := BuildJob(cw.Workflow, stage, s, opts)

	return &kubebatch.CronJob{
		TypeMeta:   kubeapimeta.TypeMeta{APIVersion: "batch/v1", Kind: "CronJob"},
		ObjectMeta: job.ObjectMeta,
		Spec: kubebatch.CronJobSpec{
			Schedule:                   cw.Schedule,
			SuccessfulJobsHistoryLimit: pointer.Ref(int32(domain.RunnerSuccessfulJobsHistory)),
			FailedJobsHistoryLimit:     pointer.Ref(int32(domain.RunnerFailedJobsHistory)),
			JobTemplate: kubebatch.JobTemplateSpec{
				ObjectMeta: job.ObjectMeta,
				Spec:       job.Spec,
			},
		},
	}
}
