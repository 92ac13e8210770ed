package synth

import "github.com/valeger/automl/pkg/domain"

// Synthesize builds the Bundle of Kubernetes objects realizing one step.
// Task steps get a Job; Service steps get a Deployment+Service, plus an
// Ingress when s.Service.Ingress is set (spec §8 invariant 2: all objects
// in a bundle share labels, set by the constructors above via MetaSource).
func Synthesize(w domain.Workflow, stage string, s domain.Step, opts Options) Bundle {
	if s.IsService() {
		b := Bundle{
			Deployment: BuildDeployment(w, stage, s, opts),
			Service:    BuildService(w, stage, s),
		}
		if s.Service.Ingress {
			b.Ingress = BuildIngress(w, stage, s)
		}
		return b
	}
	return Bundle{Job: BuildJob(w, stage, s, opts)}
}

// SynthesizeScheduled builds the Bundle for a step belonging to a
// CronWorkflow's first stage, producing a CronJob instead of a Job so the
// cluster — not this process — materializes runs on schedule (spec §8 S5).
func SynthesizeScheduled(cw domain.CronWorkflow, stage string, s domain.Step, opts Options) Bundle {
	if s.IsService() {
		return Synthesize(cw.Workflow, stage, s, opts)
	}
	return Bundle{CronJob: BuildCronJob(cw, stage, s, opts)}
}
