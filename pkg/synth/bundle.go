package synth

import (
	kubeapps "k8s.io/api/apps/v1"
	kubebatch "k8s.io/api/batch/v1"
	kubecore "k8s.io/api/core/v1"
	kubenet "k8s.io/api/networking/v1"
)

// Bundle is the set of Kubernetes objects synthesized from exactly one
// step. A Task step produces a Job (or CronJob, for the top-level scheduled
// workflow); a Service step produces a Deployment, a Service, and
// optionally an Ingress. Exactly one of Job/CronJob is set, xor
// Deployment+Service are set (spec §8 invariant 2).
type Bundle struct {
	Job        *kubebatch.Job
	CronJob    *kubebatch.CronJob
	Deployment *kubeapps.Deployment
	Service    *kubecore.Service
	Ingress    *kubenet.Ingress
}

// Objects flattens a Bundle into its constituent objects in creation order:
// dependencies (Deployment) before dependents (Service, Ingress), matching
// the order the Executor applies them in.
func (b Bundle) Objects() []any {
	var objs []any
	if b.Job != nil {
		objs = append(objs, b.Job)
	}
	if b.CronJob != nil {
		objs = append(objs, b.CronJob)
	}
	if b.Deployment != nil {
		objs = append(objs, b.Deployment)
	}
	if b.Service != nil {
		objs = append(objs, b.Service)
	}
	if b.Ingress != nil {
		objs = append(objs, b.Ingress)
	}
	return objs
}
