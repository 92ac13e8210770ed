// Package synth maps a validated domain.Step into the Kubernetes objects
// that realize it (a Bundle), following the teacher's
// pkg/workloads/metasource MetaSource/ToLabels pattern of deriving object
// metadata from a small descriptor interface rather than hand-assembling
// label maps at each call site.
package synth

import (
	kubeapimeta "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// LabelApp is the constant recommended-label value the original stamps on
// every object it creates (`"app": "automl"`).
const LabelApp = "automl"

// MetaSource describes one synthesized object's ownership coordinates.
// ToLabels/ToObjectMeta below build the recommended-label + selector-label
// scheme spec §8 invariant 2 requires: {workflow, stage, step} shared
// across every object in a step's bundle.
type MetaSource interface {
	Workflow() string
	Stage() string
	Step() string
}

type source struct {
	workflow, stage, step string
}

func (s source) Workflow() string { return s.workflow }
func (s source) Stage() string    { return s.stage }
func (s source) Step() string     { return s.step }

func NewMetaSource(workflow, stage, step string) MetaSource {
	return source{workflow: workflow, stage: stage, step: step}
}

// ToLabels renders the label set every step-owned object shares: `app`,
// `workflow`, `stage`, `step`. This is the sole ownership model the
// Sweeper trusts.
func ToLabels(m MetaSource) map[string]string {
	l := map[string]string{
		"app":      LabelApp,
		"workflow": m.Workflow(),
	}
	if m.Stage() != "" {
		l["stage"] = m.Stage()
	}
	if m.Step() != "" {
		l["step"] = m.Step()
	}
	return l
}

// ToObjectMeta builds an ObjectMeta stamped with ToLabels(m), for a given
// object name and namespace.
func ToObjectMeta(m MetaSource, namespace, name string) kubeapimeta.ObjectMeta {
	return kubeapimeta.ObjectMeta{
		Name:      name,
		Namespace: namespace,
		Labels:    ToLabels(m),
	}
}

// WorkflowSelector returns the label set that identifies every object
// owned by a workflow, for Sweeper's label-selector deletion and the CLI's
// `get` commands.
func WorkflowSelector(workflow string) map[string]string {
	return map[string]string{"app": LabelApp, "workflow": workflow}
}
