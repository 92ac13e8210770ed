package synth

import (
	kubeapps "k8s.io/api/apps/v1"
	kubecore "k8s.io/api/core/v1"
	kubeapimeta "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/valeger/automl/pkg/domain"
	"github.com/valeger/automl/pkg/utils/pointer"
)

// BuildDeployment synthesizes a Deployment for a Service step.
func BuildDeployment(w domain.Workflow, stage string, s domain.Step, opts Options) *kubeapps.Deployment {
	m := NewMetaSource(w.Name, stage, s.Name)
	name := BundleName(w.Name, stage, s.Name)

	podSpec := buildPodSpec(s, w, opts, kubecore.RestartPolicyAlways)
	podSpec.Containers[0].Ports = []kubecore.ContainerPort{{ContainerPort: s.Service.Port}}

	labels := ToLabels(m)

	return &kubeapps.Deployment{
		TypeMeta:   kubeapimeta.TypeMeta{APIVersion: "apps/v1", Kind: "Deployment"},
		ObjectMeta: ToObjectMeta(m, w.Namespace, name),
		Spec: kubeapps.DeploymentSpec{
			Replicas:             pointer.Ref(s.Replicas),
			RevisionHistoryLimit: pointer.Ref(s.RevisionHistoryLimit),
			MinReadySeconds:      s.MinReadySeconds,
			Selector:             &kubeapimeta.LabelSelector{MatchLabels: labels},
			Template: kubecore.PodTemplateSpec{
				ObjectMeta: kubeapimeta.ObjectMeta{Labels: labels},
				Spec:       podSpec,
			},
		},
	}
}
