package synth

import (
	kubecore "k8s.io/api/core/v1"
	kubeapimeta "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/valeger/automl/pkg/domain"
)

// PortName is the name given the single named port every synthesized
// Service exposes.
const PortName = "http"

// BuildService synthesizes a ClusterIP Service in front of a Service
// step's Deployment.
func BuildService(w domain.Workflow, stage string, s domain.Step) *kubecore.Service {
	m := NewMetaSource(w.Name, stage, s.Name)
	name := BundleName(w.Name, stage, s.Name)
	labels := ToLabels(m)

	return &kubecore.Service{
		TypeMeta:   kubeapimeta.TypeMeta{APIVersion: "v1", Kind: "Service"},
		ObjectMeta: ToObjectMeta(m, w.Namespace, name),
		Spec: kubecore.ServiceSpec{
			Selector: labels,
			Ports: []kubecore.ServicePort{{
				Name:       PortName,
				Port:       s.Service.Port,
				TargetPort: intstr.FromInt32(s.Service.Port),
			}},
		},
	}
}
