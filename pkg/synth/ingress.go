package synth

import (
	"fmt"

	kubenet "k8s.io/api/networking/v1"
	kubeapimeta "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/valeger/automl/pkg/domain"
	"github.com/valeger/automl/pkg/utils/pointer"
)

// IngressClassName is the ingress controller this engine targets, matching
// the original's hard assumption of an ingress-nginx deployment
// (defaults.py NGINX_CONTROLLER_NAME/NAMESPACE).
const IngressClassName = "nginx"

// BuildIngress synthesizes an Ingress fronting a Service step's Service,
// only called when s.Service.Ingress is true.
func BuildIngress(w domain.Workflow, stage string, s domain.Step) *kubenet.Ingress {
	m := NewMetaSource(w.Name, stage, s.Name)
	name := BundleName(w.Name, stage, s.Name)
	pathType := kubenet.PathTypePrefix

	return &kubenet.Ingress{
		TypeMeta:   kubeapimeta.TypeMeta{APIVersion: "networking.k8s.io/v1", Kind: "Ingress"},
		ObjectMeta: ToObjectMeta(m, w.Namespace, name),
		Spec: kubenet.IngressSpec{
			IngressClassName: pointer.Ref(IngressClassName),
			Rules: []kubenet.IngressRule{{
				Host: fmt.Sprintf("%s.%s.%s.local", s.Name, w.Name, w.Namespace),
				IngressRuleValue: kubenet.IngressRuleValue{
					HTTP: &kubenet.HTTPIngressRuleValue{
						Paths: []kubenet.HTTPIngressPath{{
							Path:     "/",
							PathType: &pathType,
							Backend: kubenet.IngressBackend{
								Service: &kubenet.IngressServiceBackend{
									Name: name,
									Port: kubenet.ServiceBackendPort{Number: s.Service.Port},
								},
							},
						}},
					},
				},
			}},
		},
	}
}
