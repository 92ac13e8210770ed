// Package k8sclient provides the narrow Cluster Client capability surface
// the rest of the engine programs against, adapted from the teacher's
// pkg/workloads/k8s.K8sClient interface and extended with the
// Namespace/Ingress/CronJob/Watch/ReadPodLogs operations this domain needs.
package k8sclient

import (
	"context"
	"io"

	kubeapps "k8s.io/api/apps/v1"
	kubebatch "k8s.io/api/batch/v1"
	kubecore "k8s.io/api/core/v1"
	kubenet "k8s.io/api/networking/v1"
	kubeapimeta "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/watch"
	k8s "k8s.io/client-go/kubernetes"
)

// LabelSelector renders to a Kubernetes label-selector query string; it is
// the sole ownership model this engine trusts (spec §9, "Label selector as
// ownership model" — no parallel in-memory created-object registry).
type LabelSelector map[string]string

func (l LabelSelector) QueryString() string {
	if len(l) == 0 {
		return ""
	}
	sel := kubeapimeta.LabelSelector{MatchLabels: l}
	return kubeapimeta.FormatLabelSelector(&sel)
}

// ClusterClient is the capability surface the Synthesizer, Executor,
// Poller and Sweeper are built against. The in-memory fake
// (k8sclient/fake) satisfies the same contract, so none of those
// components ever import client-go directly.
type ClusterClient interface {
	// EnsureNamespace creates ns if absent; created reports whether this
	// call was the one that created it, so the Sweeper can later tell
	// whether the namespace is this run's to drop (§4.6).
	EnsureNamespace(ctx context.Context, ns *kubecore.Namespace) (result *kubecore.Namespace, created bool, err error)
	DeleteNamespace(ctx context.Context, name string) error

	CreateJob(ctx context.Context, namespace string, job *kubebatch.Job) (*kubebatch.Job, error)
	GetJob(ctx context.Context, namespace, name string) (*kubebatch.Job, error)
	DeleteJob(ctx context.Context, namespace, name string) error

	CreateCronJob(ctx context.Context, namespace string, cj *kubebatch.CronJob) (*kubebatch.CronJob, error)
	GetCronJob(ctx context.Context, namespace, name string) (*kubebatch.CronJob, error)
	DeleteCronJob(ctx context.Context, namespace, name string) error

	CreateDeployment(ctx context.Context, namespace string, depl *kubeapps.Deployment) (*kubeapps.Deployment, error)
	GetDeployment(ctx context.Context, namespace, name string) (*kubeapps.Deployment, error)
	DeleteDeployment(ctx context.Context, namespace, name string) error

	CreateService(ctx context.Context, namespace string, svc *kubecore.Service) (*kubecore.Service, error)
	GetService(ctx context.Context, namespace, name string) (*kubecore.Service, error)
	DeleteService(ctx context.Context, namespace, name string) error

	CreateIngress(ctx context.Context, namespace string, ing *kubenet.Ingress) (*kubenet.Ingress, error)
	GetIngress(ctx context.Context, namespace, name string) (*kubenet.Ingress, error)
	DeleteIngress(ctx context.Context, namespace, name string) error

	CreateSecret(ctx context.Context, namespace string, secret *kubecore.Secret) (*kubecore.Secret, error)
	GetSecret(ctx context.Context, namespace, name string) (*kubecore.Secret, error)
	UpdateSecret(ctx context.Context, namespace string, secret *kubecore.Secret) (*kubecore.Secret, error)
	DeleteSecret(ctx context.Context, namespace, name string) error

	FindPods(ctx context.Context, namespace string, selector LabelSelector) ([]kubecore.Pod, error)
	ReadPodLogs(ctx context.Context, namespace, pod, container string, tailLines int64) (io.ReadCloser, error)

	// List* support the `get` CLI command's tabular output, all scoped by
	// workflow/cronworkflow label selector.
	ListJobs(ctx context.Context, namespace string, selector LabelSelector) ([]kubebatch.Job, error)
	ListCronJobs(ctx context.Context, namespace string, selector LabelSelector) ([]kubebatch.CronJob, error)
	ListDeployments(ctx context.Context, namespace string, selector LabelSelector) ([]kubeapps.Deployment, error)
	ListServices(ctx context.Context, namespace string, selector LabelSelector) ([]kubecore.Service, error)
	ListIngresses(ctx context.Context, namespace string, selector LabelSelector) ([]kubenet.Ingress, error)
	ListSecrets(ctx context.Context, namespace string, selector LabelSelector) ([]kubecore.Secret, error)

	// Watch restarts are the caller's responsibility: a watch started here
	// is finite, not a standing controller loop (spec §9 design intent).
	Watch(ctx context.Context, namespace string, resource string, selector LabelSelector) (watch.Interface, error)
}

type clientsetClient struct {
	client *k8s.Clientset
}

var _ ClusterClient = &clientsetClient{}

// Wrap adapts a *kubernetes.Clientset to ClusterClient.
func Wrap(c *k8s.Clientset) ClusterClient {
	return &clientsetClient{client: c}
}

func (c *clientsetClient) EnsureNamespace(ctx context.Context, ns *kubecore.Namespace) (*kubecore.Namespace, bool, error) {
	existing, err := c.client.CoreV1().Namespaces().Get(ctx, ns.Name, kubeapimeta.GetOptions{})
	if err == nil {
		return existing, false, nil
	}
	created, err := c.client.CoreV1().Namespaces().Create(ctx, ns, kubeapimeta.CreateOptions{})
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

func (c *clientsetClient) DeleteNamespace(ctx context.Context, name string) error {
	return c.client.CoreV1().Namespaces().Delete(ctx, name, kubeapimeta.DeleteOptions{})
}

func (c *clientsetClient) CreateJob(ctx context.Context, namespace string, job *kubebatch.Job) (*kubebatch.Job, error) {
	return c.client.BatchV1().Jobs(namespace).Create(ctx, job, kubeapimeta.CreateOptions{})
}

func (c *clientsetClient) GetJob(ctx context.Context, namespace, name string) (*kubebatch.Job, error) {
	return c.client.BatchV1().Jobs(namespace).Get(ctx, name, kubeapimeta.GetOptions{})
}

func (c *clientsetClient) DeleteJob(ctx context.Context, namespace, name string) error {
	foreground := kubeapimeta.DeletePropagationForeground
	return c.client.BatchV1().Jobs(namespace).Delete(ctx, name, kubeapimeta.DeleteOptions{
		PropagationPolicy: &foreground,
	})
}

func (c *clientsetClient) CreateCronJob(ctx context.Context, namespace string, cj *kubebatch.CronJob) (*kubebatch.CronJob, error) {
	return c.client.BatchV1().CronJobs(namespace).Create(ctx, cj, kubeapimeta.CreateOptions{})
}

func (c *clientsetClient) GetCronJob(ctx context.Context, namespace, name string) (*kubebatch.CronJob, error) {
	return c.client.BatchV1().CronJobs(namespace).Get(ctx, name, kubeapimeta.GetOptions{})
}

func (c *clientsetClient) DeleteCronJob(ctx context.Context, namespace, name string) error {
	return c.client.BatchV1().CronJobs(namespace).Delete(ctx, name, kubeapimeta.DeleteOptions{})
}

func (c *clientsetClient) CreateDeployment(ctx context.Context, namespace string, depl *kubeapps.Deployment) (*kubeapps.Deployment, error) {
	return c.client.AppsV1().Deployments(namespace).Create(ctx, depl, kubeapimeta.CreateOptions{})
}

func (c *clientsetClient) GetDeployment(ctx context.Context, namespace, name string) (*kubeapps.Deployment, error) {
	return c.client.AppsV1().Deployments(namespace).Get(ctx, name, kubeapimeta.GetOptions{})
}

func (c *clientsetClient) DeleteDeployment(ctx context.Context, namespace, name string) error {
	return c.client.AppsV1().Deployments(namespace).Delete(ctx, name, kubeapimeta.DeleteOptions{})
}

func (c *clientsetClient) CreateService(ctx context.Context, namespace string, svc *kubecore.Service) (*kubecore.Service, error) {
	return c.client.CoreV1().Services(namespace).Create(ctx, svc, kubeapimeta.CreateOptions{})
}

func (c *clientsetClient) GetService(ctx context.Context, namespace, name string) (*kubecore.Service, error) {
	return c.client.CoreV1().Services(namespace).Get(ctx, name, kubeapimeta.GetOptions{})
}

func (c *clientsetClient) DeleteService(ctx context.Context, namespace, name string) error {
	return c.client.CoreV1().Services(namespace).Delete(ctx, name, kubeapimeta.DeleteOptions{})
}

func (c *clientsetClient) CreateIngress(ctx context.Context, namespace string, ing *kubenet.Ingress) (*kubenet.Ingress, error) {
	return c.client.NetworkingV1().Ingresses(namespace).Create(ctx, ing, kubeapimeta.CreateOptions{})
}

func (c *clientsetClient) GetIngress(ctx context.Context, namespace, name string) (*kubenet.Ingress, error) {
	return c.client.NetworkingV1().Ingresses(namespace).Get(ctx, name, kubeapimeta.GetOptions{})
}

func (c *clientsetClient) DeleteIngress(ctx context.Context, namespace, name string) error {
	return c.client.NetworkingV1().Ingresses(namespace).Delete(ctx, name, kubeapimeta.DeleteOptions{})
}

func (c *clientsetClient) CreateSecret(ctx context.Context, namespace string, secret *kubecore.Secret) (*kubecore.Secret, error) {
	return c.client.CoreV1().Secrets(namespace).Create(ctx, secret, kubeapimeta.CreateOptions{})
}

func (c *clientsetClient) GetSecret(ctx context.Context, namespace, name string) (*kubecore.Secret, error) {
	return c.client.CoreV1().Secrets(namespace).Get(ctx, name, kubeapimeta.GetOptions{})
}

func (c *clientsetClient) UpdateSecret(ctx context.Context, namespace string, secret *kubecore.Secret) (*kubecore.Secret, error) {
	return c.client.CoreV1().Secrets(namespace).Update(ctx, secret, kubeapimeta.UpdateOptions{})
}

func (c *clientsetClient) DeleteSecret(ctx context.Context, namespace, name string) error {
	return c.client.CoreV1().Secrets(namespace).Delete(ctx, name, kubeapimeta.DeleteOptions{})
}

func (c *clientsetClient) FindPods(ctx context.Context, namespace string, selector LabelSelector) ([]kubecore.Pod, error) {
	resp, err := c.client.CoreV1().Pods(namespace).List(ctx, kubeapimeta.ListOptions{LabelSelector: selector.QueryString()})
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *clientsetClient) ReadPodLogs(ctx context.Context, namespace, pod, container string, tailLines int64) (io.ReadCloser, error) {
	opts := &kubecore.PodLogOptions{Container: container}
	if tailLines > 0 {
		opts.TailLines = &tailLines
	}
	return c.client.CoreV1().Pods(namespace).GetLogs(pod, opts).Stream(ctx)
}

func (c *clientsetClient) ListJobs(ctx context.Context, namespace string, selector LabelSelector) ([]kubebatch.Job, error) {
	resp, err := c.client.BatchV1().Jobs(namespace).List(ctx, kubeapimeta.ListOptions{LabelSelector: selector.QueryString()})
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *clientsetClient) ListCronJobs(ctx context.Context, namespace string, selector LabelSelector) ([]kubebatch.CronJob, error) {
	resp, err := c.client.BatchV1().CronJobs(namespace).List(ctx, kubeapimeta.ListOptions{LabelSelector: selector.QueryString()})
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *clientsetClient) ListDeployments(ctx context.Context, namespace string, selector LabelSelector) ([]kubeapps.Deployment, error) {
	resp, err := c.client.AppsV1().Deployments(namespace).List(ctx, kubeapimeta.ListOptions{LabelSelector: selector.QueryString()})
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *clientsetClient) ListServices(ctx context.Context, namespace string, selector LabelSelector) ([]kubecore.Service, error) {
	resp, err := c.client.CoreV1().Services(namespace).List(ctx, kubeapimeta.ListOptions{LabelSelector: selector.QueryString()})
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *clientsetClient) ListIngresses(ctx context.Context, namespace string, selector LabelSelector) ([]kubenet.Ingress, error) {
	resp, err := c.client.NetworkingV1().Ingresses(namespace).List(ctx, kubeapimeta.ListOptions{LabelSelector: selector.QueryString()})
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *clientsetClient) ListSecrets(ctx context.Context, namespace string, selector LabelSelector) ([]kubecore.Secret, error) {
	resp, err := c.client.CoreV1().Secrets(namespace).List(ctx, kubeapimeta.ListOptions{LabelSelector: selector.QueryString()})
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *clientsetClient) Watch(ctx context.Context, namespace string, resource string, selector LabelSelector) (watch.Interface, error) {
	opts := kubeapimeta.ListOptions{LabelSelector: selector.QueryString()}
	switch resource {
	case "pods":
		return c.client.CoreV1().Pods(namespace).Watch(ctx, opts)
	case "jobs":
		return c.client.BatchV1().Jobs(namespace).Watch(ctx, opts)
	case "deployments":
		return c.client.AppsV1().Deployments(namespace).Watch(ctx, opts)
	default:
		return nil, errUnsupportedWatchResource(resource)
	}
}
