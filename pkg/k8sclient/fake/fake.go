// Package fake provides an in-memory k8sclient.ClusterClient for the
// end-to-end scenarios of spec §8, adapted in spirit from the teacher's
// pkg/workloads/k8s/mock.MockClient (a function-field stub) but kept as
// genuine in-memory state so tests can script pod-phase transitions over
// simulated time without a real API server.
package fake

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	kubeapps "k8s.io/api/apps/v1"
	kubebatch "k8s.io/api/batch/v1"
	kubecore "k8s.io/api/core/v1"
	kubenet "k8s.io/api/networking/v1"
	kubeerr "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/watch"

	"github.com/valeger/automl/pkg/k8sclient"
)

// Client is an in-memory ClusterClient. Zero value is ready to use.
type Client struct {
	mu sync.Mutex

	namespaces  map[string]*kubecore.Namespace
	jobs        map[string]*kubebatch.Job
	cronjobs    map[string]*kubebatch.CronJob
	deployments map[string]*kubeapps.Deployment
	services    map[string]*kubecore.Service
	ingresses   map[string]*kubenet.Ingress
	secrets     map[string]*kubecore.Secret
	pods        map[string]*kubecore.Pod

	podLogs map[string]string
}

var _ k8sclient.ClusterClient = (*Client)(nil)

func New() *Client {
	return &Client{
		namespaces:  map[string]*kubecore.Namespace{},
		jobs:        map[string]*kubebatch.Job{},
		cronjobs:    map[string]*kubebatch.CronJob{},
		deployments: map[string]*kubeapps.Deployment{},
		services:    map[string]*kubecore.Service{},
		ingresses:   map[string]*kubenet.Ingress{},
		secrets:     map[string]*kubecore.Secret{},
		pods:        map[string]*kubecore.Pod{},
		podLogs:     map[string]string{},
	}
}

func key(namespace, name string) string { return namespace + "/" + name }

func matches(labels map[string]string, sel k8sclient.LabelSelector) bool {
	for k, v := range sel {
		if labels[k] != v {
			return false
		}
	}
	return true
}

// --- Namespace ---

func (c *Client) EnsureNamespace(_ context.Context, ns *kubecore.Namespace) (*kubecore.Namespace, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.namespaces[ns.Name]; ok {
		return existing, false, nil
	}
	cp := ns.DeepCopy()
	c.namespaces[ns.Name] = cp
	return cp, true, nil
}

func (c *Client) DeleteNamespace(_ context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.namespaces, name)
	return nil
}

// --- Job ---

func (c *Client) CreateJob(_ context.Context, namespace string, job *kubebatch.Job) (*kubebatch.Job, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := key(namespace, job.Name)
	if _, ok := c.jobs[k]; ok {
		return nil, kubeerr.NewAlreadyExists(schema.GroupResource{Resource: "jobs"}, job.Name)
	}
	cp := job.DeepCopy()
	cp.Namespace = namespace
	c.jobs[k] = cp
	return cp, nil
}

func (c *Client) GetJob(_ context.Context, namespace, name string) (*kubebatch.Job, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	j, ok := c.jobs[key(namespace, name)]
	if !ok {
		return nil, kubeerr.NewNotFound(schema.GroupResource{Resource: "jobs"}, name)
	}
	return j, nil
}

func (c *Client) DeleteJob(_ context.Context, namespace, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.jobs, key(namespace, name))
	return nil
}

func (c *Client) ListJobs(_ context.Context, namespace string, sel k8sclient.LabelSelector) ([]kubebatch.Job, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []kubebatch.Job
	for _, j := range c.jobs {
		if j.Namespace == namespace && matches(j.Labels, sel) {
			out = append(out, *j)
		}
	}
	return out, nil
}

// --- CronJob ---

func (c *Client) CreateCronJob(_ context.Context, namespace string, cj *kubebatch.CronJob) (*kubebatch.CronJob, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := key(namespace, cj.Name)
	if _, ok := c.cronjobs[k]; ok {
		return nil, kubeerr.NewAlreadyExists(schema.GroupResource{Resource: "cronjobs"}, cj.Name)
	}
	cp := cj.DeepCopy()
	cp.Namespace = namespace
	c.cronjobs[k] = cp
	return cp, nil
}

func (c *Client) GetCronJob(_ context.Context, namespace, name string) (*kubebatch.CronJob, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cj, ok := c.cronjobs[key(namespace, name)]
	if !ok {
		return nil, kubeerr.NewNotFound(schema.GroupResource{Resource: "cronjobs"}, name)
	}
	return cj, nil
}

func (c *Client) DeleteCronJob(_ context.Context, namespace, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cronjobs, key(namespace, name))
	return nil
}

func (c *Client) ListCronJobs(_ context.Context, namespace string, sel k8sclient.LabelSelector) ([]kubebatch.CronJob, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []kubebatch.CronJob
	for _, cj := range c.cronjobs {
		if cj.Namespace == namespace && matches(cj.Labels, sel) {
			out = append(out, *cj)
		}
	}
	return out, nil
}

// --- Deployment ---

func (c *Client) CreateDeployment(_ context.Context, namespace string, depl *kubeapps.Deployment) (*kubeapps.Deployment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := key(namespace, depl.Name)
	if _, ok := c.deployments[k]; ok {
		return nil, kubeerr.NewAlreadyExists(schema.GroupResource{Resource: "deployments"}, depl.Name)
	}
	cp := depl.DeepCopy()
	cp.Namespace = namespace
	c.deployments[k] = cp
	return cp, nil
}

func (c *Client) GetDeployment(_ context.Context, namespace, name string) (*kubeapps.Deployment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.deployments[key(namespace, name)]
	if !ok {
		return nil, kubeerr.NewNotFound(schema.GroupResource{Resource: "deployments"}, name)
	}
	return d, nil
}

func (c *Client) DeleteDeployment(_ context.Context, namespace, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.deployments, key(namespace, name))
	return nil
}

func (c *Client) ListDeployments(_ context.Context, namespace string, sel k8sclient.LabelSelector) ([]kubeapps.Deployment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []kubeapps.Deployment
	for _, d := range c.deployments {
		if d.Namespace == namespace && matches(d.Labels, sel) {
			out = append(out, *d)
		}
	}
	return out, nil
}

// --- Service ---

func (c *Client) CreateService(_ context.Context, namespace string, svc *kubecore.Service) (*kubecore.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := key(namespace, svc.Name)
	if _, ok := c.services[k]; ok {
		return nil, kubeerr.NewAlreadyExists(schema.GroupResource{Resource: "services"}, svc.Name)
	}
	cp := svc.DeepCopy()
	cp.Namespace = namespace
	if cp.Spec.ClusterIP == "" {
		cp.Spec.ClusterIP = "10.0.0.1"
	}
	c.services[k] = cp
	return cp, nil
}

func (c *Client) GetService(_ context.Context, namespace, name string) (*kubecore.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.services[key(namespace, name)]
	if !ok {
		return nil, kubeerr.NewNotFound(schema.GroupResource{Resource: "services"}, name)
	}
	return s, nil
}

func (c *Client) DeleteService(_ context.Context, namespace, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.services, key(namespace, name))
	return nil
}

func (c *Client) ListServices(_ context.Context, namespace string, sel k8sclient.LabelSelector) ([]kubecore.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []kubecore.Service
	for _, s := range c.services {
		if s.Namespace == namespace && matches(s.Labels, sel) {
			out = append(out, *s)
		}
	}
	return out, nil
}

// --- Ingress ---

func (c *Client) CreateIngress(_ context.Context, namespace string, ing *kubenet.Ingress) (*kubenet.Ingress, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := key(namespace, ing.Name)
	if _, ok := c.ingresses[k]; ok {
		return nil, kubeerr.NewAlreadyExists(schema.GroupResource{Resource: "ingresses"}, ing.Name)
	}
	cp := ing.DeepCopy()
	cp.Namespace = namespace
	c.ingresses[k] = cp
	return cp, nil
}

func (c *Client) GetIngress(_ context.Context, namespace, name string) (*kubenet.Ingress, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.ingresses[key(namespace, name)]
	if !ok {
		return nil, kubeerr.NewNotFound(schema.GroupResource{Resource: "ingresses"}, name)
	}
	return i, nil
}

func (c *Client) DeleteIngress(_ context.Context, namespace, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.ingresses, key(namespace, name))
	return nil
}

func (c *Client) ListIngresses(_ context.Context, namespace string, sel k8sclient.LabelSelector) ([]kubenet.Ingress, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []kubenet.Ingress
	for _, i := range c.ingresses {
		if i.Namespace == namespace && matches(i.Labels, sel) {
			out = append(out, *i)
		}
	}
	return out, nil
}

// --- Secret ---

func (c *Client) CreateSecret(_ context.Context, namespace string, secret *kubecore.Secret) (*kubecore.Secret, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := key(namespace, secret.Name)
	if _, ok := c.secrets[k]; ok {
		return nil, kubeerr.NewAlreadyExists(schema.GroupResource{Resource: "secrets"}, secret.Name)
	}
	cp := secret.DeepCopy()
	cp.Namespace = namespace
	c.secrets[k] = cp
	return cp, nil
}

func (c *Client) GetSecret(_ context.Context, namespace, name string) (*kubecore.Secret, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.secrets[key(namespace, name)]
	if !ok {
		return nil, kubeerr.NewNotFound(schema.GroupResource{Resource: "secrets"}, name)
	}
	return s, nil
}

func (c *Client) UpdateSecret(_ context.Context, namespace string, secret *kubecore.Secret) (*kubecore.Secret, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := key(namespace, secret.Name)
	if _, ok := c.secrets[k]; !ok {
		return nil, kubeerr.NewNotFound(schema.GroupResource{Resource: "secrets"}, secret.Name)
	}
	cp := secret.DeepCopy()
	cp.Namespace = namespace
	c.secrets[k] = cp
	return cp, nil
}

func (c *Client) DeleteSecret(_ context.Context, namespace, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.secrets, key(namespace, name))
	return nil
}

func (c *Client) ListSecrets(_ context.Context, namespace string, sel k8sclient.LabelSelector) ([]kubecore.Secret, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []kubecore.Secret
	for _, s := range c.secrets {
		if s.Namespace == namespace && matches(s.Labels, sel) {
			out = append(out, *s)
		}
	}
	return out, nil
}

// --- Pod ---

func (c *Client) FindPods(_ context.Context, namespace string, sel k8sclient.LabelSelector) ([]kubecore.Pod, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []kubecore.Pod
	for _, p := range c.pods {
		if p.Namespace == namespace && matches(p.Labels, sel) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (c *Client) ReadPodLogs(_ context.Context, namespace, pod, container string, tailLines int64) (io.ReadCloser, error) {
	c.mu.Lock()
	logs := c.podLogs[key(namespace, pod)]
	c.mu.Unlock()
	if tailLines > 0 {
		lines := strings.Split(logs, "\n")
		if int64(len(lines)) > tailLines {
			lines = lines[int64(len(lines))-tailLines:]
		}
		logs = strings.Join(lines, "\n")
	}
	return io.NopCloser(strings.NewReader(logs)), nil
}

func (c *Client) Watch(context.Context, string, string, k8sclient.LabelSelector) (watch.Interface, error) {
	return watch.NewEmptyWatch(), nil
}

// --- Test scripting helpers (not part of k8sclient.ClusterClient) ---

// SetPod inserts or replaces a pod, for scripting Pending/Running/Succeeded/
// Failed phase transitions across simulated time in scenario tests.
func (c *Client) SetPod(namespace string, pod *kubecore.Pod) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := pod.DeepCopy()
	cp.Namespace = namespace
	c.pods[key(namespace, pod.Name)] = cp
}

// SetPodLogs seeds the fixed log content ReadPodLogs returns for a pod.
func (c *Client) SetPodLogs(namespace, pod, logs string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.podLogs[key(namespace, pod)] = logs
}

// SetJobStatus mutates a previously created Job's status conditions, used
// to script Job completion/failure independent of its pods.
func (c *Client) SetJobStatus(namespace, name string, status kubebatch.JobStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	j, ok := c.jobs[key(namespace, name)]
	if !ok {
		return fmt.Errorf("fake: job %s/%s not found", namespace, name)
	}
	j.Status = status
	return nil
}

// SetDeploymentStatus mutates a previously created Deployment's status,
// used to script AvailableReplicas progress.
func (c *Client) SetDeploymentStatus(namespace, name string, status kubeapps.DeploymentStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.deployments[key(namespace, name)]
	if !ok {
		return fmt.Errorf("fake: deployment %s/%s not found", namespace, name)
	}
	d.Status = status
	return nil
}

// ObjectCounts reports how many objects of each kind remain in namespace,
// used by Sweeper idempotence tests (invariant 3: after delete, List is
// empty for every kind).
func (c *Client) ObjectCounts(namespace string, sel k8sclient.LabelSelector) map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	counts := map[string]int{}
	for _, j := range c.jobs {
		if j.Namespace == namespace && matches(j.Labels, sel) {
			counts["jobs"]++
		}
	}
	for _, d := range c.deployments {
		if d.Namespace == namespace && matches(d.Labels, sel) {
			counts["deployments"]++
		}
	}
	for _, s := range c.services {
		if s.Namespace == namespace && matches(s.Labels, sel) {
			counts["services"]++
		}
	}
	for _, i := range c.ingresses {
		if i.Namespace == namespace && matches(i.Labels, sel) {
			counts["ingresses"]++
		}
	}
	for _, s := range c.secrets {
		if s.Namespace == namespace && matches(s.Labels, sel) {
			counts["secrets"]++
		}
	}
	for _, cj := range c.cronjobs {
		if cj.Namespace == namespace && matches(cj.Labels, sel) {
			counts["cronjobs"]++
		}
	}
	return counts
}
