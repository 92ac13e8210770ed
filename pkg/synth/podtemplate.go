package synth

import (
	"fmt"
	"strings"

	kubecore "k8s.io/api/core/v1"
	kubeapiresource "k8s.io/apimachinery/pkg/api/resource"

	"github.com/valeger/automl/pkg/domain"
)

// ContainerName is the constant container name every synthesized pod
// carries, matching the original's CONTAINER_NAME default.
const ContainerName = "automl"

// Options configure details of synthesis that depend on cluster state the
// step's own config cannot express.
type Options struct {
	// HasDockerSecret is true when a docker-registry-typed secret is
	// registered for the workflow; imagePullSecrets is attached only then
	// (§4.2 supplement), narrower than the original's unconditional
	// attachment.
	HasDockerSecret bool
}

func containerCommand(s domain.Step, w domain.Workflow) (command, args []string) {
	if len(s.Command) > 0 {
		// Custom image with an explicit entrypoint override: run as-is.
		return nil, s.Command
	}

	setup := fmt.Sprintf(
		"git clone $(echo $REPO_URL) && cd %s && git checkout %s && python -m pip install -r %s && ",
		w.Source.ProjectDir, w.Source.Branch, s.DependencyPath,
	)

	var run string
	if strings.HasSuffix(s.PathToExecutable, ".ipynb") {
		run = fmt.Sprintf("jupyter nbconvert --to notebook --execute %s", s.PathToExecutable)
	} else {
		run = fmt.Sprintf("python %s", s.PathToExecutable)
	}

	return []string{"/bin/sh", "-c"}, []string{setup + run}
}

func resourceRequirements(s domain.Step) kubecore.ResourceRequirements {
	return kubecore.ResourceRequirements{
		Requests: kubecore.ResourceList{
			kubecore.ResourceCPU:    kubeapiresource.MustParse(fmt.Sprintf("%g", s.CPURequest)),
			kubecore.ResourceMemory: kubeapiresource.MustParse(fmt.Sprintf("%dM", s.MemoryRequest)),
		},
		// Requests only, no limits: preserved from the original, whose
		// intent here (QoS policy vs. oversight) is undocumented.
	}
}

func containerEnv(s domain.Step) []kubecore.EnvVar {
	if len(s.Envs) == 0 {
		return nil
	}
	envs := make([]kubecore.EnvVar, 0, len(s.Envs))
	for name, value := range s.Envs {
		envs = append(envs, kubecore.EnvVar{Name: name, Value: value})
	}
	return envs
}

func containerEnvFrom(s domain.Step, w domain.Workflow) []kubecore.EnvFromSource {
	names := append([]string{}, s.Secrets...)
	if w.Source.Private() {
		names = append(names, RepoSecretName(w.Name))
	}
	if len(names) == 0 {
		return nil
	}
	envFrom := make([]kubecore.EnvFromSource, 0, len(names))
	for _, name := range names {
		envFrom = append(envFrom, kubecore.EnvFromSource{
			SecretRef: &kubecore.SecretEnvSource{LocalObjectReference: kubecore.LocalObjectReference{Name: name}},
		})
	}
	return envFrom
}

func buildContainer(s domain.Step, w domain.Workflow) kubecore.Container {
	command, args := containerCommand(s, w)
	return kubecore.Container{
		Name:            ContainerName,
		Image:           s.Image,
		ImagePullPolicy: kubecore.PullAlways,
		Resources:       resourceRequirements(s),
		Env:             containerEnv(s),
		EnvFrom:         containerEnvFrom(s, w),
		Command:         command,
		Args:            args,
	}
}

func buildPodSpec(s domain.Step, w domain.Workflow, opts Options, restartPolicy kubecore.RestartPolicy) kubecore.PodSpec {
	spec := kubecore.PodSpec{
		Containers:    []kubecore.Container{buildContainer(s, w)},
		RestartPolicy: restartPolicy,
	}
	if opts.HasDockerSecret {
		spec.ImagePullSecrets = []kubecore.LocalObjectReference{{Name: DockerSecretName(w.Name)}}
	}
	return spec
}
