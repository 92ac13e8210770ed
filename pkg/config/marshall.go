package config

import (
	"fmt"

	"github.com/valeger/automl/pkg/domain"
)

// ServiceMarshall is the YAML shape of a service step's network config.
type ServiceMarshall struct {
	Port    int32 `yaml:"port"`
	Ingress bool  `yaml:"ingress"`
}

// StepMarshall is the YAML shape of one step, covering both the Task and
// Service variants (discriminated by a non-nil Service field), per
// processing/config.py's StepConfig.
//
// Pointer fields distinguish "absent from the document" from "explicitly
// zero" so defaulting can tell backoff_limit=0 (meaningful: no retries)
// from an unset backoff_limit.
type StepMarshall struct {
	StepName          string            `yaml:"step_name"`
	PathToExecutable  string            `yaml:"path_to_executable"`
	DependencyPath    string            `yaml:"dependency_path"`
	Image             string            `yaml:"image,omitempty"`
	Command           []string          `yaml:"command,omitempty"`
	Envs              map[string]string `yaml:"envs,omitempty"`
	Secrets           []string          `yaml:"secrets,omitempty"`
	CPURequest        *float64          `yaml:"cpu_request,omitempty"`
	MemoryRequest     *int64            `yaml:"memory_request,omitempty"`
	Replicas          *int32            `yaml:"replicas,omitempty"`
	BackoffLimit      *int32            `yaml:"backoff_limit,omitempty"`
	RevisionHistLimit *int32            `yaml:"revision_history_limit,omitempty"`
	Timeout           *int64            `yaml:"timeout,omitempty"`
	PollingTime       *int64            `yaml:"polling_time,omitempty"`
	WaitBeforeStart   *int64            `yaml:"wait_before_start_time,omitempty"`
	MinReadySeconds   *int32            `yaml:"min_ready_seconds,omitempty"`
	Service           *ServiceMarshall  `yaml:"service,omitempty"`
}

func (sm *StepMarshall) trySeal(path string, d domain.Defaults) (domain.Step, error) {
	if sm.StepName == "" {
		return domain.Step{}, fmt.Errorf("%s.step_name is required", path)
	}
	if sm.PathToExecutable == "" {
		return domain.Step{}, fmt.Errorf("%s.path_to_executable is required", path)
	}

	s := domain.Step{
		Name:             domain.NormalizeName(sm.StepName),
		PathToExecutable: sm.PathToExecutable,
		DependencyPath:   sm.DependencyPath,
		Image:            sm.Image,
		Command:          sm.Command,
		Envs:             sm.Envs,
	}

	for _, secret := range sm.Secrets {
		s.Secrets = append(s.Secrets, domain.NormalizeName(secret))
	}

	s.CPURequest = orFloat(sm.CPURequest, d.CPURequest)
	s.MemoryRequest = orInt64(sm.MemoryRequest, d.MemoryRequest)
	s.TimeoutSeconds = orInt64(sm.Timeout, d.TimeoutSeconds)
	s.PollingIntervalSecond = orInt64(sm.PollingTime, d.PollingIntervalSeconds)
	s.WarmUpSeconds = orInt64(sm.WaitBeforeStart, d.WarmUpSeconds)

	if sm.Service != nil {
		s.Kind = domain.ServiceStepKind
		s.Replicas = orInt32(sm.Replicas, domain.DefaultReplicas)
		s.RevisionHistoryLimit = orInt32(sm.RevisionHistLimit, d.RevisionHistoryLimit)
		s.MinReadySeconds = orInt32(sm.MinReadySeconds, d.MinReadySeconds)
		if s.Image == "" {
			s.Image = d.DockerImage
		}
		s.Service = &domain.ServiceConfig{
			Port:    sm.Service.Port,
			Ingress: sm.Service.Ingress,
		}
		if s.Service.Port == 0 {
			s.Service.Port = 5000
		}
	} else {
		s.Kind = domain.TaskStep
		s.BackoffLimit = orInt32(sm.BackoffLimit, d.BackoffLimit)
		if s.Image == "" {
			s.Image = d.ClientDockerImage
		}
	}

	return s, nil
}

// WorkflowMarshall is the YAML shape of a full workflow config document:
// top-level `version`, `name`, optional `schedule` (cron workflows only),
// and `stages` as an ordered list to preserve insertion-order significance
// (spec: stage execution order equals order of appearance).
type WorkflowMarshall struct {
	Version  string              `yaml:"version,omitempty"`
	Name     string              `yaml:"name,omitempty"`
	Schedule string              `yaml:"schedule,omitempty"`
	Stages   []StageMarshall     `yaml:"stages"`
}

// StageMarshall preserves the name alongside its steps; callers decode a
// YAML mapping of stage-name -> steps into an ordered slice via
// decodeStages (see decode.go) so iteration order matches the document.
type StageMarshall struct {
	Name  string
	Steps []StepMarshall
}

func (wm *WorkflowMarshall) trySeal(namespace, workflowName string, d domain.Defaults) (domain.Workflow, error) {
	name := wm.Name
	if name == "" {
		name = workflowName
	}

	w := domain.Workflow{
		Namespace: namespace,
		Name:      domain.NormalizeName(name),
		Version:   wm.Version,
	}

	for _, stm := range wm.Stages {
		st := domain.Stage{Name: domain.NormalizeName(stm.Name)}
		for i, stepm := range stm.Steps {
			step, err := stepm.trySeal(fmt.Sprintf("stages.%s[%d]", stm.Name, i), d)
			if err != nil {
				return domain.Workflow{}, err
			}
			st.Steps = append(st.Steps, step)
		}
		w.Stages = append(w.Stages, st)
	}

	return w, nil
}

func orFloat(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func orInt64(v *int64, def int64) int64 {
	if v == nil {
		return def
	}
	return *v
}

func orInt32(v *int32, def int32) int32 {
	if v == nil {
		return def
	}
	return *v
}
