package domain

import (
	"fmt"
	"regexp"

	domainerrors "github.com/valeger/automl/pkg/domain/errors"
)

var (
	reExecutablePath = regexp.MustCompile(`^.+\.(py|ipynb)$`)
	reDependencyPath = regexp.MustCompile(`^.+\.txt$`)
)

// KnownSecrets is the set of secret names the caller has already confirmed
// exist (cluster-side Secrets plus any about to be Ensure'd for this run),
// used to validate a step's `secrets` references.
type KnownSecrets map[string]bool

// SourceTree lists paths the fetched/staged source tree contains, used to
// validate a step's path_to_executable/dependency_path references exist.
type SourceTree map[string]bool

// Validate checks w against every domain invariant and edge case. It does
// not mutate the cluster; on success w is ready for synthesis.
func Validate(w Workflow, known KnownSecrets, tree SourceTree) error {
	if w.Name == "" {
		return domainerrors.NewValidation("workflow name must not be empty after normalization")
	}
	if len(w.Stages) == 0 {
		return domainerrors.NewValidation("workflow must declare at least one stage")
	}

	seenStages := map[string]bool{}
	seenSteps := map[string]bool{} // across the whole workflow, per Design Notes (iii)

	for _, st := range w.Stages {
		if st.Name == "" {
			return domainerrors.NewValidation("stage name must not be empty after normalization")
		}
		if seenStages[st.Name] {
			return domainerrors.NewValidation(fmt.Sprintf("duplicate stage name %q", st.Name))
		}
		seenStages[st.Name] = true

		if len(st.Steps) == 0 {
			return domainerrors.NewValidation(fmt.Sprintf("stage %q must declare at least one step", st.Name))
		}

		for _, s := range st.Steps {
			if err := validateStep(s, seenSteps, known, tree); err != nil {
				return err
			}
		}
	}

	return nil
}

func validateStep(s Step, seenSteps map[string]bool, known KnownSecrets, tree SourceTree) error {
	if s.Name == "" {
		return domainerrors.NewValidation("step name must not be empty after normalization")
	}
	if seenSteps[s.Name] {
		return domainerrors.NewValidation(fmt.Sprintf("duplicate step name %q across workflow", s.Name))
	}
	seenSteps[s.Name] = true

	if !reExecutablePath.MatchString(s.PathToExecutable) {
		return domainerrors.NewValidation(
			fmt.Sprintf("step %q: path_to_executable %q must have a .py or .ipynb extension", s.Name, s.PathToExecutable),
		)
	}
	if s.DependencyPath != "" && !reDependencyPath.MatchString(s.DependencyPath) {
		return domainerrors.NewValidation(
			fmt.Sprintf("step %q: dependency_path %q must have a .txt extension", s.Name, s.DependencyPath),
		)
	}
	if tree != nil {
		if !tree[s.PathToExecutable] {
			return domainerrors.NewValidation(fmt.Sprintf("step %q: %s not found in fetched source", s.Name, s.PathToExecutable))
		}
		if s.DependencyPath != "" && !tree[s.DependencyPath] {
			return domainerrors.NewValidation(fmt.Sprintf("step %q: %s not found in fetched source", s.Name, s.DependencyPath))
		}
	}

	for _, secret := range s.Secrets {
		if known != nil && !known[secret] {
			return domainerrors.NewPrecondition(fmt.Sprintf("step %q references unknown secret %q", s.Name, secret))
		}
	}

	if s.CPURequest <= 0 {
		return domainerrors.NewValidation(fmt.Sprintf("step %q: cpu_request must be > 0", s.Name))
	}
	if s.MemoryRequest <= 0 {
		return domainerrors.NewValidation(fmt.Sprintf("step %q: memory_request must be > 0", s.Name))
	}
	if s.TimeoutSeconds <= 0 {
		return domainerrors.NewValidation(fmt.Sprintf("step %q: timeout must be > 0", s.Name))
	}
	if s.PollingIntervalSecond <= 0 {
		return domainerrors.NewValidation(fmt.Sprintf("step %q: polling_time must be > 0", s.Name))
	}
	if s.BackoffLimit < 0 {
		return domainerrors.NewValidation(fmt.Sprintf("step %q: backoff_limit must be >= 0", s.Name))
	}

	if s.IsService() {
		if s.Service == nil {
			return domainerrors.NewValidation(fmt.Sprintf("step %q: service steps require a service block", s.Name))
		}
		if s.Replicas <= 0 {
			return domainerrors.NewValidation(fmt.Sprintf("step %q: replicas must be > 0", s.Name))
		}
		if s.RevisionHistoryLimit < 0 {
			return domainerrors.NewValidation(fmt.Sprintf("step %q: revision_history_limit must be >= 0", s.Name))
		}
		if s.Service.Port <= 0 {
			return domainerrors.NewValidation(fmt.Sprintf("step %q: service.port must be > 0", s.Name))
		}
	} else if s.Service != nil {
		return domainerrors.NewValidation(fmt.Sprintf("step %q: task steps must not carry a service block", s.Name))
	}

	return nil
}
