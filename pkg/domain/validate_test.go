package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/valeger/automl/pkg/domain"
	domainerrors "github.com/valeger/automl/pkg/domain/errors"
)

func validStep(name string) domain.Step {
	return domain.Step{
		Name:                  name,
		PathToExecutable:      "train.py",
		CPURequest:            0.5,
		MemoryRequest:         256,
		TimeoutSeconds:        30,
		PollingIntervalSecond: 1,
		BackoffLimit:          0,
	}
}

func validWorkflow() domain.Workflow {
	return domain.Workflow{
		Namespace: "automl",
		Name:      "pipeline",
		Stages: []domain.Stage{
			{Name: "train", Steps: []domain.Step{validStep("fit")}},
		},
	}
}

func TestValidateTheory(t *testing.T) {
	theory := []struct {
		name    string
		mutate  func(w domain.Workflow) domain.Workflow
		wantErr bool
	}{
		{
			name:    "a well-formed workflow passes",
			mutate:  func(w domain.Workflow) domain.Workflow { return w },
			wantErr: false,
		},
		{
			name: "an empty workflow name is rejected",
			mutate: func(w domain.Workflow) domain.Workflow {
				w.Name = ""
				return w
			},
			wantErr: true,
		},
		{
			name: "a workflow with no stages is rejected",
			mutate: func(w domain.Workflow) domain.Workflow {
				w.Stages = nil
				return w
			},
			wantErr: true,
		},
		{
			name: "duplicate stage names are rejected",
			mutate: func(w domain.Workflow) domain.Workflow {
				w.Stages = append(w.Stages, w.Stages[0])
				return w
			},
			wantErr: true,
		},
		{
			name: "duplicate step names across different stages are rejected",
			mutate: func(w domain.Workflow) domain.Workflow {
				w.Stages = append(w.Stages, domain.Stage{
					Name:  "eval",
					Steps: []domain.Step{validStep("fit")},
				})
				return w
			},
			wantErr: true,
		},
		{
			name: "a step with a non .py/.ipynb executable is rejected",
			mutate: func(w domain.Workflow) domain.Workflow {
				s := w.Stages[0].Steps[0]
				s.PathToExecutable = "train.sh"
				w.Stages[0].Steps[0] = s
				return w
			},
			wantErr: true,
		},
		{
			name: "a step with a non-.txt dependency path is rejected",
			mutate: func(w domain.Workflow) domain.Workflow {
				s := w.Stages[0].Steps[0]
				s.DependencyPath = "requirements.yaml"
				w.Stages[0].Steps[0] = s
				return w
			},
			wantErr: true,
		},
		{
			name: "zero cpu_request is rejected",
			mutate: func(w domain.Workflow) domain.Workflow {
				s := w.Stages[0].Steps[0]
				s.CPURequest = 0
				w.Stages[0].Steps[0] = s
				return w
			},
			wantErr: true,
		},
		{
			name: "a service step without a service block is rejected",
			mutate: func(w domain.Workflow) domain.Workflow {
				s := w.Stages[0].Steps[0]
				s.Kind = domain.ServiceStepKind
				s.Replicas = 1
				w.Stages[0].Steps[0] = s
				return w
			},
			wantErr: true,
		},
		{
			name: "a task step carrying a service block is rejected",
			mutate: func(w domain.Workflow) domain.Workflow {
				s := w.Stages[0].Steps[0]
				s.Service = &domain.ServiceConfig{Port: 8080}
				w.Stages[0].Steps[0] = s
				return w
			},
			wantErr: true,
		},
		{
			name: "a well-formed service step passes",
			mutate: func(w domain.Workflow) domain.Workflow {
				s := w.Stages[0].Steps[0]
				s.Kind = domain.ServiceStepKind
				s.Replicas = 2
				s.Service = &domain.ServiceConfig{Port: 8080}
				w.Stages[0].Steps[0] = s
				return w
			},
			wantErr: false,
		},
	}

	for _, testcase := range theory {
		t.Run(testcase.name, func(t *testing.T) {
			w := testcase.mutate(validWorkflow())
			err := domain.Validate(w, nil, nil)
			if testcase.wantErr {
				assert.Error(t, err)
				assert.True(t, domainerrors.AsValidation(err), "expected ErrValidation, got %T: %v", err, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateKnownSecrets(t *testing.T) {
	w := validWorkflow()
	s := w.Stages[0].Steps[0]
	s.Secrets = []string{"db-creds"}
	w.Stages[0].Steps[0] = s

	t.Run("a referenced secret missing from the known set is a precondition error", func(t *testing.T) {
		err := domain.Validate(w, domain.KnownSecrets{}, nil)
		assert.Error(t, err)
		assert.True(t, domainerrors.AsPrecondition(err))
	})

	t.Run("a nil known-secrets set skips the check entirely", func(t *testing.T) {
		assert.NoError(t, domain.Validate(w, nil, nil))
	})

	t.Run("a referenced secret present in the known set passes", func(t *testing.T) {
		assert.NoError(t, domain.Validate(w, domain.KnownSecrets{"db-creds": true}, nil))
	})
}

func TestValidateSourceTree(t *testing.T) {
	w := validWorkflow()

	t.Run("a nil source tree skips the file-existence check", func(t *testing.T) {
		assert.NoError(t, domain.Validate(w, nil, nil))
	})

	t.Run("a non-nil source tree missing the executable is rejected", func(t *testing.T) {
		err := domain.Validate(w, nil, domain.SourceTree{})
		assert.Error(t, err)
	})

	t.Run("a non-nil source tree containing the executable passes", func(t *testing.T) {
		assert.NoError(t, domain.Validate(w, nil, domain.SourceTree{"train.py": true}))
	})
}
