package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/valeger/automl/pkg/domain"
)

func TestNormalizeName(t *testing.T) {
	theory := []struct {
		name string
		in   string
		want string
	}{
		{"already normalized", "train-step", "train-step"},
		{"uppercase is lowered", "Train_Step", "train-step"},
		{"spaces collapse to a single hyphen", "my workflow name", "my-workflow-name"},
		{"leading/trailing noise is trimmed", "__feature__", "feature"},
		{"dots survive", "v1.2.step", "v1.2.step"},
		{"runs of invalid characters collapse", "a///b", "a-b"},
	}

	for _, testcase := range theory {
		t.Run(testcase.name, func(t *testing.T) {
			assert.Equal(t, testcase.want, domain.NormalizeName(testcase.in))
		})
	}
}

func TestNormalizeNameIdempotent(t *testing.T) {
	inputs := []string{"Train_Step", "__feature__", "a///b", "already-fine"}
	for _, in := range inputs {
		once := domain.NormalizeName(in)
		twice := domain.NormalizeName(once)
		assert.Equal(t, once, twice, "NormalizeName must be idempotent for %q", in)
	}
}

func TestNormalizeWorkflow(t *testing.T) {
	w := domain.Workflow{
		Namespace: "My NS",
		Name:      "My Pipeline",
		Stages: []domain.Stage{
			{Name: "Train Stage", Steps: []domain.Step{{Name: "Fit Step"}}},
		},
	}

	got := domain.NormalizeWorkflow(w)

	assert.Equal(t, "my-ns", got.Namespace)
	assert.Equal(t, "my-pipeline", got.Name)
	assert.Equal(t, "train-stage", got.Stages[0].Name)
	assert.Equal(t, "fit-step", got.Stages[0].Steps[0].Name)
}

func TestNormalizeWorkflowIdempotent(t *testing.T) {
	w := domain.Workflow{
		Namespace: "My NS",
		Name:      "My Pipeline",
		Stages: []domain.Stage{
			{Name: "Train Stage", Steps: []domain.Step{{Name: "Fit Step"}}},
		},
	}

	once := domain.NormalizeWorkflow(w)
	twice := domain.NormalizeWorkflow(once)
	assert.Equal(t, once, twice)
}
