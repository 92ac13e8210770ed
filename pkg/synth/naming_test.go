package synth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/valeger/automl/pkg/synth"
)

func TestBundleNameDeterministic(t *testing.T) {
	a := synth.BundleName("pipeline", "train", "fit")
	b := synth.BundleName("pipeline", "train", "fit")
	assert.Equal(t, a, b, "BundleName must be a pure function of (workflow, stage, step)")
}

func TestBundleNameDistinguishesIdentity(t *testing.T) {
	theory := []struct {
		name             string
		workflow         string
		stage            string
		step             string
		differsFromFirst bool
	}{
		{"baseline", "pipeline", "train", "fit", false},
		{"different step", "pipeline", "train", "evaluate", true},
		{"different stage", "pipeline", "eval", "fit", true},
		{"different workflow", "other-pipeline", "train", "fit", true},
	}

	baseline := synth.BundleName("pipeline", "train", "fit")
	for _, testcase := range theory {
		t.Run(testcase.name, func(t *testing.T) {
			got := synth.BundleName(testcase.workflow, testcase.stage, testcase.step)
			if testcase.differsFromFirst {
				assert.NotEqual(t, baseline, got)
			} else {
				assert.Equal(t, baseline, got)
			}
		})
	}
}

func TestBundleNameCarriesSuffix(t *testing.T) {
	name := synth.BundleName("pipeline", "train", "fit")
	assert.Equal(t, "pipeline-train-fit-", name[:len("pipeline-train-fit-")])
	suffix := name[len("pipeline-train-fit-"):]
	assert.Len(t, suffix, 6)
}

func TestRepoSecretNameAndDockerSecretNameAreDeterministicAndScoped(t *testing.T) {
	assert.Equal(t, "repo-pipeline", synth.RepoSecretName("pipeline"))
	assert.Equal(t, "repo-other", synth.RepoSecretName("other"))
	assert.Equal(t, "docker-pipeline", synth.DockerSecretName("pipeline"))
	assert.NotEqual(t, synth.RepoSecretName("pipeline"), synth.DockerSecretName("pipeline"))
}
