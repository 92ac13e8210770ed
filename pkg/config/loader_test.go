package config_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valeger/automl/pkg/config"
	"github.com/valeger/automl/pkg/domain"
	domainerrors "github.com/valeger/automl/pkg/domain/errors"
)

const validTaskDoc = `
name: pipeline
stages:
  train:
    - step_name: fit
      path_to_executable: train.py
      image: valeger/automl:v1
`

func TestLoadDecodesAndDefaultsAMinimalDocument(t *testing.T) {
	w, err := config.Load(context.Background(), []byte(validTaskDoc), "automl", "fallback", config.Options{SkipImageCheck: true})
	require.NoError(t, err)

	assert.Equal(t, "automl", w.Namespace)
	assert.Equal(t, "pipeline", w.Name)
	require.Len(t, w.Stages, 1)
	require.Len(t, w.Stages[0].Steps, 1)

	step := w.Stages[0].Steps[0]
	assert.Equal(t, "fit", step.Name)
	assert.Equal(t, float64(0.5), step.CPURequest, "defaulted from domain.NewDefaults")
	assert.Equal(t, int64(20), step.TimeoutSeconds)
}

func TestLoadFallsBackToCallerNameWhenDocumentOmitsOne(t *testing.T) {
	doc := `
stages:
  train:
    - step_name: fit
      path_to_executable: train.py
      image: valeger/automl:v1
`
	w, err := config.Load(context.Background(), []byte(doc), "automl", "my-fallback-name", config.Options{SkipImageCheck: true})
	require.NoError(t, err)
	assert.Equal(t, "my-fallback-name", w.Name)
}

func TestLoadRejectsUnknownTopLevelKey(t *testing.T) {
	doc := `
name: pipeline
bogus_key: true
stages:
  train:
    - step_name: fit
      path_to_executable: train.py
`
	_, err := config.Load(context.Background(), []byte(doc), "automl", "fallback", config.Options{SkipImageCheck: true})
	require.Error(t, err)
	assert.True(t, domainerrors.AsValidation(err))
}

func TestLoadRejectsUnknownStepField(t *testing.T) {
	doc := `
name: pipeline
stages:
  train:
    - step_name: fit
      path_to_executable: train.py
      cpu_requset: 1.0
`
	_, err := config.Load(context.Background(), []byte(doc), "automl", "fallback", config.Options{SkipImageCheck: true})
	require.Error(t, err, "a typo'd field must be rejected by strict decoding, not silently dropped")
}

func TestLoadRejectsMissingRequiredStepFields(t *testing.T) {
	theory := []struct {
		name string
		doc  string
	}{
		{"missing step_name", `
name: pipeline
stages:
  train:
    - path_to_executable: train.py
`},
		{"missing path_to_executable", `
name: pipeline
stages:
  train:
    - step_name: fit
`},
	}

	for _, testcase := range theory {
		t.Run(testcase.name, func(t *testing.T) {
			_, err := config.Load(context.Background(), []byte(testcase.doc), "automl", "fallback", config.Options{SkipImageCheck: true})
			assert.Error(t, err)
		})
	}
}

func TestLoadValidatesSecretReferencesAgainstKnownSecrets(t *testing.T) {
	doc := `
name: pipeline
stages:
  train:
    - step_name: fit
      path_to_executable: train.py
      image: valeger/automl:v1
      secrets:
        - api-key
`
	_, err := config.Load(context.Background(), []byte(doc), "automl", "fallback", config.Options{
		SkipImageCheck: true,
		KnownSecrets:   domain.KnownSecrets{},
	})
	require.Error(t, err)
	assert.True(t, domainerrors.AsPrecondition(err))

	w, err := config.Load(context.Background(), []byte(doc), "automl", "fallback", config.Options{
		SkipImageCheck: true,
		KnownSecrets:   domain.KnownSecrets{"api-key": true},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"api-key"}, w.Stages[0].Steps[0].Secrets)
}

func TestLoadValidatesSourceTreeReferences(t *testing.T) {
	doc := `
name: pipeline
stages:
  train:
    - step_name: fit
      path_to_executable: missing.py
      image: valeger/automl:v1
`
	_, err := config.Load(context.Background(), []byte(doc), "automl", "fallback", config.Options{
		SkipImageCheck: true,
		SourceTree:     domain.SourceTree{"train.py": true},
	})
	require.Error(t, err)
	assert.True(t, domainerrors.AsValidation(err))
}

func TestLoadCronWorkflowRequiresSchedule(t *testing.T) {
	_, err := config.LoadCronWorkflow(context.Background(), []byte(validTaskDoc), "automl", "fallback", config.Options{SkipImageCheck: true})
	require.Error(t, err)
	assert.True(t, domainerrors.AsValidation(err))
}

func TestLoadCronWorkflowAcceptsAValidSchedule(t *testing.T) {
	doc := validTaskDoc + "schedule: \"0 * * * *\"\n"
	cw, err := config.LoadCronWorkflow(context.Background(), []byte(doc), "automl", "fallback", config.Options{SkipImageCheck: true})
	require.NoError(t, err)
	assert.Equal(t, "0 * * * *", cw.Schedule)
}

func TestLoadCronWorkflowRejectsAnInvalidSchedule(t *testing.T) {
	doc := validTaskDoc + "schedule: \"not a schedule\"\n"
	_, err := config.LoadCronWorkflow(context.Background(), []byte(doc), "automl", "fallback", config.Options{SkipImageCheck: true})
	require.Error(t, err)
}

func TestLoadWarnsOnVersionMismatchWithoutFailing(t *testing.T) {
	var gotDoc, gotBuild string
	config.SetVersionWarner(func(docVersion, buildVersion string) {
		gotDoc, gotBuild = docVersion, buildVersion
	})
	defer config.SetVersionWarner(func(string, string) {})

	doc := "version: v1\n" + validTaskDoc
	_, err := config.Load(context.Background(), []byte(doc), "automl", "fallback", config.Options{SkipImageCheck: true, Version: "v2"})
	require.NoError(t, err, "a version mismatch must warn, not fail (Open Question ii)")
	assert.Equal(t, "v1", gotDoc)
	assert.Equal(t, "v2", gotBuild)
}

func TestLoadServiceStepDefaultsAndValidation(t *testing.T) {
	doc := `
name: pipeline
stages:
  serve:
    - step_name: api
      path_to_executable: serve.py
      image: valeger/automl-client:v1
      service:
        port: 8080
`
	w, err := config.Load(context.Background(), []byte(doc), "automl", "fallback", config.Options{SkipImageCheck: true})
	require.NoError(t, err)

	step := w.Stages[0].Steps[0]
	assert.True(t, step.IsService())
	assert.Equal(t, domain.DefaultReplicas, step.Replicas)
	require.NotNil(t, step.Service)
	assert.Equal(t, int32(8080), step.Service.Port)
}
