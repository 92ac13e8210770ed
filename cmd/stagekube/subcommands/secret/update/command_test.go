package update_test

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kubecore "k8s.io/api/core/v1"
	kubeapimeta "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/valeger/automl/cmd/stagekube/commandline/common"
	"github.com/valeger/automl/cmd/stagekube/commandline/testutil"
	"github.com/valeger/automl/cmd/stagekube/env"
	"github.com/valeger/automl/cmd/stagekube/subcommands/secret/update"
	"github.com/valeger/automl/pkg/k8sclient/fake"
)

func TestUpdateTaskReplacesSecretData(t *testing.T) {
	client := fake.New()
	ctx := context.Background()

	_, err := client.CreateSecret(ctx, "automl", &kubecore.Secret{
		ObjectMeta: kubeapimeta.ObjectMeta{Name: "api-key", Namespace: "automl"},
		Data:       map[string][]byte{"OLD": []byte("gone")},
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "secret.yaml")
	require.NoError(t, os.WriteFile(path, []byte("NEW: value\n"), 0o600))

	cl := testutil.MockCommandline[update.Flags]{
		Stdout_: io.Discard,
		Flags_:  update.Flags{File: path},
		Args_:   map[string][]string{update.ARG_ID: {"api-key"}},
	}

	err = update.Task(ctx, log.New(io.Discard, "", 0), common.CommonFlags{Namespace: "automl"}, env.Env{}, client, cl, nil)
	require.NoError(t, err)

	secret, err := client.GetSecret(ctx, "automl", "api-key")
	require.NoError(t, err)
	assert.Equal(t, "value", secret.StringData["NEW"])
	assert.Nil(t, secret.Data)
}

func TestUpdateTaskRejectsUnknownSecret(t *testing.T) {
	client := fake.New()
	path := filepath.Join(t.TempDir(), "secret.yaml")
	require.NoError(t, os.WriteFile(path, []byte("NEW: value\n"), 0o600))

	cl := testutil.MockCommandline[update.Flags]{
		Stdout_: io.Discard,
		Flags_:  update.Flags{File: path},
		Args_:   map[string][]string{update.ARG_ID: {"missing"}},
	}

	err := update.Task(context.Background(), log.New(io.Discard, "", 0), common.CommonFlags{Namespace: "automl"}, env.Env{}, client, cl, nil)
	assert.Error(t, err)
}
