package delete_test

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kubecore "k8s.io/api/core/v1"
	kubeapimeta "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/valeger/automl/cmd/stagekube/commandline/common"
	"github.com/valeger/automl/cmd/stagekube/commandline/testutil"
	"github.com/valeger/automl/cmd/stagekube/env"
	"github.com/valeger/automl/cmd/stagekube/subcommands/secret/delete"
	"github.com/valeger/automl/pkg/k8sclient/fake"
)

func TestDeleteTaskRemovesTheSecret(t *testing.T) {
	client := fake.New()
	ctx := context.Background()

	_, err := client.CreateSecret(ctx, "automl", &kubecore.Secret{
		ObjectMeta: kubeapimeta.ObjectMeta{Name: "api-key", Namespace: "automl"},
	})
	require.NoError(t, err)

	cl := testutil.MockCommandline[delete.Flags]{
		Stdout_: io.Discard,
		Args_:   map[string][]string{delete.ARG_ID: {"api-key"}},
	}

	err = delete.Task(ctx, log.New(io.Discard, "", 0), common.CommonFlags{Namespace: "automl"}, env.Env{}, client, cl, nil)
	require.NoError(t, err)

	_, err = client.GetSecret(ctx, "automl", "api-key")
	assert.Error(t, err)
}
