package delete

import (
	"context"
	"log"

	"github.com/youta-t/flarc"

	"github.com/valeger/automl/cmd/stagekube/commandline/common"
	"github.com/valeger/automl/cmd/stagekube/env"
	"github.com/valeger/automl/pkg/domain"
	domainerrors "github.com/valeger/automl/pkg/domain/errors"
	"github.com/valeger/automl/pkg/k8sclient"
)

type Flags struct{}

const ARG_ID = "ID"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Remove a secret.",
		Flags{},
		flarc.Args{
			{Name: ARG_ID, Required: true, Repeatable: false, Help: "secret name"},
		},
		common.NewTask(Task),
	)
}

func Task(
	ctx context.Context,
	logger *log.Logger,
	cf common.CommonFlags,
	_ env.Env,
	client k8sclient.ClusterClient,
	cl flarc.Commandline[Flags],
	params []any,
) error {
	name := cl.Args()[ARG_ID][0]
	namespace := common.Namespace(cf, domain.DefaultNamespace)

	if err := client.DeleteSecret(ctx, namespace, name); err != nil {
		return domainerrors.NewPreconditionCausedBy("deleting secret", err)
	}
	logger.Printf("secret %q removed from namespace %q", name, namespace)
	return nil
}
