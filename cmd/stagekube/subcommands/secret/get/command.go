package get

import (
	"context"
	"fmt"
	"log"

	"github.com/youta-t/flarc"

	"github.com/valeger/automl/cmd/stagekube/commandline/common"
	"github.com/valeger/automl/cmd/stagekube/env"
	"github.com/valeger/automl/pkg/domain"
	"github.com/valeger/automl/pkg/k8sclient"
)

type Flags struct{}

const ARG_ID = "ID"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Show a secret's known keys, never its values.",
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

	secret, err := client.GetSecret(ctx, namespace, name)
	if err != nil {
		return err
	}
	for key := range secret.Data {
		fmt.Fprintln(cl.Stdout(), key)
	}
	for key := range secret.StringData {
		fmt.Fprintln(cl.Stdout(), key)
	}
	return nil
}
