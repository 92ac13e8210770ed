package secrets

import (
	"context"
	"log"

	"github.com/youta-t/flarc"

	"github.com/valeger/automl/cmd/stagekube/commandline/common"
	"github.com/valeger/automl/cmd/stagekube/env"
	"github.com/valeger/automl/cmd/stagekube/subcommands/display"
	"github.com/valeger/automl/pkg/domain"
	"github.com/valeger/automl/pkg/k8sclient"
	"github.com/valeger/automl/pkg/synth"
	"github.com/valeger/automl/pkg/utils"

	kubecore "k8s.io/api/core/v1"
)

type Flags struct{}

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"List secrets registered for steps to reference.",
		Flags{},
		flarc.Args{},
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
	namespace := common.Namespace(cf, domain.DefaultNamespace)
	sel := k8sclient.LabelSelector{"app": synth.LabelApp, "kind": "user-secret"}

	list, err := client.ListSecrets(ctx, namespace, sel)
	if err != nil {
		return err
	}

	rows := utils.Map(list, func(s kubecore.Secret) display.SecretRow {
		return display.SecretRow{
			Namespace: s.Namespace,
			Name:      s.Name,
			Keys:      len(s.Data) + len(s.StringData),
		}
	})
	display.PrintSecrets(cl.Stdout(), rows)
	return nil
}
