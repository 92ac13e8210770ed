package update

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/youta-t/flarc"
	"gopkg.in/yaml.v3"

	"github.com/valeger/automl/cmd/stagekube/commandline/common"
	"github.com/valeger/automl/cmd/stagekube/env"
	"github.com/valeger/automl/pkg/domain"
	domainerrors "github.com/valeger/automl/pkg/domain/errors"
	"github.com/valeger/automl/pkg/k8sclient"
)

type Flags struct {
	File string `flag:"file,short=f,help=path to a local key:value YAML file holding the secret's data"`
}

const ARG_ID = "ID"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Replace a secret's data.",
		Flags{File: "secret.yaml"},
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
	flags := cl.Flags()
	name := cl.Args()[ARG_ID][0]
	namespace := common.Namespace(cf, domain.DefaultNamespace)

	content, err := os.ReadFile(flags.File)
	if err != nil {
		return domainerrors.NewValidationCausedBy(fmt.Sprintf("reading secret file %q", flags.File), err)
	}
	var data map[string]string
	if err := yaml.Unmarshal(content, &data); err != nil {
		return domainerrors.NewValidationCausedBy(fmt.Sprintf("parsing secret file %q", flags.File), err)
	}

	existing, err := client.GetSecret(ctx, namespace, name)
	if err != nil {
		return domainerrors.NewPreconditionCausedBy("finding existing secret", err)
	}
	existing.StringData = data
	existing.Data = nil

	if _, err := client.UpdateSecret(ctx, namespace, existing); err != nil {
		return domainerrors.NewPreconditionCausedBy("updating secret", err)
	}
	logger.Printf("secret %q updated in namespace %q (%d keys)", name, namespace, len(data))
	return nil
}
