package create

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/youta-t/flarc"
	"gopkg.in/yaml.v3"
	kubecore "k8s.io/api/core/v1"
	kubeapimeta "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/valeger/automl/cmd/stagekube/commandline/common"
	"github.com/valeger/automl/cmd/stagekube/env"
	domainerrors "github.com/valeger/automl/pkg/domain/errors"
	"github.com/valeger/automl/pkg/domain"
	"github.com/valeger/automl/pkg/k8sclient"
	"github.com/valeger/automl/pkg/synth"
)

type Flags struct {
	File string `flag:"file,short=f,help=path to a local key:value YAML file holding the secret's data"`
}

const ARG_ID = "ID"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Create a secret steps can reference by name.",
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

	data, err := loadData(flags.File)
	if err != nil {
		return err
	}

	secret := &kubecore.Secret{
		ObjectMeta: kubeapimeta.ObjectMeta{
			Name:      name,
			Namespace: namespace,
			Labels:    map[string]string{"app": synth.LabelApp, "kind": "user-secret"},
		},
		Type:       kubecore.SecretTypeOpaque,
		StringData: data,
	}
	if _, err := client.CreateSecret(ctx, namespace, secret); err != nil {
		return domainerrors.NewPreconditionCausedBy("creating secret", err)
	}
	logger.Printf("secret %q created in namespace %q (%d keys)", name, namespace, len(data))
	return nil
}

func loadData(path string) (map[string]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, domainerrors.NewValidationCausedBy(fmt.Sprintf("reading secret file %q", path), err)
	}
	var data map[string]string
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, domainerrors.NewValidationCausedBy(fmt.Sprintf("parsing secret file %q", path), err)
	}
	if len(data) == 0 {
		return nil, domainerrors.NewValidation(fmt.Sprintf("secret file %q has no keys", path))
	}
	return data, nil
}
