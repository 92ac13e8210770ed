package update

import (
	"context"
	"log"

	"github.com/youta-t/flarc"

	"github.com/valeger/automl/cmd/stagekube/commandline/common"
	"github.com/valeger/automl/cmd/stagekube/env"
	"github.com/valeger/automl/cmd/stagekube/subcommands/shared"
	"github.com/valeger/automl/pkg/buildtime"
	"github.com/valeger/automl/pkg/config"
	"github.com/valeger/automl/pkg/domain"
	"github.com/valeger/automl/pkg/k8sclient"
	"github.com/valeger/automl/pkg/sweeper"
	"github.com/valeger/automl/pkg/synth"
)

type Flags struct {
	File           string `flag:"file,short=f,help=path to the config document within the repository"`
	Branch         string `flag:"branch,short=b,help=repository branch to fetch the config from"`
	Token          string `flag:"token,short=t,help=personal access token, required for private repositories"`
	Id             string `flag:"id,help=workflow name; must match the workflow being replaced"`
	SkipImageCheck bool   `flag:"skip-image-check,help=skip the registry existence check for overridden step images"`
}

const ARG_REPO = "REPO"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Replace a workflow's definition, re-running it from the updated config.",
		Flags{File: "config.yaml", Branch: "main"},
		flarc.Args{
			{Name: ARG_REPO, Required: true, Repeatable: false, Help: "source repository, as <host>/<owner>/<repo>"},
		},
		common.NewTask(Task),
	)
}

func Task(
	ctx context.Context,
	logger *log.Logger,
	cf common.CommonFlags,
	e env.Env,
	client k8sclient.ClusterClient,
	cl flarc.Commandline[Flags],
	params []any,
) error {
	flags := cl.Flags()
	repoArg := cl.Args()[ARG_REPO][0]

	token := flags.Token
	if token == "" {
		token = e.GithubToken
	}
	ref, err := shared.ParseRepoRef(repoArg, flags.Branch, token)
	if err != nil {
		return err
	}

	namespace := common.Namespace(cf, domain.DefaultNamespace)
	fallbackName := flags.Id
	if fallbackName == "" {
		fallbackName = shared.FallbackName(repoArg)
	}

	content, ref, err := shared.FetchConfigDocument(ctx, ref, flags.File)
	if err != nil {
		return err
	}

	known, err := shared.KnownSecrets(ctx, client, namespace)
	if err != nil {
		return err
	}

	w, err := config.Load(ctx, content, namespace, fallbackName, config.Options{
		SkipImageCheck: flags.SkipImageCheck,
		Version:        buildtime.VERSION(),
		KnownSecrets:   known,
	})
	if err != nil {
		return err
	}
	w.Source = ref

	// Job/CronJob specs are immutable in-place; replacing a workflow means
	// clearing its previous run's objects before resubmitting under the
	// same deterministic bundle names (synth.BundleName).
	sw := sweeper.New(client, logger)
	if err := sw.SweepRun(ctx, namespace, w.Name); err != nil {
		logger.Printf("update: sweeping previous run reported an error: %v", err)
	}

	_, err = shared.RunWorkflow(ctx, logger, client, w, synth.Options{})
	return err
}
