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
	Id             string `flag:"id,help=cron workflow name; must match the cron workflow being replaced"`
	Schedule       string `flag:"schedule,help=five-field cron schedule; overrides the config document's own schedule"`
	SkipImageCheck bool   `flag:"skip-image-check,help=skip the registry existence check for overridden step images"`
}

const ARG_REPO = "REPO"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Replace a cron workflow's definition.",
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

	cw, err := config.LoadCronWorkflow(ctx, content, namespace, fallbackName, config.Options{
		SkipImageCheck: flags.SkipImageCheck,
		Version:        buildtime.VERSION(),
		KnownSecrets:   known,
	})
	if err != nil {
		return err
	}
	cw.Workflow.Source = ref
	if flags.Schedule != "" {
		if err := domain.ValidateSchedule(flags.Schedule); err != nil {
			return err
		}
		cw.Schedule = flags.Schedule
	}

	sw := sweeper.New(client, logger)
	if err := sw.SweepRun(ctx, namespace, cw.Workflow.Name); err != nil {
		logger.Printf("update: sweeping previous cron workflow reported an error: %v", err)
	}

	return shared.RunCronWorkflow(ctx, logger, client, cw, synth.Options{})
}
