package delete

import (
	"context"
	"log"

	"github.com/youta-t/flarc"

	"github.com/valeger/automl/cmd/stagekube/commandline/common"
	"github.com/valeger/automl/cmd/stagekube/env"
	"github.com/valeger/automl/pkg/domain"
	"github.com/valeger/automl/pkg/k8sclient"
	"github.com/valeger/automl/pkg/sweeper"
)

type Flags struct{}

const ARG_ID = "ID"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Remove a cron workflow's objects from the cluster.",
		Flags{},
		flarc.Args{
			{Name: ARG_ID, Required: true, Repeatable: false, Help: "cron workflow name"},
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

	sw := sweeper.New(client, logger)
	// An explicit delete is always a statement of intent to reclaim an
	// emptied namespace, unlike the executor's own failure-path sweep
	// which only owns the namespace it itself created this run.
	if err := sw.SweepWorkflow(ctx, namespace, name, true); err != nil {
		return err
	}
	logger.Printf("cron workflow %q removed from namespace %q", name, namespace)
	return nil
}
