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
		"Delete a workflow and every object it owns.",
		Flags{},
		flarc.Args{
			{Name: ARG_ID, Required: true, Repeatable: false, Help: "workflow name"},
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
	// An explicit `delete workflow` always offers the namespace up for
	// removal if it ends up empty; this differs from the Executor's own
	// on-failure sweep, which only does so when this run created the
	// namespace, so a mid-run failure never drops a namespace other
	// workflows still occupy.
	if err := sw.SweepWorkflow(ctx, namespace, name, true); err != nil {
		return err
	}
	logger.Printf("deleted workflow %q", name)
	return nil
}
