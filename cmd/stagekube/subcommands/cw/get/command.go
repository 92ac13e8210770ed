package get

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
)

type Flags struct{}

const ARG_ID = "ID"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Show a cron workflow's current step status.",
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
	sel := k8sclient.LabelSelector(synth.WorkflowSelector(name))

	var rows []display.StepRow

	cronjobs, err := client.ListCronJobs(ctx, namespace, sel)
	if err != nil {
		return err
	}
	for _, cj := range cronjobs {
		status := "Scheduled"
		if cj.Spec.Suspend != nil && *cj.Spec.Suspend {
			status = "Suspended"
		}
		detail := cj.Spec.Schedule
		if cj.Status.LastScheduleTime != nil {
			detail = detail + ", last=" + cj.Status.LastScheduleTime.Format("2006-01-02T15:04:05Z07:00")
		}
		rows = append(rows, display.StepRow{
			Stage: cj.Labels["stage"], Step: cj.Labels["step"], Kind: "cronjob", Status: status, Detail: detail,
		})
	}

	deployments, err := client.ListDeployments(ctx, namespace, sel)
	if err != nil {
		return err
	}
	for _, d := range deployments {
		rows = append(rows, display.StepRow{
			Stage: d.Labels["stage"], Step: d.Labels["step"], Kind: "deployment", Status: display.DeploymentStatus(d),
		})
	}

	display.PrintSteps(cl.Stdout(), rows)
	return nil
}
