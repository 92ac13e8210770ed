package get

import (
	"context"
	"log"

	"github.com/youta-t/flarc"

	"github.com/valeger/automl/cmd/stagekube/commandline/common"
	"github.com/valeger/automl/cmd/stagekube/env"
	"github.com/valeger/automl/cmd/stagekube/subcommands/display"
	"github.com/valeger/automl/pkg/domain"
	domainerrors "github.com/valeger/automl/pkg/domain/errors"
	kfile "github.com/valeger/automl/pkg/io"
	"github.com/valeger/automl/pkg/k8sclient"
	"github.com/valeger/automl/pkg/synth"
)

type Flags struct {
	Logs   bool   `flag:"logs,help=print the last lines of every owned pod's logs"`
	Output string `flag:"output,short=o,help=write --logs output to this file instead of stdout, creating parent directories as needed"`
}

const ARG_ID = "ID"
const tailLines = 200

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Show a workflow's current step status.",
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
	flags := cl.Flags()
	name := cl.Args()[ARG_ID][0]
	namespace := common.Namespace(cf, domain.DefaultNamespace)
	sel := k8sclient.LabelSelector(synth.WorkflowSelector(name))

	var rows []display.StepRow

	jobs, err := client.ListJobs(ctx, namespace, sel)
	if err != nil {
		return err
	}
	for _, j := range jobs {
		rows = append(rows, display.StepRow{
			Stage: j.Labels["stage"], Step: j.Labels["step"], Kind: "job", Status: display.JobStatus(j),
		})
	}

	cronjobs, err := client.ListCronJobs(ctx, namespace, sel)
	if err != nil {
		return err
	}
	for _, cj := range cronjobs {
		status := "Scheduled"
		if cj.Spec.Suspend != nil && *cj.Spec.Suspend {
			status = "Suspended"
		}
		rows = append(rows, display.StepRow{
			Stage: cj.Labels["stage"], Step: cj.Labels["step"], Kind: "cronjob", Status: status, Detail: cj.Spec.Schedule,
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

	if flags.Logs {
		pods, err := client.FindPods(ctx, namespace, sel)
		if err != nil {
			return err
		}

		out := cl.Stdout()
		if flags.Output != "" {
			f, err := kfile.CreateAll(flags.Output, 0o644, 0o755)
			if err != nil {
				return domainerrors.NewValidationCausedBy("creating --output file", err)
			}
			defer f.Close()
			out = f
		}
		display.PrintPodLogs(ctx, out, client, namespace, synth.ContainerName, pods, tailLines)
	}

	return nil
}
