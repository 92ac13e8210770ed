package workflows

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

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"List workflows and cron workflows in a namespace.",
		Flags{},
		flarc.Args{},
		common.NewTask(Task),
	)
}

type entry struct {
	row    display.WorkflowRow
	stages map[string]bool
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
	sel := k8sclient.LabelSelector{"app": synth.LabelApp}

	entries := map[string]*entry{}
	order := []string{}

	touch := func(name, kind, stage string) *entry {
		key := kind + "/" + name
		e, ok := entries[key]
		if !ok {
			e = &entry{row: display.WorkflowRow{Namespace: namespace, Name: name, Kind: kind}, stages: map[string]bool{}}
			entries[key] = e
			order = append(order, key)
		}
		e.row.Steps++
		if stage != "" && !e.stages[stage] {
			e.stages[stage] = true
			e.row.Stages++
		}
		return e
	}

	jobs, err := client.ListJobs(ctx, namespace, sel)
	if err != nil {
		return err
	}
	for _, j := range jobs {
		touch(j.Labels["workflow"], "workflow", j.Labels["stage"])
	}

	cronjobs, err := client.ListCronJobs(ctx, namespace, sel)
	if err != nil {
		return err
	}
	for _, cj := range cronjobs {
		touch(cj.Labels["workflow"], "cw", cj.Labels["stage"])
	}

	deployments, err := client.ListDeployments(ctx, namespace, sel)
	if err != nil {
		return err
	}
	for _, d := range deployments {
		kind := "workflow"
		if d.Labels["schedule"] != "" {
			kind = "cw"
		}
		touch(d.Labels["workflow"], kind, d.Labels["stage"])
	}

	var rows []display.WorkflowRow
	for _, key := range order {
		rows = append(rows, entries[key].row)
	}
	display.PrintWorkflows(cl.Stdout(), rows)
	return nil
}
