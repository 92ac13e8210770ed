// Package delete groups the `delete <noun>` leaf commands.
package delete

import (
	"github.com/youta-t/flarc"

	cw_delete "github.com/valeger/automl/cmd/stagekube/subcommands/cw/delete"
	secret_delete "github.com/valeger/automl/cmd/stagekube/subcommands/secret/delete"
	workflow_delete "github.com/valeger/automl/cmd/stagekube/subcommands/workflow/delete"
)

func New() (flarc.Command, error) {
	workflow, err := workflow_delete.New()
	if err != nil {
		return nil, err
	}
	cw, err := cw_delete.New()
	if err != nil {
		return nil, err
	}
	secret, err := secret_delete.New()
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Remove a workflow, cron workflow, or secret's cluster objects.",
		struct{}{},
		flarc.WithSubcommand("workflow", workflow),
		flarc.WithSubcommand("cw", cw),
		flarc.WithSubcommand("secret", secret),
	)
}
