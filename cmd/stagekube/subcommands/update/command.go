// Package update groups the `update <noun>` leaf commands.
package update

import (
	"github.com/youta-t/flarc"

	cw_update "github.com/valeger/automl/cmd/stagekube/subcommands/cw/update"
	secret_update "github.com/valeger/automl/cmd/stagekube/subcommands/secret/update"
	workflow_update "github.com/valeger/automl/cmd/stagekube/subcommands/workflow/update"
)

func New() (flarc.Command, error) {
	workflow, err := workflow_update.New()
	if err != nil {
		return nil, err
	}
	cw, err := cw_update.New()
	if err != nil {
		return nil, err
	}
	secret, err := secret_update.New()
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Replace a workflow, cron workflow, or secret's definition.",
		struct{}{},
		flarc.WithSubcommand("workflow", workflow),
		flarc.WithSubcommand("cw", cw),
		flarc.WithSubcommand("secret", secret),
	)
}
