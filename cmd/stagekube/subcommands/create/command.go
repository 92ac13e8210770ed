// Package create groups the `create <noun>` leaf commands under the
// verb-first grammar spec §6 defines (`<cmd> create | update | delete |
// get`, then `<noun> workflow | cw | secret`).
package create

import (
	"github.com/youta-t/flarc"

	cw_create "github.com/valeger/automl/cmd/stagekube/subcommands/cw/create"
	secret_create "github.com/valeger/automl/cmd/stagekube/subcommands/secret/create"
	workflow_create "github.com/valeger/automl/cmd/stagekube/subcommands/workflow/create"
)

func New() (flarc.Command, error) {
	workflow, err := workflow_create.New()
	if err != nil {
		return nil, err
	}
	cw, err := cw_create.New()
	if err != nil {
		return nil, err
	}
	secret, err := secret_create.New()
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Create a workflow, cron workflow, or secret.",
		struct{}{},
		flarc.WithSubcommand("workflow", workflow),
		flarc.WithSubcommand("cw", cw),
		flarc.WithSubcommand("secret", secret),
	)
}
