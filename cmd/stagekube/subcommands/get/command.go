// Package get groups the `get <noun>` leaf commands, including the
// plural `workflows`/`secrets` listers spec §6 defines alongside the
// singular, by-id ones.
package get

import (
	"github.com/youta-t/flarc"

	cw_get "github.com/valeger/automl/cmd/stagekube/subcommands/cw/get"
	secret_get "github.com/valeger/automl/cmd/stagekube/subcommands/secret/get"
	"github.com/valeger/automl/cmd/stagekube/subcommands/secrets"
	workflow_get "github.com/valeger/automl/cmd/stagekube/subcommands/workflow/get"
	"github.com/valeger/automl/cmd/stagekube/subcommands/workflows"
)

func New() (flarc.Command, error) {
	workflow, err := workflow_get.New()
	if err != nil {
		return nil, err
	}
	cw, err := cw_get.New()
	if err != nil {
		return nil, err
	}
	secret, err := secret_get.New()
	if err != nil {
		return nil, err
	}
	workflowsList, err := workflows.New()
	if err != nil {
		return nil, err
	}
	secretsList, err := secrets.New()
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Show a workflow, cron workflow, secret, or a namespace's full listing.",
		struct{}{},
		flarc.WithSubcommand("workflow", workflow),
		flarc.WithSubcommand("cw", cw),
		flarc.WithSubcommand("secret", secret),
		flarc.WithSubcommand("workflows", workflowsList),
		flarc.WithSubcommand("secrets", secretsList),
	)
}
