package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/youta-t/flarc"

	"github.com/valeger/automl/cmd/stagekube/commandline/common"
	"github.com/valeger/automl/cmd/stagekube/logger"
	subcreate "github.com/valeger/automl/cmd/stagekube/subcommands/create"
	subdelete "github.com/valeger/automl/cmd/stagekube/subcommands/delete"
	subget "github.com/valeger/automl/cmd/stagekube/subcommands/get"
	subupdate "github.com/valeger/automl/cmd/stagekube/subcommands/update"
	subversion "github.com/valeger/automl/cmd/stagekube/subcommands/version"
	"github.com/valeger/automl/pkg/config"
	"github.com/valeger/automl/pkg/utils/try"
)

func main() {
	name := path.Base(os.Args[0])
	log := logger.Default()
	log.SetPrefix(fmt.Sprintf("[%s] ", name))

	config.SetVersionWarner(func(docVersion, buildVersion string) {
		log.Print(logger.ColorizeWarning(fmt.Sprintf(
			"config document targets version %q, this build is %q", docVersion, buildVersion,
		)))
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cf := common.DefaultCommonFlags()
	create := try.To(subcreate.New()).OrFatal(log)
	update := try.To(subupdate.New()).OrFatal(log)
	del := try.To(subdelete.New()).OrFatal(log)
	get := try.To(subget.New()).OrFatal(log)
	version := try.To(subversion.New()).OrFatal(log)

	root := try.To(
		flarc.NewCommandGroup(
			"Orchestrate staged CI/CD workflows on a Kubernetes cluster.",
			cf,
			flarc.WithSubcommand("create", create),
			flarc.WithSubcommand("update", update),
			flarc.WithSubcommand("delete", del),
			flarc.WithSubcommand("get", get),
			flarc.WithSubcommand("version", version),
		),
	).OrFatal(log)

	os.Exit(flarc.Run(ctx, root, flarc.WithHelp(true)))
}
