package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/noresmhub/ctsm-api/cmd/ctsm-worker/recurring"
	"github.com/noresmhub/ctsm-api/cmd/ctsm-worker/tasks/execution"
	configs "github.com/noresmhub/ctsm-api/pkg/configs/backend"
	"github.com/noresmhub/ctsm-api/pkg/domain/ctsm"
	"github.com/noresmhub/ctsm-api/pkg/loop"
	"github.com/noresmhub/ctsm-api/pkg/utils/args"
	"github.com/noresmhub/ctsm-api/pkg/utils/filewatch"
	"github.com/noresmhub/ctsm-api/pkg/utils/try"
)

func main() {
	logger := log.Default()
	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, os.Kill, syscall.SIGTERM,
	)
	// call cancel() when this function exits
	defer cancel()

	pconfig := flag.String(
		"config-path", os.Getenv("CTSM_BACKEND_CONFIG"), "path to config file",
	)
	policy := args.Parser(recurring.ParsePolicy)
	flag.Var(
		policy, "policy",
		`loop policy (syntax: forever[:COOLDOWN]|backlog).`+
			` "forever[:COOLDOWN]" = run forever until error. When backlog is over, `+
			`wait COOLDOWN (optional duration. default: 0) as inteval.`+
			` "backlog" = run until error or backlog is over.`,
	)
	flag.Parse()

	if !policy.IsSet() {
		if err := policy.Set("forever:5s"); err != nil {
			logger.Fatal(err)
		}
	}

	{
		// watch config. Quit on change and let the supervisor restart us.
		wctx, cancel, err := filewatch.UntilModifyContext(ctx, *pconfig)
		if err != nil {
			logger.Fatal(err)
		}
		defer cancel()
		ctx = wctx
	}

	conf := try.To(configs.LoadBackendConfig(*pconfig)).OrFatal(logger)

	cluster := try.To(ctsm.Default(ctx, conf.Server(), logger)).OrFatal(logger)
	defer cluster.Close()

	if err := cluster.Toolchain().Check(ctx); err != nil {
		logger.Fatalf("toolchain is not usable: %s", err)
	}

	logger.Printf(`start worker /w policy "%s"`, policy.Value().String())

	task := execution.Task(
		logger, cluster.Cases(), cluster.Tasks(), cluster.Toolchain(),
	)
	finished, err := loop.Start(
		ctx, execution.Seed(),
		task.Applied(recurring.UntilError(policy.Value())),
	)

	logger.Printf("worker stops after %d tasks", finished)
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		logger.Fatal(err, "(loop context is cancelled by:", context.Cause(ctx), ")")
	}
	logger.Fatal(err)
}
