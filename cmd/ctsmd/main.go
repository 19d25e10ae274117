package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	kback "github.com/noresmhub/ctsm-api/pkg/configs/backend"
	"github.com/noresmhub/ctsm-api/pkg/domain/ctsm"
	"github.com/noresmhub/ctsm-api/pkg/echoutil"
	"github.com/noresmhub/ctsm-api/pkg/utils/filewatch"

	"github.com/noresmhub/ctsm-api/cmd/ctsmd/handlers"
)

func main() {

	configPath := flag.String("config-path", "", "backend config path")
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	pcert := flag.String("cert", "", "certification file for TLS")
	pkey := flag.String("certkey", "", "key of certification file for TLS")
	flag.Parse()

	e := echo.New()
	e.Pre(middleware.AddTrailingSlash())

	// set log
	echoutil.SetLevel(e, *loglevel)
	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}
	e.Use(echoutil.LogHandlerFunc)

	// read configfile
	conf, err := kback.LoadBackendConfig(*configPath)
	if err != nil {
		log.Fatalf("can not read configration: %s", err)
	}

	ctx := context.Background()
	{
		// restart on config, registry or sites-catalog change. Those
		// documents are loaded once per process.
		watched := []string{*configPath}
		for _, f := range []string{
			conf.Server().VariablesFile(), conf.Server().SitesFile(),
		} {
			if f == "" {
				continue
			}
			if _, err := os.Stat(f); err != nil {
				continue
			}
			watched = append(watched, f)
		}
		wctx, cancel, err := filewatch.UntilModifyContext(ctx, watched...)
		if err != nil {
			log.Fatalf("can not watch configration: %s", err)
		}
		defer cancel()
		context.AfterFunc(wctx, func() {
			log.Println("config file is updated. quit to restart server.")
			graceful, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := e.Shutdown(graceful); err != nil {
				log.Printf("error on shutdown by config update: %s", err)
			}
		})
		ctx = wctx
	}

	cluster, err := ctsm.Default(ctx, conf.Server(), log.Default())
	if err != nil {
		log.Fatalf("can not start the ctsm backend: %s", err)
	}
	defer cluster.Close()

	if err := cluster.Toolchain().Check(ctx); err != nil {
		log.Fatalf("toolchain is not usable: %s", err)
	}

	api := func(s string) string { return "/api/" + s }

	// handlers
	{
		caseId := "caseId"
		e.POST(api("cases/"), handlers.PostCaseHandler(cluster.Service()))
		e.GET(api("cases/"), handlers.GetCasesHandler(cluster.Service()))

		e.GET(api("cases/:caseId/"), handlers.GetCaseHandler(cluster.Service(), caseId))
		e.POST(api("cases/:caseId/"), handlers.RunCaseHandler(cluster.Service(), caseId))
		e.DELETE(api("cases/:caseId/"), handlers.DeleteCaseHandler(cluster.Service(), caseId))
		e.GET(
			api("cases/:caseId/download/"),
			handlers.DownloadCaseHandler(cluster.Service(), cluster.Toolchain(), caseId),
		)
	}

	{
		e.GET(api("sites/"), handlers.GetSitesHandler(cluster.Sites(), cluster.SiteLinks()))
		e.GET(
			api("sites/:siteName/cases/"),
			handlers.GetSiteCasesHandler(
				cluster.Service(), cluster.Sites(), cluster.SiteLinks(), "siteName",
			),
		)
		e.POST(
			api("sites/:siteName/"),
			handlers.PostSiteCaseHandler(
				cluster.Service(), cluster.Sites(), cluster.SiteLinks(), "siteName",
			),
		)
	}

	{
		e.GET(api("tasks/:taskId/"), handlers.GetTaskHandler(cluster.Tasks(), "taskId"))
		e.GET(api("variables/"), handlers.GetVariablesHandler(cluster.Registry()))
		e.GET(api("model-info/"), handlers.GetModelInfoHandler(conf.Server().Model().Tag()))
	}

	log.Println("registred routes:")
	for _, r := range e.Routes() {
		log.Println(r.Method, r.Path)
	}

	port := fmt.Sprintf(":%d", conf.Port())
	cert, key := *pcert, *pkey
	if cert != "" && key != "" {
		e.Logger.Fatal(e.StartTLS(port, cert, key))
	} else {
		e.Logger.Fatal(e.Start(port))
	}
}
