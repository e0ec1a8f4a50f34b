package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/viant/afs"

	"github.com/viant/auditflow"
	"github.com/viant/auditflow/internal/clock"
	"github.com/viant/auditflow/service/meta"
	"github.com/viant/auditflow/service/scenario"
)

const defaultViews = "plans,ncars,review,notifications,dashboard"

func main() {
	configURL := flag.String("config", "", "URL of a YAML/JSON config (defaults built in)")
	scenarioURL := flag.String("scenario", "", "URL of a YAML scenario to replay")
	views := flag.String("view", defaultViews, "comma separated views: "+defaultViews)
	reportURL := flag.String("report", "", "URL to write the dashboard to as YAML")
	traceFile := flag.String("trace", "", "write spans to file; '-' writes to stdout")
	verbose := flag.Bool("v", false, "log workflow operations to stderr")
	flag.Parse()

	if err := run(context.Background(), os.Stdout, options{
		configURL:   *configURL,
		scenarioURL: *scenarioURL,
		views:       *views,
		reportURL:   *reportURL,
		traceFile:   *traceFile,
		verbose:     *verbose,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "auditflow: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configURL   string
	scenarioURL string
	views       string
	reportURL   string
	traceFile   string
	verbose     bool
}

func run(ctx context.Context, w io.Writer, opts options) error {
	config := auditflow.DefaultConfig()
	if opts.configURL != "" {
		var err error
		if config, err = auditflow.LoadConfig(ctx, opts.configURL); err != nil {
			return err
		}
	}
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelInfo
	}
	srvOptions := []auditflow.Option{
		auditflow.WithConfig(config),
		auditflow.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))),
	}
	switch opts.traceFile {
	case "":
	case "-":
		srvOptions = append(srvOptions, auditflow.WithTracing(""))
	default:
		srvOptions = append(srvOptions, auditflow.WithTracing(opts.traceFile))
	}
	srv, err := auditflow.New(ctx, srvOptions...)
	if err != nil {
		return err
	}
	defer srv.Close()
	engine := srv.Workflow()
	metaService := meta.New(afs.New(), "")

	if opts.scenarioURL != "" {
		s, err := scenario.Load(ctx, metaService, opts.scenarioURL)
		if err != nil {
			return err
		}
		results, runErr := scenario.NewRunner(engine).Run(ctx, s)
		renderResults(w, results)
		if runErr != nil {
			return runErr
		}
	}

	for _, view := range strings.Split(opts.views, ",") {
		switch strings.TrimSpace(view) {
		case "":
		case "plans":
			plans, err := engine.Plans(ctx)
			if err != nil {
				return err
			}
			renderPlans(w, plans)
		case "ncars":
			ncars, err := engine.NCARs(ctx)
			if err != nil {
				return err
			}
			renderNCARs(w, ncars, clock.Now())
		case "review":
			items, err := engine.ReviewQueue(ctx)
			if err != nil {
				return err
			}
			renderReviewQueue(w, items)
		case "notifications":
			items, err := engine.Notifications(ctx)
			if err != nil {
				return err
			}
			renderNotifications(w, items)
		case "dashboard":
			d, err := engine.Dashboard(ctx)
			if err != nil {
				return err
			}
			renderDashboard(w, d)
		default:
			return fmt.Errorf("unknown view %q", view)
		}
	}
	if opts.reportURL != "" {
		d, err := engine.Dashboard(ctx)
		if err != nil {
			return err
		}
		if err = metaService.Save(ctx, opts.reportURL, d); err != nil {
			return err
		}
	}
	return nil
}
