package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/kilianp07/trafficpredict/app"
	"github.com/kilianp07/trafficpredict/config"
	"github.com/kilianp07/trafficpredict/connectors/clients/predictor"
	connfactory "github.com/kilianp07/trafficpredict/connectors/factory"
	"github.com/kilianp07/trafficpredict/core/catalog"
	coremetrics "github.com/kilianp07/trafficpredict/core/metrics"
	"github.com/kilianp07/trafficpredict/core/model"
	inframetrics "github.com/kilianp07/trafficpredict/infra/metrics"
)

func main() {
	cfg := parseFlags()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, cfg); err != nil {
		log.Fatalf("simulator: %v", err)
	}
}

func run(ctx context.Context, cfg Config) error {
	appCfg, err := config.Load(cfg.ConfigFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.URL != "" {
		appCfg.Client.URL = cfg.URL
	}
	if cfg.Token != "" {
		appCfg.Client.Token = cfg.Token
	}
	if cfg.Verbose {
		appCfg.Logging.Level = "debug"
	}

	logs, err := app.NewLoggerFactory(appCfg.Logging, os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = logs.Close() }()
	lg := logs.New("simulator")

	engine, err := app.NewPredictor(appCfg)
	if err != nil {
		return err
	}

	var sink coremetrics.MetricsSink = coremetrics.NopSink{}
	if cfg.InfluxURL != "" {
		sink = inframetrics.NewInfluxSinkWithFallback(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket)
		if s, ok := sink.(*inframetrics.InfluxSink); ok {
			defer s.Close()
		}
	}

	id := connfactory.IDLocal
	if appCfg.Client.URL != "" {
		id = connfactory.IDRemote
	}
	client, err := connfactory.NewPredictionClient(id, appCfg.Client,
		predictor.WithEngine(engine),
		predictor.WithSink(sink),
		predictor.WithLogger(logs.New("predictor")),
	)
	if err != nil {
		return err
	}

	var demand [24]float64
	if cfg.DemandFile != "" {
		data, err := os.ReadFile(cfg.DemandFile)
		if err != nil {
			return fmt.Errorf("read demand file: %w", err)
		}
		if demand, err = LoadDemandProfile(data); err != nil {
			return fmt.Errorf("parse demand file: %w", err)
		}
	}

	day := model.Weekday
	if cfg.Weekend {
		day = model.Weekend
	}
	commuters := GeneratePopulation(PopulationConfig{
		Size:    cfg.Count,
		PeakPct: cfg.PeakPct,
		Day:     day,
		Routes:  routeIDs(cfg.Routes),
		Demand:  demand,
	})
	for i := range commuters {
		commuters[i].Client = client
		commuters[i].Rounds = cfg.Rounds
		commuters[i].Interval = cfg.Interval
		commuters[i].Log = lg
	}

	lg.Infof("simulating %d commuters, %d rounds each, client=%s", len(commuters), cfg.Rounds, id)
	start := time.Now()
	tally := runCommuters(ctx, commuters)
	printSummary(os.Stdout, tally, time.Since(start))
	return nil
}

func parseFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.ConfigFile, "config", "", "service config file")
	flag.StringVar(&cfg.URL, "url", "", "prediction endpoint; empty predicts locally")
	flag.StringVar(&cfg.Token, "token", "", "bearer token for the endpoint")
	flag.IntVar(&cfg.Count, "count", 10, "number of commuters")
	flag.IntVar(&cfg.Rounds, "rounds", 1, "predictions per commuter")
	flag.DurationVar(&cfg.Interval, "interval", time.Second, "delay between rounds")
	flag.Float64Var(&cfg.PeakPct, "peak-pct", 0.5, "ratio of commuters leaving at rush hour")
	flag.BoolVar(&cfg.Weekend, "weekend", false, "simulate a weekend day")
	flag.StringVar(&cfg.DemandFile, "demand-file", "", "hourly demand JSON for off-peak commuters")
	flag.StringVar(&cfg.Routes, "routes", "", "comma separated route ids; empty uses the demo catalog")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "enable verbose logging")
	flag.StringVar(&cfg.InfluxURL, "influx-url", "", "InfluxDB URL")
	flag.StringVar(&cfg.InfluxToken, "influx-token", "", "InfluxDB token")
	flag.StringVar(&cfg.InfluxOrg, "influx-org", "", "InfluxDB organization")
	flag.StringVar(&cfg.InfluxBucket, "influx-bucket", "", "InfluxDB bucket")
	flag.Parse()
	return cfg
}

func routeIDs(csv string) []string {
	var ids []string
	for _, id := range strings.Split(csv, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) > 0 {
		return ids
	}
	for _, r := range catalog.Default().List() {
		ids = append(ids, r.ID)
	}
	return ids
}

func printSummary(w io.Writer, t *Tally, elapsed time.Duration) {
	fmt.Fprintf(w, "requests=%d errors=%d elapsed=%s\n", t.Requests, t.Errors, elapsed.Round(time.Millisecond))
	origins := make([]string, 0, len(t.Origins))
	for o := range t.Origins {
		origins = append(origins, string(o))
	}
	sort.Strings(origins)
	for _, o := range origins {
		fmt.Fprintf(w, "origin %s: %d\n", o, t.Origins[coremetrics.Origin(o)])
	}
	for _, l := range []model.CongestionLevel{model.CongestionLow, model.CongestionMedium, model.CongestionHigh} {
		fmt.Fprintf(w, "level %s: %d\n", l, t.Levels[l])
	}
	fmt.Fprintf(w, "minutes saved: %d\n", t.Saved)
}
