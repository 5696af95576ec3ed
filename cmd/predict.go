package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/trafficpredict/app"
	"github.com/kilianp07/trafficpredict/config"
	"github.com/kilianp07/trafficpredict/connectors"
	"github.com/kilianp07/trafficpredict/connectors/clients/predictor"
	connfactory "github.com/kilianp07/trafficpredict/connectors/factory"
	coremetrics "github.com/kilianp07/trafficpredict/core/metrics"
	"github.com/kilianp07/trafficpredict/core/model"
	inframetrics "github.com/kilianp07/trafficpredict/infra/metrics"
	"github.com/kilianp07/trafficpredict/pkg/export"
)

var predictOpts struct {
	route  string
	hour   int
	day    string
	remote bool
	url    string
	format string
	chart  string
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict congestion for a route",
	Long: "Predict congestion for a route. With --remote the configured endpoint is called " +
		"and the local model is used whenever it cannot answer.",
	RunE: runPredict,
}

func init() {
	f := predictCmd.Flags()
	f.StringVarP(&predictOpts.route, "route", "r", "", "route identifier")
	f.IntVar(&predictOpts.hour, "hour", -1, "hour of day; negative uses the current hour")
	f.StringVar(&predictOpts.day, "day", "", "weekday or weekend; empty uses today")
	f.BoolVar(&predictOpts.remote, "remote", false, "call the remote prediction endpoint")
	f.StringVar(&predictOpts.url, "url", "", "remote endpoint, overrides client.url")
	f.StringVarP(&predictOpts.format, "format", "f", "json", "output format: json or csv")
	f.StringVar(&predictOpts.chart, "chart", "", "write an HTML chart of the departure slots to this file")
	_ = predictCmd.MarkFlagRequired("route")
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(predictOpts.format)
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if predictOpts.url != "" {
		cfg.Client.URL = predictOpts.url
	}

	client, closeFn, err := newPredictionClient(cfg, predictOpts.remote)
	if err != nil {
		return err
	}
	defer closeFn()

	loc, _ := cfg.Server.Location()
	now := time.Now().In(loc)
	hour := predictOpts.hour
	if hour < 0 {
		hour = now.Hour()
	}
	day := model.ClassifyDay(now)
	if predictOpts.day != "" {
		day = model.ParseDayType(predictOpts.day)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(cfg.Client.TimeoutSeconds+5)*time.Second)
	defer cancel()
	resp, origin, err := client.Predict(ctx, predictOpts.route, hour, day)
	if err != nil {
		return err
	}
	if origin == coremetrics.OriginFallback {
		fmt.Fprintln(cmd.ErrOrStderr(), "remote endpoint unavailable, prediction computed locally")
	}

	if err := export.WritePrediction(cmd.OutOrStdout(), format, resp); err != nil {
		return err
	}
	if predictOpts.chart != "" {
		html, err := predictor.SlotChartHTML(resp)
		if err != nil {
			return err
		}
		if err := os.WriteFile(predictOpts.chart, []byte(html), 0o644); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
	}
	return nil
}

func newPredictionClient(cfg *config.Config, remote bool) (connectors.PredictionClient, func(), error) {
	logs, err := app.NewLoggerFactory(cfg.Logging, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	engine, err := app.NewPredictor(cfg)
	if err != nil {
		return nil, nil, err
	}
	sink, err := coremetrics.NewMetricsSinkWith(cfg.Metrics.Sinks, inframetrics.SinkOverrides(logs.New("mqtt"), nil))
	if err != nil {
		return nil, nil, err
	}
	id := connfactory.IDLocal
	if remote {
		id = connfactory.IDRemote
	}
	client, err := connfactory.NewPredictionClient(id, cfg.Client,
		predictor.WithEngine(engine),
		predictor.WithSink(sink),
		predictor.WithLogger(logs.New("predict")),
	)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = logs.Close() }, nil
}
