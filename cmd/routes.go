package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/trafficpredict/app"
	"github.com/kilianp07/trafficpredict/config"
	"github.com/kilianp07/trafficpredict/core/catalog"
	"github.com/kilianp07/trafficpredict/core/model"
	"github.com/kilianp07/trafficpredict/pkg/export"
)

var routesOpts struct {
	live    bool
	stats   bool
	fastest bool
	hour    int
	day     string
	format  string
}

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the monitored routes",
	RunE:  runRoutes,
}

func init() {
	f := routesCmd.Flags()
	f.BoolVar(&routesOpts.live, "live", false, "recompute travel figures with the predictor")
	f.BoolVar(&routesOpts.stats, "stats", false, "print summary statistics instead of routes")
	f.BoolVar(&routesOpts.fastest, "fastest", false, "order routes by predicted travel time")
	f.IntVar(&routesOpts.hour, "hour", -1, "hour used with --live; negative uses the current hour")
	f.StringVar(&routesOpts.day, "day", "", "day type used with --live; empty uses today")
	f.StringVarP(&routesOpts.format, "format", "f", "json", "output format: json or csv")
	rootCmd.AddCommand(routesCmd)
}

func runRoutes(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(routesOpts.format)
	if err != nil {
		return err
	}
	c := catalog.Default()
	routes := c.List()
	if routesOpts.live {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		engine, err := app.NewPredictor(cfg)
		if err != nil {
			return err
		}
		loc, _ := cfg.Server.Location()
		now := time.Now().In(loc)
		hour := routesOpts.hour
		if hour < 0 {
			hour = now.Hour()
		}
		day := model.ClassifyDay(now)
		if routesOpts.day != "" {
			day = model.ParseDayType(routesOpts.day)
		}
		routes = c.Live(engine, hour, day)
	}
	if routesOpts.fastest {
		routes = catalog.Rank(routes)
	}

	out := cmd.OutOrStdout()
	if routesOpts.stats {
		return export.WriteJSON(out, catalog.Summarize(routes))
	}
	if format == export.FormatCSV {
		return export.WriteRoutesCSV(out, routes)
	}
	return export.WriteJSON(out, routes)
}
