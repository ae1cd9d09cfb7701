// Command sample-field loads a colliders table, draws labeled samples from
// the obstacle volume and optionally writes plots and a run record.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/banshee-data/aerial.sampling/internal/config"
	"github.com/banshee-data/aerial.sampling/internal/monitoring"
	"github.com/banshee-data/aerial.sampling/internal/obstacle/colliders"
	"github.com/banshee-data/aerial.sampling/internal/planning"
	"github.com/banshee-data/aerial.sampling/internal/report"
	"github.com/banshee-data/aerial.sampling/internal/store"
	"github.com/banshee-data/aerial.sampling/internal/version"
)

var (
	configPath    = flag.String("config", "", "Planner config file (.json or .yaml); defaults are used when empty")
	collidersPath = flag.String("colliders", "colliders.csv", "Colliders table (lat0/lon0 line, header, six numeric columns)")
	sampleCount   = flag.Int("samples", config.DefaultSampleCount, "Number of samples to draw")
	seed          = flag.Uint64("seed", 0, "Sampler seed (0 derives one from the clock)")
	zCap          = flag.Float64("zcap", config.DefaultZCap, "Sampling ceiling in metres")
	index         = flag.String("index", config.DefaultIndex, "Obstacle index: linear, grid or rtree")
	workers       = flag.Int("workers", config.DefaultWorkers, "Classification workers")
	pngPath       = flag.String("png", "", "Write a footprint plot to this path")
	htmlPath      = flag.String("html", "", "Write an interactive 3D scatter to this path")
	dbPath        = flag.String("db", "", "Record the run in this SQLite database")
	listRuns      = flag.Bool("list", false, "List runs stored in -db and exit")
	verbose       = flag.Bool("v", false, "Enable debug logging")
	showVersion   = flag.Bool("version", false, "Print the version and exit")
)

func main() {
	flag.Parse()
	setupLogging(*verbose)

	if err := run(os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func setupLogging(debug bool) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	monitoring.SetLogger(log.Infof)
	if debug {
		log.SetLevel(log.DebugLevel)
		monitoring.SetDebugLogger(log.Debugf)
	}
}

func run(out io.Writer) error {
	if *showVersion {
		fmt.Fprintf(out, "sample-field %s\n", version.String())
		return nil
	}
	if *listRuns {
		return printRuns(out, *dbPath)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg)

	log.Debugf("sample-field %s", version.String())
	table, err := colliders.Load(*collidersPath)
	if err != nil {
		return err
	}
	if table.Home != nil {
		log.Infof("home position lat=%.7f lon=%.7f", table.Home.Lat, table.Home.Lon)
	}

	res, err := planning.Run(cfg, table.Records)
	if err != nil {
		return err
	}
	feasible, occupied := res.Counts()
	fmt.Fprintf(out, "seed=%d index=%s obstacles=%d samples=%d feasible=%d occupied=%d elapsed=%v\n",
		res.Seed, res.Index, res.Obstacles.Len(), len(res.Samples), feasible, occupied, res.Elapsed.Round(time.Microsecond))

	if *pngPath != "" {
		if err := report.SaveFootprintPlot(*pngPath, res.Obstacles, res.Samples); err != nil {
			return err
		}
		log.Infof("wrote footprint plot %s", *pngPath)
	}
	if *htmlPath != "" {
		title := fmt.Sprintf("Sampling run (seed %d)", res.Seed)
		if err := report.SaveScatter3D(*htmlPath, title, res.Bounds, res.Samples); err != nil {
			return err
		}
		log.Infof("wrote 3D scatter %s", *htmlPath)
	}
	if *dbPath != "" {
		s, err := store.Open(*dbPath)
		if err != nil {
			return err
		}
		defer s.Close()
		id, err := s.SaveRun(res)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "run_id=%s\n", id)
	}
	return nil
}

func loadConfig(path string) (*config.PlannerConfig, error) {
	if path == "" {
		return config.DefaultPlannerConfig(), nil
	}
	return config.LoadPlannerConfig(path)
}

// applyFlagOverrides copies explicitly set flags onto cfg.
func applyFlagOverrides(cfg *config.PlannerConfig) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "samples":
			cfg.SetSampleCount(*sampleCount)
		case "seed":
			cfg.SetSeed(*seed)
		case "zcap":
			cfg.SetZCap(*zCap)
		case "index":
			cfg.SetIndex(*index)
		case "workers":
			cfg.SetWorkers(*workers)
		}
	})
}

func printRuns(out io.Writer, path string) error {
	if path == "" {
		return fmt.Errorf("-list requires -db")
	}
	s, err := store.Open(path)
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.ListRuns()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tSEED\tINDEX\tSAMPLES\tFEASIBLE\tOCCUPIED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\t%d\t%d\n",
			r.ID, r.Started.Format(time.RFC3339), r.Seed, r.Index, r.SampleCount, r.Feasible, r.Occupied)
	}
	return tw.Flush()
}
