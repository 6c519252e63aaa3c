// Command ropefall is the CLI entry point for the climbing-fall
// physics core: run a simulation and persist it, run one with a live
// terminal view, list/inspect/plot past runs, and run small batches of
// perturbed-seed ensembles.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/climbfall/ropefall/internal/analysis"
	"github.com/climbfall/ropefall/internal/batch"
	"github.com/climbfall/ropefall/internal/config"
	"github.com/climbfall/ropefall/internal/export"
	"github.com/climbfall/ropefall/internal/metrics"
	"github.com/climbfall/ropefall/internal/storage"
	"github.com/climbfall/ropefall/internal/viz"
	"github.com/climbfall/ropefall/internal/world"
)

var (
	dataDir    string
	configFile string
	presetName string
	seed       int64
	numRuns    int
	seedStart  int64
	svgOut     string
	plotSeries string
)

// cliLogger routes config-clamp and rope warnings to stderr, leaving
// stdout for command output a script might parse.
type cliLogger struct{}

func (cliLogger) Warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "warn: "+format+"\n", args...)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "ropefall",
		Short: "climbing-fall rope physics simulator",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ropefall", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and persist it",
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&presetName, "preset", "", "use a named preset (see 'presets')")
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "construction jitter seed")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with a live terminal view",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().StringVar(&presetName, "preset", "", "use a named preset (see 'presets')")
	liveCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "construction jitter seed")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list persisted runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a persisted run's time series in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotSeries, "series", "tension", "series to plot: tension, energy or height")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run's full snapshot stream as a JSON array",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a run's climber/energy time series as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id] [frame_index]",
		Short: "export one snapshot frame as an SVG",
		Args:  cobra.ExactArgs(2),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&svgOut, "out", "frame.svg", "output path")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of the rope's elastic energy over a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run a batch of seed-perturbed simulations and summarise peak tension/speed",
		RunE:  runEnsemble,
	}
	ensembleCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	ensembleCmd.Flags().StringVar(&presetName, "preset", "", "use a named preset")
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of ensemble members")
	ensembleCmd.Flags().Int64Var(&seedStart, "seed-start", 1, "first member's jitter seed")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd, presetsCmd, analyzeCmd, ensembleCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves --config/--preset into a clamped Config, falling
// back to DefaultConfig. CLI --seed (when explicitly set) always wins,
// so a run is reproducible by quoting its seed.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	case presetName != "":
		preset := config.GetPreset(presetName)
		if preset == nil {
			return nil, fmt.Errorf("unknown preset %q (available: %v)", presetName, config.ListPresets())
		}
		cfgCopy := *preset
		cfg = &cfgCopy
	default:
		cfg = config.DefaultConfig()
	}

	if _, err := cfg.ParsedVersion(); err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	cfg.Clamp(cliLogger{})
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	w, err := world.Build(cfg, cliLogger{})
	if err != nil {
		return err
	}

	fmt.Println("running simulation...")
	start := time.Now()
	result, err := w.Advance(context.Background(), cfg.SimulationDuration)
	elapsed := time.Since(start)
	if err != nil {
		return err
	}

	drift := metrics.NewEnergyDrift()
	for _, snap := range result.Snapshots {
		drift.Observe(snapshotEnergy(snap))
	}

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", len(result.Snapshots))
	fmt.Printf("final time: %.4fs (interrupted=%v)\n", result.FinalTime, result.Interrupted)
	fmt.Printf("peak tension: %.1f N\n", result.PeakTension)
	fmt.Printf("peak speed: %.2f m/s\n", result.PeakSpeed)
	fmt.Printf("max energy increase: %.4g J (monotone=%v)\n", drift.MaxIncrease(), drift.Monotone(1e-3))
	return nil
}

// snapshotEnergy sums the per-record total energies of one snapshot:
// kinetic + potential per point mass, elastic for the rope record.
func snapshotEnergy(snap world.Snapshot) float64 {
	total := 0.0
	for _, b := range snap.Bodies {
		total += b.TotalEnergy
	}
	return total
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	w, err := world.Build(cfg, cliLogger{})
	if err != nil {
		return err
	}
	m := viz.NewModel(w, cfg)
	p := tea.NewProgram(m)
	_, err = p.Run()
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tFINAL_T\tPEAK_TENSION\tPEAK_SPEED\tFRAMES\tINTERRUPTED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.3fs\t%.1fN\t%.2fm/s\t%d\t%v\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.FinalTime,
			run.PeakTension,
			run.PeakSpeed,
			run.NumFrames,
			run.Interrupted,
		)
	}
	return w.Flush()
}

// seriesOf extracts one plottable scalar per snapshot: the climber's
// instantaneous force ("tension"), the snapshot's summed energy
// ("energy"), or the climber's height ("height").
func seriesOf(snapshots []world.Snapshot, series string) ([]float64, error) {
	out := make([]float64, len(snapshots))
	for i, snap := range snapshots {
		switch series {
		case "energy":
			out[i] = snapshotEnergy(snap)
		case "tension", "height":
			for _, b := range snap.Bodies {
				if b.Name != "climber" {
					continue
				}
				if series == "tension" {
					out[i] = b.InstantForce
				} else if b.Position != nil {
					out[i] = b.Position.Y
				}
			}
		default:
			return nil, fmt.Errorf("unknown series %q (want tension, energy or height)", series)
		}
	}
	return out, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	snapshots, err := st.LoadSnapshots(args[0])
	if err != nil {
		return err
	}
	if len(snapshots) < 2 {
		return fmt.Errorf("run %s has too few frames to plot", args[0])
	}

	data, err := seriesOf(snapshots, plotSeries)
	if err != nil {
		return err
	}
	graph := asciigraph.Plot(data, asciigraph.Height(15), asciigraph.Width(80), asciigraph.Caption(fmt.Sprintf("%s over %d frames", plotSeries, len(data))))
	fmt.Println(graph)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	snapshots, err := st.LoadSnapshots(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snapshots)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	snapshots, err := st.LoadSnapshots(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	if err := w.Write([]string{"time", "climber_height", "climber_force", "total_energy"}); err != nil {
		return err
	}
	for _, snap := range snapshots {
		height, force := 0.0, 0.0
		for _, b := range snap.Bodies {
			if b.Name != "climber" {
				continue
			}
			force = b.InstantForce
			if b.Position != nil {
				height = b.Position.Y
			}
		}
		rec := []string{
			strconv.FormatFloat(snap.Time, 'g', -1, 64),
			strconv.FormatFloat(height, 'g', -1, 64),
			strconv.FormatFloat(force, 'g', -1, 64),
			strconv.FormatFloat(snapshotEnergy(snap), 'g', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	snapshots, err := st.LoadSnapshots(args[0])
	if err != nil {
		return err
	}
	var idx int
	if _, err := fmt.Sscanf(args[1], "%d", &idx); err != nil {
		return fmt.Errorf("invalid frame index %q: %w", args[1], err)
	}
	if idx < 0 || idx >= len(snapshots) {
		return fmt.Errorf("frame index %d out of range [0,%d)", idx, len(snapshots))
	}
	svg := export.SnapshotToSVG(snapshots[idx], 800, 600)
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgOut)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	snapshots, err := st.LoadSnapshots(args[0])
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		return fmt.Errorf("no data")
	}

	elastic := make([]float64, len(snapshots))
	for i, snap := range snapshots {
		for _, b := range snap.Bodies {
			if b.Type == world.RecordRope {
				elastic[i] = b.ElasticEnergy
			}
		}
	}

	ps := analysis.PowerSpectrum(analysis.PadPow2(elastic))
	plotData := ps[:len(ps)/4+1]

	fmt.Printf("frequency analysis: %s\n\n", meta.ID)
	graph := asciigraph.Plot(plotData, asciigraph.Height(15), asciigraph.Width(80), asciigraph.Caption("rope elastic-energy power spectrum"))
	fmt.Println(graph)
	if meta.Config != nil && meta.Config.FrameRate > 0 {
		fmt.Printf("\ndominant oscillation: %.2f Hz\n", analysis.DominantFrequency(ps, meta.Config.FrameRate))
	}

	if meta.Config != nil && meta.Config.ClimberHeight > 0 && meta.RestLength > 0 {
		peak := analysis.ClosedFormPeakTension(meta.Config.ClimberWeight, 9.80665, meta.Config.ClimberHeight, meta.RestLength, meta.Config.Elasticity())
		fmt.Printf("\nclosed-form free-fall peak tension: %.1f N (observed %.1f N)\n", peak, meta.PeakTension)
	}
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("running %d-member ensemble (seeds %d..%d)...\n", numRuns, seedStart, seedStart+int64(numRuns)-1)
	start := time.Now()
	results, err := batch.Ensemble(context.Background(), cfg, cliLogger{}, numRuns, seedStart, cfg.SimulationDuration)
	elapsed := time.Since(start)
	if err != nil {
		return err
	}
	stats := batch.Reduce(results)

	fmt.Printf("completed in %v\n\n", elapsed)
	fmt.Printf("runs: %d\n", stats.Runs)
	fmt.Printf("peak tension: min=%.1fN mean=%.1fN max=%.1fN\n", stats.MinPeakTension, stats.MeanPeakTension, stats.MaxPeakTension)
	fmt.Printf("peak speed:   min=%.2fm/s mean=%.2fm/s max=%.2fm/s\n", stats.MinPeakSpeed, stats.MeanPeakSpeed, stats.MaxPeakSpeed)
	return nil
}
