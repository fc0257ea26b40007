package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/airtime/internal/analysis"
	"github.com/san-kum/airtime/internal/automation"
	"github.com/san-kum/airtime/internal/config"
	"github.com/san-kum/airtime/internal/export"
	"github.com/san-kum/airtime/internal/linalg"
	"github.com/san-kum/airtime/internal/metrics"
	"github.com/san-kum/airtime/internal/optim"
	"github.com/san-kum/airtime/internal/rigid"
	"github.com/san-kum/airtime/internal/scene"
	"github.com/san-kum/airtime/internal/sim"
	"github.com/san-kum/airtime/internal/storage"
	"github.com/san-kum/airtime/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string

	dt         float64
	duration   float64
	bendRate   float64
	startAngle float64
	holdAngle  float64
	omega      []float64
	dims       []float64
	azimuth    float64
	elevation  float64
	distance   float64
	reorth     int

	columns   []string
	xColumn   string
	yColumn   string
	svgPath   string
	stlPath   string
	meshCells int
	braille   bool
	bendAngle float64
	bendSteps int
	sweepSet  []string
	perturb   float64
	kpGrid    []float64
	kiGrid    []float64
	kdGrid    []float64

	sectionCol   string
	sectionLevel float64
)

// main registers the commands and runs the root command. With no subcommand
// it opens the preset picker.
func main() {
	rootCmd := &cobra.Command{
		Use:   "airtime",
		Short: "articulated rigid-body simulation lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.Run(viz.NewPicker(scene.NewRegistry()))
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".airtime", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a simulation and record it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSceneFlags(runCmd)
	runCmd.Flags().IntVar(&reorth, "reorth", 0, "re-orthonormalize orientations every n steps (0 disables)")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "watch a simulation in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSceneFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot recorded columns against time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&columns, "column", nil, "columns to plot, e.g. limb.x (default: first body position)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a recorded column",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringSliceVar(&columns, "column", nil, "column to analyze (default: first body r00)")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "plot one recorded column against another",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&xColumn, "x", "", "column for the x axis (default: first body r00)")
	phaseCmd.Flags().StringVar(&yColumn, "y", "", "column for the y axis (default: first body r10)")
	phaseCmd.Flags().StringVar(&svgPath, "svg", "", "also write the portrait as SVG")
	phaseCmd.Flags().StringVar(&sectionCol, "section", "", "also plot a Poincare section triggered by this column")
	phaseCmd.Flags().Float64Var(&sectionLevel, "level", 0, "trigger level for --section")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringSliceVar(&columns, "column", nil, "columns to export (default: all)")

	presetsCmd := &cobra.Command{
		Use:   "presets [scene]",
		Short: "list available presets for a scene",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	bendCmd := &cobra.Command{
		Use:   "bend",
		Short: "bend the gymnast hinge out and back and report the round-trip error",
		Args:  cobra.NoArgs,
		RunE:  bendDiagnostics,
	}
	addSceneFlags(bendCmd)
	bendCmd.Flags().Float64Var(&bendAngle, "angle", 0.5, "total bend in radians")
	bendCmd.Flags().IntVar(&bendSteps, "steps", 10, "number of increments each way")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene]",
		Short: "run several presets in parallel and compare their metrics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepPresets,
	}
	sweepCmd.Flags().StringSliceVar(&sweepSet, "presets", nil, "presets to run (default: all for the scene)")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [scene]",
		Short: "render a scene at the end of its duration",
		Args:  cobra.MaximumNArgs(1),
		RunE:  snapshot,
	}
	addSceneFlags(snapshotCmd)
	snapshotCmd.Flags().StringVar(&svgPath, "svg", "", "write the picture as SVG")
	snapshotCmd.Flags().BoolVar(&braille, "braille", false, "write the braille canvas to SVG instead of vector lines")
	snapshotCmd.Flags().StringVar(&stlPath, "stl", "", "write the posed solids as an STL mesh")
	snapshotCmd.Flags().IntVar(&meshCells, "cells", export.DefaultMeshCells, "STL mesh resolution")

	stabilityCmd := &cobra.Command{
		Use:   "stability",
		Short: "estimate Lyapunov exponents of the spinner",
		Args:  cobra.NoArgs,
		RunE:  spinStability,
	}
	addSceneFlags(stabilityCmd)
	stabilityCmd.Flags().Float64Var(&perturb, "perturbation", 1e-6, "initial angular velocity offset")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid-search servo gains for the gymnast hold",
		Args:  cobra.NoArgs,
		RunE:  tuneServo,
	}
	addSceneFlags(tuneCmd)
	tuneCmd.Flags().Float64SliceVar(&kpGrid, "kp", []float64{1, 2, 4, 8}, "proportional gains to try")
	tuneCmd.Flags().Float64SliceVar(&kiGrid, "ki", []float64{0, 0.5}, "integral gains to try")
	tuneCmd.Flags().Float64SliceVar(&kdGrid, "kd", []float64{0, 0.1}, "derivative gains to try")

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a YAML script of simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, analyzeCmd, phaseCmd, exportJSONCmd, exportCSVCmd,
		presetsCmd, bendCmd, sweepCmd, snapshotCmd, stabilityCmd, tuneCmd, scriptCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	f.Float64Var(&duration, "time", config.DefaultDuration, "duration")
	f.Float64Var(&bendRate, "rate", config.DefaultBendRate, "hinge drive rate in rad/s (gymnast)")
	f.Float64Var(&startAngle, "start", math.Pi/2, "initial hinge angle (gymnast)")
	f.Float64Var(&holdAngle, "hold", 0, "servo the hinge to this angle instead of driving it (gymnast)")
	f.Float64SliceVar(&omega, "omega", nil, "initial angular velocity x,y,z (spinner)")
	f.Float64SliceVar(&dims, "dims", nil, "box edge lengths x,y,z (spinner)")
	f.Float64Var(&azimuth, "azimuth", 0, "camera azimuth")
	f.Float64Var(&elevation, "elevation", 0, "camera elevation")
	f.Float64Var(&distance, "distance", config.DefaultDistance, "camera distance")
}

// resolveConfig layers preset, config file and explicitly set flags, in that
// order, over the defaults.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	name := config.DefaultScene
	if len(args) > 0 {
		name = args[0]
	}

	cfg := config.DefaultConfig()
	cfg.Scene = name
	if preset != "" {
		p := config.GetPreset(name, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(name))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if len(args) > 0 {
			loaded.Scene = name
		}
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("dt") {
		cfg.Dt = dt
	}
	if f.Changed("time") {
		cfg.Duration = duration
	}
	if f.Changed("rate") {
		cfg.Gymnast.BendRate = bendRate
	}
	if f.Changed("start") {
		cfg.Gymnast.StartAngle = startAngle
	}
	if f.Changed("hold") {
		sv := &cfg.Gymnast.Servo
		if !sv.Enabled {
			*sv = config.ServoConfig{Kp: 4, MaxRate: 1}
		}
		sv.Enabled = true
		sv.Target = holdAngle
	}
	if f.Changed("omega") {
		v, err := triple("omega", omega)
		if err != nil {
			return nil, err
		}
		cfg.Spinner.Omega = v
	}
	if f.Changed("dims") {
		v, err := triple("dims", dims)
		if err != nil {
			return nil, err
		}
		cfg.Spinner.Dims = v
	}
	if f.Changed("azimuth") {
		cfg.Camera.Azimuth = azimuth
	}
	if f.Changed("elevation") {
		cfg.Camera.Elevation = elevation
	}
	if f.Changed("distance") {
		cfg.Camera.Distance = distance
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func triple(name string, vs []float64) ([3]float64, error) {
	if len(vs) != 3 {
		return [3]float64{}, fmt.Errorf("--%s needs three values, got %d", name, len(vs))
	}
	return [3]float64{vs[0], vs[1], vs[2]}, nil
}

func runConfig(cfg *config.Config) sim.Config {
	c := sim.DefaultConfig()
	c.Dt = cfg.Dt
	c.Duration = cfg.Duration
	c.Reorthonormalize = reorth
	return c
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	sc, err := scene.NewRegistry().Build(cfg)
	if err != nil {
		return err
	}
	s := sim.New(sc)
	for _, m := range metrics.ForScene(sc) {
		s.AddMetric(m)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s simulation...\n", cfg.Scene)
	start := time.Now()

	result, err := s.Run(ctx, runConfig(cfg))
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Scene, preset, cfg.Dt, cfg.Duration, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	printMetrics(os.Stdout, result.Metrics)
	return nil
}

func printMetrics(w io.Writer, ms map[string]float64) {
	names := make([]string, 0, len(ms))
	for name := range ms {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %.6g\n", name, ms[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	registry := scene.NewRegistry()
	title := cfg.Scene
	if preset != "" {
		title += "/" + preset
	}
	m, err := viz.NewModel(func() (scene.Scene, error) { return registry.Build(cfg) }, title, cfg)
	if err != nil {
		return err
	}
	return viz.Run(m)
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
	fmt.Fprintln(w, "ID\tSCENE\tPRESET\tTIME\tDURATION\tDT\tSTEPS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4fs\t%d\n",
			run.ID,
			run.Scene,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Steps,
		)
	}
	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, *storage.Table, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	table, err := st.LoadPoses(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(table.Rows) == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, table, nil
}

// defaultColumn names a field of the first recorded body.
func defaultColumn(meta *storage.RunMetadata, field string) string {
	if len(meta.Bodies) == 0 {
		return "time"
	}
	return meta.Bodies[0] + "." + field
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, table, err := loadRun(args[0])
	if err != nil {
		return err
	}

	cols := columns
	if len(cols) == 0 {
		cols = []string{defaultColumn(meta, "x"), defaultColumn(meta, "y"), defaultColumn(meta, "z")}
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(table.Rows))

	for _, c := range cols {
		data, err := table.Column(c)
		if err != nil {
			return err
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(c+" vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, table, err := loadRun(args[0])
	if err != nil {
		return err
	}

	col := defaultColumn(meta, "r00")
	if len(columns) > 0 {
		col = columns[0]
	}
	data, err := table.Column(col)
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("column: %s\n\n", col)

	ps, err := analysis.PowerSpectrum(analysis.Truncate(data))
	if err != nil {
		return err
	}
	if plotData := ps[:max(len(ps)/4, 1)]; len(plotData) > 1 {
		graph := asciigraph.Plot(plotData,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum ("+col+")"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	freq, err := analysis.DominantFrequency(data, meta.Dt)
	if err != nil {
		return err
	}
	fmt.Printf("dominant frequency: %.4f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, table, err := loadRun(args[0])
	if err != nil {
		return err
	}

	xc, yc := xColumn, yColumn
	if xc == "" {
		xc = defaultColumn(meta, "r00")
	}
	if yc == "" {
		yc = defaultColumn(meta, "r10")
	}
	xs, err := table.Column(xc)
	if err != nil {
		return err
	}
	ys, err := table.Column(yc)
	if err != nil {
		return err
	}
	portrait, err := analysis.NewPhasePortrait(xs, ys)
	if err != nil {
		return err
	}

	fmt.Printf("phase plot: %s\n", meta.ID)
	fmt.Printf("x: %s, y: %s\n\n", xc, yc)
	fmt.Print(portrait.ASCII(70, 20))

	if sectionCol != "" {
		trigger, err := table.Column(sectionCol)
		if err != nil {
			return err
		}
		section, err := analysis.NewPoincareSection(trigger, xs, ys, sectionLevel)
		if err != nil {
			return err
		}
		fmt.Printf("\nsection: %s crossing %g upwards (%d points)\n\n", sectionCol, sectionLevel, len(section.Points))
		fmt.Print(section.ASCII(70, 20))
	}

	if svgPath != "" {
		svg := export.TrajectoryToSVG(portrait.Points, 800, 600, "#00ccff")
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", svgPath)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, table, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, table)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, table, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportCSV(os.Stdout, table, columns...)
}

func listPresets(cmd *cobra.Command, args []string) error {
	scenes := config.ListScenes()
	if len(args) > 0 {
		scenes = args
	}
	for _, name := range scenes {
		presets := config.ListPresets(name)
		if len(presets) == 0 {
			fmt.Printf("no presets for scene: %s\n", name)
			continue
		}
		fmt.Printf("presets for %s:\n", name)
		for _, p := range presets {
			fmt.Printf("  %s\n", p)
		}
	}
	return nil
}

// bendDiagnostics bends the gymnast hinge out in equal increments and back
// again. The pivot must stay put on the way and the bodies must return to
// their starting poses.
func bendDiagnostics(cmd *cobra.Command, args []string) error {
	if bendSteps <= 0 {
		return fmt.Errorf("--steps must be positive, got %d", bendSteps)
	}
	cfg, err := resolveConfig(cmd, []string{"gymnast"})
	if err != nil {
		return err
	}
	g, err := scene.NewGymnast(cfg.Gymnast)
	if err != nil {
		return err
	}
	h := g.Hinge()
	pivot := h.Position()
	start := sim.Capture(g, 0)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tANGLE\tPIVOT DRIFT\tDRIFT")
	delta := bendAngle / float64(bendSteps)
	for i := 0; i < 2*bendSteps; i++ {
		d := delta
		if i >= bendSteps {
			d = -delta
		}
		if err := h.Bend(d); err != nil {
			w.Flush()
			return fmt.Errorf("bend %d: %w", i+1, err)
		}
		fmt.Fprintf(w, "%d\t%.4f\t%.2e\t%.2e\n", i+1, h.Angle(), h.Position().Sub(pivot).Length(), poseError(start, sim.Capture(g, 0)))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nround trip error: %.3e\n", poseError(start, sim.Capture(g, 0)))
	return nil
}

// poseError is the largest position or orientation entry difference between
// two samples of the same bodies.
func poseError(a, b sim.Sample) float64 {
	worst := 0.0
	for i := range a.Poses {
		pa, pb := a.Poses[i], b.Poses[i]
		worst = math.Max(worst, pa.Position.Sub(pb.Position).Length())
		worst = math.Max(worst, maxAbs(pa.Orientation.Sub(pb.Orientation)))
	}
	return worst
}

func maxAbs(m linalg.Matrix3x3) float64 {
	worst := 0.0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			worst = math.Max(worst, math.Abs(m[i][j]))
		}
	}
	return worst
}

func sweepPresets(cmd *cobra.Command, args []string) error {
	name := config.DefaultScene
	if len(args) > 0 {
		name = args[0]
	}
	names := sweepSet
	if len(names) == 0 {
		names = config.ListPresets(name)
	}
	if len(names) == 0 {
		return fmt.Errorf("no presets for scene: %s", name)
	}

	registry := scene.NewRegistry()
	jobs := make([]sim.Job, len(names))
	for i, p := range names {
		cfg := config.GetPreset(name, p)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", p, config.ListPresets(name))
		}
		jobs[i] = sim.Job{
			Name:    p,
			Build:   func() (scene.Scene, error) { return registry.Build(cfg) },
			Metrics: metrics.ForScene,
			Config:  runConfig(cfg),
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, err := sim.NewEnsemble(jobs...).Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%d runs of %s in %v\n\n", len(results), name, time.Since(start))

	seen := make(map[string]bool)
	metricNames := make([]string, 0)
	for _, r := range results {
		for n := range r.Metrics {
			if !seen[n] {
				seen[n] = true
				metricNames = append(metricNames, n)
			}
		}
	}
	sort.Strings(metricNames)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSTEPS\t"+strings.ToUpper(strings.Join(metricNames, "\t")))
	for i, r := range results {
		row := []string{names[i], fmt.Sprint(r.StepsTaken)}
		for _, n := range metricNames {
			v, ok := r.Metrics[n]
			if !ok {
				row = append(row, "-")
				continue
			}
			row = append(row, fmt.Sprintf("%.4g", v))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	sc, err := scene.NewRegistry().Build(cfg)
	if err != nil {
		return err
	}
	cam := viz.NewCamera(cfg.Camera)
	cam.Frame(sc.Drawables())

	if _, err := sim.New(sc).Run(context.Background(), runConfig(cfg)); err != nil {
		return err
	}

	canvas := viz.NewCanvas(72, 24)
	viz.RenderDrawables(canvas, cam, sc.Drawables())
	fmt.Printf("%s at t=%.2fs\n\n", cfg.Scene, cfg.Duration)
	fmt.Print(canvas.String())

	if svgPath != "" {
		svg := export.WireframeToSVG(sc.Drawables(), cam, 800, 600)
		if braille {
			svg = export.CanvasToSVG(canvas, 4)
		}
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", svgPath)
	}
	if stlPath != "" {
		return writeSTL(stlPath, cfg.Scene, sc.Drawables())
	}
	return nil
}

func writeSTL(path, name string, drawables []rigid.Drawable) error {
	tris, err := export.Tessellate(drawables, meshCells)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := export.WriteSTL(f, name, tris); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d triangles)\n", path, len(tris))
	return f.Close()
}

func spinStability(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, []string{"spinner"})
	if err != nil {
		return err
	}
	spectrum, err := analysis.LyapunovSpectrum(cfg.Spinner, cfg.Dt, cfg.Duration, perturb)
	if err != nil {
		return err
	}

	fmt.Printf("box %v spinning at %v rad/s\n\n", cfg.Spinner.Dims, cfg.Spinner.Omega)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PERTURBED\tEXPONENT")
	for i, l := range spectrum {
		fmt.Fprintf(w, "ω%s\t%.4f\n", []string{"x", "y", "z"}[i], l)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if largest := math.Max(spectrum[0], math.Max(spectrum[1], spectrum[2])); largest > 0.1 {
		fmt.Printf("\nunstable: perturbations grow about e^%.2f per second\n", largest)
	} else {
		fmt.Println("\nstable")
	}
	return nil
}

func tuneServo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, []string{"gymnast"})
	if err != nil {
		return err
	}
	if !cfg.Gymnast.Servo.Enabled {
		return fmt.Errorf("tune needs a servo target: pass --hold or --preset hold")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	run := runConfig(cfg)
	run.ValidateState = false
	fmt.Printf("tuning %d gain sets over %.1fs...\n", len(kpGrid)*len(kiGrid)*len(kdGrid), cfg.Duration)
	res, err := optim.TuneServo(ctx, cfg.Gymnast, run, kpGrid, kiGrid, kdGrid)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, n := range optim.Names(res.Best) {
		fmt.Fprintf(w, "%s\t%g\n", n, res.Best[n])
	}
	fmt.Fprintf(w, "hold_error\t%.6g\n", res.Score)
	fmt.Fprintf(w, "evaluated\t%d (%d infeasible)\n", res.Evaluated, res.Infeasible)
	return w.Flush()
}

func runScript(cmd *cobra.Command, args []string) error {
	script, err := automation.LoadScript(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if script.Name != "" {
		fmt.Printf("%s\n", script.Name)
	}
	results, err := automation.RunScript(ctx, script, scene.NewRegistry(), st, os.Stdout)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nSTEP\tSTEPS\tRUN ID")
	for _, r := range results {
		id := r.RunID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", r.Step.Label(), r.Steps, id)
	}
	return w.Flush()
}
