package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/netcanvas/internal/datasource"
	"github.com/vanderheijden86/netcanvas/pkg/canvas"
	"github.com/vanderheijden86/netcanvas/pkg/config"
	"github.com/vanderheijden86/netcanvas/pkg/debug"
	"github.com/vanderheijden86/netcanvas/pkg/metrics"
	"github.com/vanderheijden86/netcanvas/pkg/network"
	"github.com/vanderheijden86/netcanvas/pkg/render"
	"github.com/vanderheijden86/netcanvas/pkg/ui"
	"github.com/vanderheijden86/netcanvas/pkg/version"
	"github.com/vanderheijden86/netcanvas/pkg/watcher"
)

// source names where the tree comes from. Exactly one of its fields is set.
type source struct {
	path   string
	matrix string
}

func (s source) title() string {
	if s.matrix != "" {
		return "matrix " + s.matrix
	}
	return filepath.Base(s.path)
}

func (s source) load() (*network.Node, error) {
	if s.matrix != "" {
		params, err := datasource.ParseMatrix(s.matrix)
		if err != nil {
			return nil, err
		}
		return datasource.Matrix(params), nil
	}
	return datasource.Load(s.path)
}

// pickSource validates the mutually exclusive source flags.
func pickSource(tree, db, matrix string) (source, error) {
	set := 0
	for _, v := range []string{tree, db, matrix} {
		if v != "" {
			set++
		}
	}
	switch {
	case set == 0:
		return source{}, errors.New("one of -tree, -db or -matrix is required")
	case set > 1:
		return source{}, errors.New("-tree, -db and -matrix are mutually exclusive")
	case matrix != "":
		return source{matrix: matrix}, nil
	case db != "":
		return source{path: config.ExpandHome(db)}, nil
	}
	return source{path: config.ExpandHome(tree)}, nil
}

// splitPaths splits a comma-separated -export value, dropping blanks.
func splitPaths(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, config.ExpandHome(p))
		}
	}
	return out
}

// exportSnapshots renders the whole layout (no viewport) to every path.
func exportSnapshots(root *network.Node, cfg config.Config, title string, expandAll bool, paths []string) error {
	cv := canvas.New(root, canvas.WithOptions(cfg.CanvasOptions()))
	if expandAll {
		cv.ExpandAll()
	}
	return render.SaveSnapshots(cv.Snapshot(title, false), paths...)
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	cfg, err := config.Load()
	if err != nil {
		// Non-fatal: continue without config
		debug.Log("config: %v", err)
		return config.DefaultConfig(), nil
	}
	return cfg, nil
}

func main() {
	treePath := flag.String("tree", "", "Load the network from a JSON file")
	dbPath := flag.String("db", "", "Load the network from a SQLite members table")
	matrixFlag := flag.String("matrix", "", "Generate a synthetic WIDTHxDEPTH matrix (e.g. 3x4)")
	configPath := flag.String("config", "", "Config file (default: $XDG_CONFIG_HOME/netcanvas/config.yaml)")
	exportFlag := flag.String("export", "", "Write snapshots to path[,path] (.svg or .png) and exit")
	expandAll := flag.Bool("expand-all", false, "Start with every member expanded")
	watchFlag := flag.Bool("watch", false, "Reload the tree when its file changes")
	debugLog := flag.String("debug-log", "", "Append diagnostic output to file")
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	versionFlag := flag.Bool("version", false, "Show version")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: netcanvas [options]")
		fmt.Fprintln(os.Stderr, "\nAn interactive viewer for member network trees.")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *versionFlag {
		fmt.Printf("netcanvas %s\n", version.Version)
		os.Exit(0)
	}

	if *debugLog != "" {
		f, err := os.OpenFile(config.ExpandHome(*debugLog), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not open debug log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		debug.SetOutput(f)
	}

	// CPU profiling support
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	src, err := pickSource(*treePath, *dbPath, *matrixFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}
	if *watchFlag && src.matrix != "" {
		fmt.Fprintln(os.Stderr, "Error: -watch needs -tree or -db")
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	root, err := src.load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading tree: %v\n", err)
		os.Exit(1)
	}
	if root == nil {
		fmt.Fprintln(os.Stderr, "Warning: tree is empty")
	}

	if *exportFlag != "" {
		paths := splitPaths(*exportFlag)
		if err := exportSnapshots(root, cfg, src.title(), *expandAll, paths); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
			os.Exit(1)
		}
		for _, p := range paths {
			fmt.Println(p)
		}
		return
	}

	opts := []ui.Option{
		ui.WithConfig(cfg),
		ui.WithTitle("netcanvas · " + src.title()),
		ui.WithExpandAll(*expandAll),
	}

	if *watchFlag {
		w, err := watcher.NewWatcher(src.path,
			watcher.WithOnError(func(err error) { debug.Log("watcher: %v", err) }),
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error watching %s: %v\n", src.path, err)
			os.Exit(1)
		}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if err := w.Start(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error watching %s: %v\n", src.path, err)
			os.Exit(1)
		}
		defer w.Stop()
		opts = append(opts, ui.WithWatcher(w, src.load))
	}

	if !ui.IsTerminal() {
		fmt.Fprintln(os.Stderr, "Error: stdin is not a terminal; use -export for headless rendering")
		os.Exit(1)
	}

	m := ui.NewModel(root, opts...)
	if err := runTUIProgram(m); err != nil {
		fmt.Fprintf(os.Stderr, "Error running netcanvas: %v\n", err)
		os.Exit(1)
	}

	if debug.Enabled() && metrics.Enabled() {
		if r := metrics.Collect(); !r.Empty() {
			_ = r.Write(os.Stderr)
		}
	}
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set NC_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("NC_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
