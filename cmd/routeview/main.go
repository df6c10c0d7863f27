// Command routeview loads a scene, refreshes its bound connectors and
// prints the result as a character drawing. With -i it opens an
// interactive view in which shapes can be dragged with the arrow keys.
package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/npillmayer/schuko/tracing"

	"diagrid/canvas"
	"diagrid/metrics"
	"diagrid/scene"
)

func main() {
	var (
		interactive = flag.Bool("i", false, "Interactive mode")
		cols        = flag.Int("cols", 100, "Canvas width in characters (non-interactive)")
		rows        = flag.Int("rows", 40, "Canvas height in characters (non-interactive)")
		outputFile  = flag.String("o", "", "Output file (default: stdout)")
		saveFile    = flag.String("save", "", "Write the refreshed scene to this file (.yaml or .json)")
		metricsAddr = flag.String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
		traceLevel  = flag.String("trace", "Error", "Trace level: Debug, Info or Error")
		check       = flag.Bool("check", false, "Report line characters that do not join up (non-interactive)")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] scene.yaml\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Routes the connectors of a scene and shows the result.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nInteractive keys:\n")
		fmt.Fprintf(os.Stderr, "  Tab          select next shape\n")
		fmt.Fprintf(os.Stderr, "  arrows       move selected shape (Shift: larger steps)\n")
		fmt.Fprintf(os.Stderr, "  u / r        undo / redo\n")
		fmt.Fprintf(os.Stderr, "  c            commit position to history\n")
		fmt.Fprintf(os.Stderr, "  x / Delete   delete selected shape\n")
		fmt.Fprintf(os.Stderr, "  q / Esc      quit\n")
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	opts := options{
		interactive: *interactive,
		cols:        *cols,
		rows:        *rows,
		outputFile:  *outputFile,
		saveFile:    *saveFile,
		metricsAddr: *metricsAddr,
		traceLevel:  *traceLevel,
		check:       *check,
	}
	if err := run(flag.Arg(0), opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	interactive bool
	cols, rows  int
	outputFile  string
	saveFile    string
	metricsAddr string
	traceLevel  string
	check       bool
}

func run(path string, opts options) error {
	setTraceLevel(opts.traceLevel)

	sc, err := scene.Load(path)
	if err != nil {
		return err
	}
	s, err := newSession(sc)
	if err != nil {
		return err
	}
	if opts.metricsAddr != "" {
		go serveMetrics(opts.metricsAddr, s)
	}
	s.refreshAll()

	if opts.interactive {
		if err := runInteractive(s); err != nil {
			return err
		}
	} else {
		c, err := s.render(opts.cols, opts.rows)
		if err != nil {
			return err
		}
		out := c.String() + "\n"
		if opts.outputFile == "" {
			fmt.Print(out)
		} else if err := os.WriteFile(opts.outputFile, []byte(out), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		if opts.check {
			for _, p := range canvas.Validate(c) {
				fmt.Fprintf(os.Stderr, "warning: %s\n", p)
			}
		}
	}

	if opts.saveFile != "" {
		return scene.Save(opts.saveFile, s.snapshot(sc))
	}
	return nil
}

func serveMetrics(addr string, s *session) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(s.registry))
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "metrics server: %v\n", err)
	}
}

func setTraceLevel(level string) {
	l := tracing.LevelError
	switch level {
	case "Debug", "debug":
		l = tracing.LevelDebug
	case "Info", "info":
		l = tracing.LevelInfo
	}
	for _, key := range []string{"diagrid.pathfinding", "diagrid.binding", "diagrid.connections", "diagrid.store"} {
		tracing.Select(key).SetTraceLevel(l)
	}
}
