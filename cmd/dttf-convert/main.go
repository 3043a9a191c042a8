// Command dttf-convert converts DTTF track candidates in a JSON-lines event
// file into internal tracks with matched trigger primitives, writing the
// result to SQLite and/or JSON lines.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/l1itmu/dttfconv/internal/config"
	"github.com/l1itmu/dttfconv/internal/convert"
	"github.com/l1itmu/dttfconv/internal/event"
	"github.com/l1itmu/dttfconv/internal/eventio"
	"github.com/l1itmu/dttfconv/internal/matcher"
	"github.com/l1itmu/dttfconv/internal/monitoring"
	"github.com/l1itmu/dttfconv/internal/storage/sqlite"
	"github.com/l1itmu/dttfconv/internal/track"
	"github.com/l1itmu/dttfconv/internal/version"
)

type options struct {
	configPath string
	inputPath  string
	dbPath     string
	outPath    string
	verbose    bool
	trace      bool
	version    bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("dttf-convert", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "converter config JSON (defaults built in)")
	fs.StringVar(&o.inputPath, "input", "", "input events (.jsonl or .jsonl.gz)")
	fs.StringVar(&o.dbPath, "db", "", "sqlite database for converted tracks")
	fs.StringVar(&o.outPath, "out", "", "JSON-lines output file, - for stdout")
	fs.BoolVar(&o.verbose, "v", false, "log per-cycle diagnostics")
	fs.BoolVar(&o.trace, "trace", false, "log per-slot detail")
	fs.BoolVar(&o.version, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.version {
		return o, nil
	}
	if o.inputPath == "" {
		return o, errors.New("-input is required")
	}
	if o.dbPath == "" && o.outPath == "" {
		return o, errors.New("at least one of -db or -out is required")
	}
	return o, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("dttf-convert: %v", err)
	}
	if opts.version {
		fmt.Println(version.String())
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		log.Fatalf("dttf-convert: %v", err)
	}
}

func loadConfig(path string) (*config.ConverterConfig, error) {
	if path == "" {
		return config.DefaultConverterConfig(), nil
	}
	return config.LoadConverterConfig(path)
}

func run(ctx context.Context, opts options, stdout io.Writer) (err error) {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	var diag, trace io.Writer
	if opts.verbose {
		diag = monitoring.Writer("[diag] ")
	}
	if opts.trace {
		trace = monitoring.Writer("[trace] ")
	}
	convert.SetLogWriters(monitoring.Writer("[ops] "), diag, trace)
	defer convert.SetLogWriters(nil, nil, nil)

	summary := monitoring.NewSummary()
	conv, err := convert.New(cfg, matcher.DTSegmentMatcher{}, convert.WithObserver(summary))
	if err != nil {
		return err
	}

	reader, err := eventio.Open(opts.inputPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	var sinks []sink
	events, tracks := 0, 0
	defer func() {
		for _, s := range sinks {
			if cerr := s.Close(err, events, tracks); cerr != nil && err == nil {
				err = cerr
			}
		}
	}()

	if opts.dbPath != "" {
		s, err := newDBSink(opts.dbPath, opts.inputPath, cfg)
		if err != nil {
			return err
		}
		sinks = append(sinks, s)
	}
	if opts.outPath != "" {
		s, err := newJSONLSink(opts.outPath, stdout)
		if err != nil {
			return err
		}
		sinks = append(sinks, s)
	}

	for {
		ev, err := reader.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		if err := conv.Produce(ev); err != nil {
			return err
		}
		summary.EndCycle()

		out, err := event.Get[track.Collection](ev, conv.OutputLabel())
		if err != nil {
			return err
		}
		for _, s := range sinks {
			if err := s.Write(ev.ID, conv.OutputLabel(), out); err != nil {
				return err
			}
		}
		events++
		tracks += len(out)
	}

	if report, err := summary.Report(); err == nil {
		monitoring.Logf("conversion summary: %s", report)
	} else {
		monitoring.Logf("conversion summary: %v", err)
	}
	return nil
}

// sink receives converted tracks for each event. Close gets the run error,
// if any, and the final counters.
type sink interface {
	Write(id event.ID, label string, tracks track.Collection) error
	Close(runErr error, events, tracks int) error
}

type dbSink struct {
	db     *sqlite.DB
	runs   *sqlite.RunStore
	tracks *sqlite.TrackStore
	runID  string
}

func newDBSink(path, source string, cfg *config.ConverterConfig) (*dbSink, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("encode config: %w", err)
	}
	s := &dbSink{db: db, runs: sqlite.NewRunStore(db.DB), tracks: sqlite.NewTrackStore(db.DB)}
	run := &sqlite.ConversionRun{SourcePath: source, ConfigJSON: cfgJSON}
	if err := s.runs.InsertRun(run); err != nil {
		db.Close()
		return nil, err
	}
	s.runID = run.RunID
	monitoring.Logf("conversion run %s -> %s (%s)", s.runID, path, version.String())
	return s, nil
}

func (s *dbSink) Write(id event.ID, _ string, tracks track.Collection) error {
	return s.tracks.InsertEvent(s.runID, id, tracks)
}

func (s *dbSink) Close(runErr error, events, tracks int) error {
	status := sqlite.RunCompleted
	if runErr != nil {
		status = sqlite.RunFailed
	}
	ferr := s.runs.FinishRun(s.runID, status, events, tracks)
	if cerr := s.db.Close(); ferr == nil {
		ferr = cerr
	}
	return ferr
}

type jsonlSink struct {
	w *eventio.Writer
	f *os.File
}

func newJSONLSink(path string, stdout io.Writer) (*jsonlSink, error) {
	if path == "-" {
		return &jsonlSink{w: eventio.NewWriter(stdout)}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	return &jsonlSink{w: eventio.NewWriter(f), f: f}, nil
}

func (s *jsonlSink) Write(id event.ID, label string, tracks track.Collection) error {
	return s.w.Write(id, label, tracks)
}

func (s *jsonlSink) Close(_ error, _, _ int) error {
	err := s.w.Flush()
	if s.f != nil {
		if cerr := s.f.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
