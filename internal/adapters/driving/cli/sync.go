package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	checkpointsqlite "github.com/tributary-data/tributary/internal/adapters/driven/checkpoint/sqlite"
	configfile "github.com/tributary-data/tributary/internal/adapters/driven/config/file"
	"github.com/tributary-data/tributary/internal/adapters/driven/sink/jsonl"
	sinksqlite "github.com/tributary-data/tributary/internal/adapters/driven/sink/sqlite"
	"github.com/tributary-data/tributary/internal/connectors"
	"github.com/tributary-data/tributary/internal/core/domain"
	"github.com/tributary-data/tributary/internal/core/ports/driven"
	"github.com/tributary-data/tributary/internal/core/services"
)

var flagOutput string

// timeRounding trims report durations for display.
const timeRounding = 10 * time.Millisecond

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync [source-id...]",
		Short: "Run incremental extraction for configured sources",
		Long: `Sync extracts new records for the given sources, or for every
configured source when none is named. Checkpoints advance per parent
only after that parent's extraction succeeded, so interrupted or
partially failed runs resume without losing records.`,
		RunE: runSync,
	}

	cmd.Flags().StringVarP(&flagOutput, "output", "o", "",
		"write records as JSON lines to this file instead of the record database (- for stdout)")
	return cmd
}

func runSync(cmd *cobra.Command, args []string) error {
	sources, err := configfile.NewSourceStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}

	checkpoints, err := checkpointsqlite.NewStore(flagDataDir)
	if err != nil {
		return fmt.Errorf("open checkpoint store: %w", err)
	}
	defer checkpoints.Close()

	sink, err := openSink()
	if err != nil {
		return err
	}
	defer sink.Close()

	svc := services.NewSyncService(sources, connectors.NewDefaultFactory(), checkpoints, sink)

	ctx := cmd.Context()
	var reports []domain.RunReport
	if len(args) == 0 {
		reports, err = svc.SyncAll(ctx)
	} else {
		for _, sourceID := range args {
			r, syncErr := svc.Sync(ctx, sourceID)
			reports = append(reports, r...)
			if syncErr != nil {
				err = syncErr
				break
			}
		}
	}

	printReports(cmd, reports)
	return err
}

func openSink() (driven.Sink, error) {
	switch flagOutput {
	case "":
		sink, err := sinksqlite.NewSink(flagDataDir)
		if err != nil {
			return nil, fmt.Errorf("open record store: %w", err)
		}
		return sink, nil
	case "-":
		return jsonl.NewSink(os.Stdout), nil
	default:
		f, err := os.Create(flagOutput)
		if err != nil {
			return nil, fmt.Errorf("create output file: %w", err)
		}
		return &fileSink{Sink: jsonl.NewSink(f), f: f}, nil
	}
}

// fileSink closes the underlying file after the JSONL sink flushed.
type fileSink struct {
	*jsonl.Sink
	f *os.File
}

func (s *fileSink) Close() error {
	if err := s.Sink.Close(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}

func printReports(cmd *cobra.Command, reports []domain.RunReport) {
	for i := range reports {
		report := &reports[i]
		failures := report.Failures()
		cmd.Printf("%s: %d records across %d parents (%d failed) in %s\n",
			report.Resource,
			report.Records(),
			len(report.Results),
			len(failures),
			report.FinishedAt.Sub(report.StartedAt).Round(timeRounding),
		)
		for _, f := range failures {
			cmd.Printf("  %s: %v\n", f.ParentID, f.Err)
		}
	}
}
