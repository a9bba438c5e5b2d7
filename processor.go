// processor.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/bioinfoteam/blasperin/internal/ledger"
)

// BatchProcessor handles one pass over a directory of FASTA files
type BatchProcessor struct {
	dir      string
	label    string
	author   string
	settings *Settings
	tool     Tool
	ledger   *ledger.Ledger
	log      *Logger

	now   func() time.Time
	runID func() string
}

// NewBatchProcessor creates a processor for the FASTA files in dir
func NewBatchProcessor(dir, label, author string, settings *Settings, tool Tool, logger *Logger) (*BatchProcessor, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("checking input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input path %s is not a directory", dir)
	}

	return &BatchProcessor{
		dir:      dir,
		label:    label,
		author:   author,
		settings: settings,
		tool:     tool,
		ledger:   ledger.Open(dir),
		log:      logger,
		now:      time.Now,
		runID:    uuid.NewString,
	}, nil
}

// Run writes the metadata record and processes every pending input file.
// Tool failures are recorded per file and do not stop the pass; filesystem
// faults and cancellation do.
func (bp *BatchProcessor) Run(ctx context.Context) (*RunSummary, error) {
	lock, err := lockDir(bp.dir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			bp.log.Warnf("Releasing run lock: %v", err)
		}
	}()

	summary := &RunSummary{RunID: bp.runID(), Started: bp.now()}
	bp.log.Infof("-- START -- run %s (label %q, author %q) on %s", summary.RunID, bp.label, bp.author, bp.dir)

	if err := bp.WriteMetadata(); err != nil {
		return nil, err
	}

	files, err := bp.InputFiles()
	if err != nil {
		return nil, err
	}
	bp.log.Infof("Total of %d files will be processed.", len(files))

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("run %s interrupted: %w", summary.RunID, err)
		}

		bp.log.Infof("[%d/%d] Processing: %s", i+1, len(files), file)
		result, err := bp.ProcessFile(ctx, file)
		summary.Results = append(summary.Results, result)
		if err != nil {
			return summary, err
		}

		switch result.Status {
		case StatusDone:
			bp.log.Infof("✓ Done: %s", file)
		case StatusFailed:
			bp.log.Errorf("✗ Failed %s: %v", file, result.Error)
		}
	}

	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("run %s interrupted: %w", summary.RunID, err)
	}

	summary.Finished = bp.now()
	bp.log.Infof("-- DONE -- run %s: %d done, %d skipped, %d failed in %s",
		summary.RunID, summary.Count(StatusDone), summary.Count(StatusSkipped),
		summary.Count(StatusFailed), summary.Finished.Sub(summary.Started).Round(time.Millisecond))
	return summary, nil
}

// InputFiles lists the regular files matching *.<extension> in the input
// directory, in name order. Only base names are matched, so the directory
// path itself may contain pattern characters.
func (bp *BatchProcessor) InputFiles() ([]string, error) {
	entries, err := os.ReadDir(bp.dir)
	if err != nil {
		return nil, fmt.Errorf("listing input files: %w", err)
	}

	pattern := "*." + bp.settings.Extension
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		ok, err := filepath.Match(pattern, e.Name())
		if err != nil {
			return nil, fmt.Errorf("matching input files against %q: %w", pattern, err)
		}
		if !ok {
			continue
		}

		path := filepath.Join(bp.dir, e.Name())
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("checking input file: %w", err)
		}
		if info.Mode().IsRegular() {
			files = append(files, path)
		}
	}
	return files, nil
}

// ProcessFile runs both BLAST stages for file unless the ledger already names
// it. The returned error is set only for faults that must abort the pass.
func (bp *BatchProcessor) ProcessFile(ctx context.Context, file string) (FileResult, error) {
	result := FileResult{Path: file}

	done, err := bp.IsDone(file)
	if err != nil {
		result.Status = StatusFailed
		result.Error = err
		return result, err
	}
	if done {
		bp.log.Infof("File skipped, it was already blasted: %s", file)
		result.Status = StatusSkipped
		return result, nil
	}

	if err := bp.PurgePartial(file); err != nil {
		result.Status = StatusFailed
		result.Error = err
		return result, err
	}

	stats, err := inspectFasta(file)
	if err != nil {
		result.Status = StatusFailed
		result.Error = err
		return result, nil
	}
	result.Sequences = stats.Sequences
	bp.log.Debugf("%s: %d sequences, %d residues", file, stats.Sequences, stats.Residues)

	if err := bp.blast(ctx, file); err != nil {
		result.Status = StatusFailed
		result.Error = err
		return result, nil
	}

	if err := bp.ledger.Append(file); err != nil {
		result.Status = StatusFailed
		result.Error = err
		return result, err
	}
	result.Status = StatusDone
	return result, nil
}

// blast builds the index for file next to it, then searches file against it
func (bp *BatchProcessor) blast(ctx context.Context, file string) error {
	bp.log.Infof("Creating BLAST DB for: %s", file)
	if err := bp.tool.MakeDB(ctx, file, file); err != nil {
		return err
	}
	bp.log.Infof("DONE creating BLAST DB for: %s", file)

	bp.log.Infof("BLAST proteins: %s", file)
	if err := bp.tool.Search(ctx, file, file, bp.resultPath(file)); err != nil {
		return err
	}
	bp.log.Infof("DONE BLAST proteins: %s", file)
	return nil
}

// IsDone reports whether the ledger names file
func (bp *BatchProcessor) IsDone(file string) (bool, error) {
	return bp.ledger.Contains(file)
}

// PurgePartial removes the index and result files a previous attempt may
// have left behind for file. Missing files are ignored.
func (bp *BatchProcessor) PurgePartial(file string) error {
	for _, suffix := range bp.settings.PartialSuffixes() {
		path := file + suffix
		err := os.Remove(path)
		switch {
		case err == nil:
			bp.log.Infof("Purging old file: %s", path)
		case errors.Is(err, os.ErrNotExist):
		default:
			return fmt.Errorf("purging %s: %w", path, err)
		}
	}
	return nil
}

// WriteMetadata overwrites the run metadata record in the input directory
func (bp *BatchProcessor) WriteMetadata() error {
	return NewMetadata(bp.label, bp.author, bp.settings.Software, bp.now()).Save(bp.dir)
}

func (bp *BatchProcessor) resultPath(file string) string {
	return file + bp.settings.ResultSuffix
}
