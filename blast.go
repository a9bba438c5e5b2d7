package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// toolWaitDelay bounds how long a cancelled stage may hold its output pipes
const toolWaitDelay = 5 * time.Second

// Tool runs the two external stages for one input file
type Tool interface {
	MakeDB(ctx context.Context, in, out string) error
	Search(ctx context.Context, query, db, out string) error
}

// ToolError represents a failed external tool invocation
type ToolError struct {
	Stage    string
	Path     string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s failed for %s", e.Stage, e.Path)
	if e.ExitCode > 0 {
		msg += fmt.Sprintf(" (exit %d)", e.ExitCode)
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// BlastTool invokes the NCBI BLAST+ makeblastdb and blastp binaries
type BlastTool struct {
	settings *Settings
}

// NewBlastTool creates a BLAST+ tool from settings
func NewBlastTool(settings *Settings) *BlastTool {
	return &BlastTool{settings: settings}
}

// Check verifies that both binaries can be found
func (b *BlastTool) Check() error {
	for _, name := range []string{b.settings.MakeBlastDB, b.settings.Blastp} {
		if _, err := exec.LookPath(name); err != nil {
			return fmt.Errorf("could not find executable %q: %w", name, err)
		}
	}
	return nil
}

// MakeDB builds the BLAST index for in under the basename out
func (b *BlastTool) MakeDB(ctx context.Context, in, out string) error {
	return b.exec(ctx, "makeblastdb", in, b.settings.MakeBlastDB, b.makeDBArgs(in, out))
}

// Search runs query against the index db and writes tabular hits to out
func (b *BlastTool) Search(ctx context.Context, query, db, out string) error {
	return b.exec(ctx, "blastp", query, b.settings.Blastp, b.searchArgs(query, db, out))
}

func (b *BlastTool) makeDBArgs(in, out string) []string {
	return []string{
		"-in", in,
		"-out", out,
		"-dbtype", b.settings.DBType,
	}
}

func (b *BlastTool) searchArgs(query, db, out string) []string {
	return []string{
		"-query", query,
		"-outfmt", b.settings.OutFmt,
		"-evalue", strconv.FormatFloat(b.settings.EValue, 'g', -1, 64),
		"-num_alignments", strconv.Itoa(b.settings.NumAlignments),
		"-db", db,
		"-out", out,
	}
}

// exec runs a stage to completion. Stdout is discarded and stderr is kept
// for the error. The stage runs in its own process group, and cancelling ctx
// kills the whole group so wrapper scripts cannot outlive it.
func (b *BlastTool) exec(ctx context.Context, stage, path, name string, args []string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
	}
	cmd.WaitDelay = toolWaitDelay

	if err := cmd.Run(); err != nil {
		toolErr := &ToolError{
			Stage:  stage,
			Path:   path,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			toolErr.ExitCode = exitErr.ExitCode()
		}
		return toolErr
	}
	return nil
}
