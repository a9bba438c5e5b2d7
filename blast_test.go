package main

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
)

func testSettings(t *testing.T) *Settings {
	t.Helper()
	s, err := DefaultSettings()
	if err != nil {
		t.Fatalf("DefaultSettings() error = %v", err)
	}
	return s
}

func TestBlastToolArgs(t *testing.T) {
	b := NewBlastTool(testSettings(t))

	got := strings.Join(b.makeDBArgs("dir/a.fasta", "dir/a.fasta"), " ")
	if want := "-in dir/a.fasta -out dir/a.fasta -dbtype prot"; got != want {
		t.Errorf("makeDBArgs() = %q, want %q", got, want)
	}

	args := b.searchArgs("dir/a.fasta", "dir/a.fasta", "dir/a.fasta.result")
	want := []string{
		"-query", "dir/a.fasta",
		"-outfmt", "6 qseqid sseqid pident ppos score bitscore qstart qend sstart send qlen slen evalue",
		"-evalue", "0.1",
		"-num_alignments", "10000000",
		"-db", "dir/a.fasta",
		"-out", "dir/a.fasta.result",
	}
	if len(args) != len(want) {
		t.Fatalf("searchArgs() = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("searchArgs()[%d] = %q, want %q", i, args[i], want[i])
		}
	}
}

func TestBlastToolExitStatus(t *testing.T) {
	for _, bin := range []string{"true", "false"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not available: %v", bin, err)
		}
	}

	s := testSettings(t)
	s.MakeBlastDB = "true"
	s.Blastp = "false"
	b := NewBlastTool(s)

	if err := b.MakeDB(context.Background(), "a.fasta", "a.fasta"); err != nil {
		t.Errorf("MakeDB() error = %v, want nil", err)
	}

	err := b.Search(context.Background(), "a.fasta", "a.fasta", "a.fasta.result")
	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("Search() error = %v, want *ToolError", err)
	}
	if toolErr.Stage != "blastp" || toolErr.ExitCode != 1 || toolErr.Path != "a.fasta" {
		t.Errorf("ToolError = %+v", toolErr)
	}
	if !strings.Contains(err.Error(), "blastp failed for a.fasta (exit 1)") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestBlastToolCheck(t *testing.T) {
	s := testSettings(t)
	s.MakeBlastDB = "blasperin-no-such-makeblastdb"
	err := NewBlastTool(s).Check()
	if err == nil || !strings.Contains(err.Error(), "blasperin-no-such-makeblastdb") {
		t.Errorf("Check() error = %v, want missing executable", err)
	}
}

func TestToolErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      *ToolError
		expected string
	}{
		{
			name:     "with stderr",
			err:      &ToolError{Stage: "makeblastdb", Path: "a.fasta", ExitCode: 1, Stderr: "BLAST Database error"},
			expected: "makeblastdb failed for a.fasta (exit 1): BLAST Database error",
		},
		{
			name:     "start failure",
			err:      &ToolError{Stage: "blastp", Path: "b.fasta", ExitCode: -1, Err: exec.ErrNotFound},
			expected: "blastp failed for b.fasta: executable file not found in $PATH",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}
