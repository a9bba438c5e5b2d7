package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// ErrNoSequences is returned for an input file holding no FASTA records.
// makeblastdb refuses such files, so they are never handed to the tools.
var ErrNoSequences = errors.New("no sequences found")

// FastaStats summarizes an input file before it is indexed
type FastaStats struct {
	Sequences int
	Residues  int
}

// inspectFasta scans every record of path
func inspectFasta(path string) (*FastaStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	stats := &FastaStats{}
	sc := seqio.NewScanner(fasta.NewReader(f, linear.NewSeq("", nil, alphabet.Protein)))
	for sc.Next() {
		stats.Sequences++
		stats.Residues += sc.Seq().Len()
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if stats.Sequences == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoSequences)
	}
	return stats, nil
}
