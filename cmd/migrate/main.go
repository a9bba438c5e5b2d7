package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/bioinfoteam/blasperin/internal/ledger"
)

func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: migrate <normalize|remove-duplicates> <fasta-directory>")
	}

	command := os.Args[1]
	fastaDir := os.Args[2]

	switch command {
	case "normalize":
		if err := normalize(fastaDir); err != nil {
			log.Fatal(err)
		}
	case "remove-duplicates":
		if err := removeDuplicates(fastaDir); err != nil {
			log.Fatal(err)
		}
	default:
		log.Fatalf("Unknown command %q", command)
	}
}

// normalize rewrites ledger entries recorded with a directory-qualified path
// (as older releases did) to the base file name lookups use
func normalize(fastaDir string) error {
	l := ledger.Open(fastaDir)
	entries, err := l.Entries()
	if err != nil {
		return err
	}

	changed := 0
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		name := ledger.Name(e)
		if name != e {
			log.Printf("Normalizing %s -> %s", e, name)
			changed++
		}
		out = append(out, name)
	}

	if changed == 0 {
		log.Printf("Ledger %s already uses base names", l.Path())
		return nil
	}
	if err := l.Rewrite(out); err != nil {
		return fmt.Errorf("rewriting %s: %w", l.Path(), err)
	}
	fmt.Printf("Normalized %d ledger entries\n", changed)
	return nil
}

// removeDuplicates keeps the first occurrence of every ledger entry
func removeDuplicates(fastaDir string) error {
	l := ledger.Open(fastaDir)
	entries, err := l.Entries()
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(entries))
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if seen[e] {
			log.Printf("Removing duplicate entry %s", e)
			continue
		}
		seen[e] = true
		out = append(out, e)
	}

	removed := len(entries) - len(out)
	if removed == 0 {
		log.Printf("No duplicates in %s", filepath.Base(l.Path()))
		return nil
	}
	if err := l.Rewrite(out); err != nil {
		return fmt.Errorf("rewriting %s: %w", l.Path(), err)
	}
	fmt.Printf("Removed %d duplicate entries\n", removed)
	return nil
}
