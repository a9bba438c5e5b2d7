package main

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
	"time"
)

const (
	metadataFileName = "blasperin_metadata"
	metadataDate     = "2006-01-02 15:04:05.000000"
)

//go:embed config/metadata.tmpl
var metadataTemplate string

var metadataTmpl = template.Must(template.New("metadata").Parse(metadataTemplate))

// Metadata tags the results of a run so that a downstream loader can
// attribute them to the label, author and software that produced them
type Metadata struct {
	Label    string
	Author   string
	Date     string
	Software string
}

// NewMetadata stamps a metadata record with the given time
func NewMetadata(label, author, software string, now time.Time) *Metadata {
	return &Metadata{
		Label:    label,
		Author:   author,
		Date:     now.Format(metadataDate),
		Software: software,
	}
}

// Save overwrites the metadata file in dir
func (m *Metadata) Save(dir string) error {
	var buf bytes.Buffer
	if err := metadataTmpl.Execute(&buf, m); err != nil {
		return fmt.Errorf("executing metadata template: %w", err)
	}

	path := filepath.Join(dir, metadataFileName)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing metadata %s: %w", path, err)
	}
	return nil
}
