package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/san-kum/springlab/internal/dynamo"
)

type ExportData struct {
	RunMetadata
	History []dynamo.Sample `json:"history"`
}

// WriteJSON encodes a run and its history as indented JSON.
func WriteJSON(w io.Writer, meta RunMetadata, history []dynamo.Sample) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{RunMetadata: meta, History: history})
}

// ExportJSON writes the stored run to path, or to stdout when path is "-".
func (s *Store) ExportJSON(runID, path string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	history, err := s.LoadHistory(runID)
	if err != nil {
		return err
	}

	if path == "-" {
		return WriteJSON(os.Stdout, *meta, history)
	}
	return errors.Wrapf(writeFile(path, func(w io.Writer) error {
		return WriteJSON(w, *meta, history)
	}), "export %s", path)
}

// ExportCSV copies the stored history to path, or to stdout when path is "-".
func (s *Store) ExportCSV(runID, path string) error {
	history, err := s.LoadHistory(runID)
	if err != nil {
		return err
	}
	if path == "-" {
		return WriteCSV(os.Stdout, history)
	}
	return errors.Wrapf(writeFile(path, func(w io.Writer) error {
		return WriteCSV(w, history)
	}), "export %s", path)
}
