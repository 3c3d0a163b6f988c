package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/lorenztrail/internal/dynamo"
)

type ExportData struct {
	RunMetadata
	Buffers [][]dynamo.Vec3 `json:"buffers"`
}

// ExportJSON writes the metadata and buffers of a run as one JSON document.
// Non-finite coordinates cannot be encoded and make the export fail.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	buffers, err := s.LoadBuffers(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{RunMetadata: *meta, Buffers: buffers})
}
