// Package logging persists run transcripts as plain-text artifacts for the
// CI pipeline to collect.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/log"
)

const (
	// DeviceTranscriptFile is written for every finalized run.
	DeviceTranscriptFile = "unit_tests_output.txt"

	// AuxTranscriptFile is written only when an auxiliary channel was
	// monitored during the run.
	AuxTranscriptFile = "unit_tests_stm_output.txt"
)

// ArtifactWriter writes each transcript exactly once per run.
type ArtifactWriter struct {
	log log.Logger
	dir string
}

func NewArtifactWriter(logger log.Logger, dir string) *ArtifactWriter {
	return &ArtifactWriter{log: logger, dir: dir}
}

// WriteDeviceTranscript stores the primary console transcript and returns
// the file path.
func (w *ArtifactWriter) WriteDeviceTranscript(content string) (string, error) {
	return w.write(DeviceTranscriptFile, content)
}

// WriteAuxTranscript stores the auxiliary channel transcript and returns the
// file path.
func (w *ArtifactWriter) WriteAuxTranscript(content string) (string, error) {
	return w.write(AuxTranscriptFile, content)
}

func (w *ArtifactWriter) write(name, content string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create artifact directory %s: %w", w.dir, err)
	}
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	w.log.Debug("Wrote artifact", "path", path, "bytes", len(content))
	return path, nil
}
