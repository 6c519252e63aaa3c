// Package storage persists a completed run (its configuration and
// the snapshot stream the advance loop produced) to disk, and lists
// and reloads past runs. The physics core itself never touches disk;
// it hands snapshots over by value, and this package writes them as a
// metadata.json header plus a newline-delimited JSON snapshot stream.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/climbfall/ropefall/internal/config"
	"github.com/climbfall/ropefall/internal/world"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata is the persisted per-run header: the configuration used,
// when the run was made, and summary statistics cheap to read without
// replaying the whole snapshot stream.
type RunMetadata struct {
	ID          string         `json:"id"`
	Timestamp   time.Time      `json:"timestamp"`
	Config      *config.Config `json:"config"`
	FinalTime   float64        `json:"final_time"`
	Interrupted bool           `json:"interrupted"`
	PeakTension float64        `json:"peak_tension"`
	PeakSpeed   float64        `json:"peak_speed"`
	RestLength  float64        `json:"rest_length"`
	NumFrames   int            `json:"num_frames"`
}

// Save writes a run's metadata.json and snapshots.jsonl under
// baseDir/<runID>/ and returns the generated run ID.
func (s *Store) Save(cfg *config.Config, result *world.Result) (string, error) {
	runID := fmt.Sprintf("run_%d", time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Timestamp:   time.Now(),
		Config:      cfg,
		FinalTime:   result.FinalTime,
		Interrupted: result.Interrupted,
		PeakTension: result.PeakTension,
		PeakSpeed:   result.PeakSpeed,
		RestLength:  result.RestLength,
		NumFrames:   len(result.Snapshots),
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	snapFile, err := os.Create(filepath.Join(runDir, "snapshots.jsonl"))
	if err != nil {
		return "", err
	}
	defer snapFile.Close()
	w := bufio.NewWriter(snapFile)
	defer w.Flush()
	lineEnc := json.NewEncoder(w)
	for _, snap := range result.Snapshots {
		if err := lineEnc.Encode(snap); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// List enumerates every run with a readable metadata.json.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

// Load reads a single run's metadata.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSnapshots replays a run's full snapshot stream.
func (s *Store) LoadSnapshots(runID string) ([]world.Snapshot, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "snapshots.jsonl"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var snapshots []world.Snapshot
	dec := json.NewDecoder(f)
	for dec.More() {
		var snap world.Snapshot
		if err := dec.Decode(&snap); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}
