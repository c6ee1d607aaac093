package models

import "time"

// Model handle lifecycle. Unloaded moves to Loaded or Absent exactly once.
type ModelState string

const (
	ModelUnloaded ModelState = "unloaded"
	ModelLoaded   ModelState = "loaded"
	ModelAbsent   ModelState = "absent"
)

// ModelDescriptor is what an artifact declares about itself.
type ModelDescriptor struct {
	Kind     string   `json:"kind"`
	Features []string `json:"features"`
}

// ModelInfo describes the process-wide model handle.
type ModelInfo struct {
	Path        string          `json:"path"`
	State       ModelState      `json:"state"`
	Descriptor  ModelDescriptor `json:"descriptor"`
	Fingerprint string          `json:"fingerprint,omitempty"`
	LoadedAt    time.Time       `json:"loaded_at,omitempty"`
	Error       string          `json:"error,omitempty"`
}
