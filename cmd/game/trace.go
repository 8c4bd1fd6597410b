package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/younwookim/tilewalk/internal/domain/entity"
)

// SwapRecord is one published scene
type SwapRecord struct {
	N      int    `json:"n"`      // Swap number
	Scene  string `json:"scene"`  // Scene name
	At     int64  `json:"at"`     // Milliseconds since the trace started
	Width  int    `json:"width"`  // Scene width in pixels
	Height int    `json:"height"` // Scene height in pixels
}

// TraceData is a recorded session of scene swaps
type TraceData struct {
	Version   string       `json:"version"`
	Start     string       `json:"start"`
	StartTime string       `json:"startTime"`
	Swaps     []SwapRecord `json:"swaps"`
}

// Recorder records scene swaps. Record is safe to call from the swap goroutine.
type Recorder struct {
	mu      sync.Mutex
	data    TraceData
	started time.Time
	now     func() time.Time
}

// NewRecorder creates a new recorder
func NewRecorder(start string) *Recorder {
	return newRecorderAt(start, time.Now)
}

func newRecorderAt(start string, now func() time.Time) *Recorder {
	t := now()
	return &Recorder{
		data: TraceData{
			Version:   "1.0",
			Start:     start,
			StartTime: t.Format(time.RFC3339),
			Swaps:     make([]SwapRecord, 0, 16),
		},
		started: t,
		now:     now,
	}
}

// Record appends a swap; it matches the manager's OnSwap signature
func (r *Recorder) Record(desc *entity.SceneDescriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data.Swaps = append(r.data.Swaps, SwapRecord{
		N:      len(r.data.Swaps),
		Scene:  desc.Name,
		At:     r.now().Sub(r.started).Milliseconds(),
		Width:  desc.Width,
		Height: desc.Height,
	})
}

// Count returns the number of recorded swaps
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.data.Swaps)
}

// Save writes the trace to a file
func (r *Recorder) Save(filename string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.data.Swaps) == 0 {
		return fmt.Errorf("no swaps to save")
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r.data); err != nil {
		return fmt.Errorf("failed to encode trace: %w", err)
	}

	return nil
}

// LoadTrace loads trace data from a file
func LoadTrace(filename string) (*TraceData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var data TraceData
	if err := json.NewDecoder(file).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode trace: %w", err)
	}

	return &data, nil
}

// Scenes returns the visited scene names in order
func (d *TraceData) Scenes() []string {
	names := make([]string, len(d.Swaps))
	for i, s := range d.Swaps {
		names[i] = s.Scene
	}
	return names
}
