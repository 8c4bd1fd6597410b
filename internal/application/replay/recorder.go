package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/younwookim/tilewalk/internal/application/system"
)

// Recorder wraps an input reader and keeps every state it returns
type Recorder struct {
	mu   sync.Mutex
	read func() system.InputState
	data ReplayData
}

// NewRecorder creates a recorder over read, starting in scene
func NewRecorder(scene string, read func() system.InputState) *Recorder {
	return &Recorder{
		read: read,
		data: ReplayData{
			Version:   "1.0",
			Scene:     scene,
			StartTime: time.Now().Format(time.RFC3339),
			Frames:    make([]FrameInput, 0, 3600), // ~1 minute at 60fps
		},
	}
}

// GetInput reads the wrapped input and records it
func (r *Recorder) GetInput() system.InputState {
	in := r.read()
	r.RecordFrame(in)
	return in
}

// RecordFrame records a single frame's input
func (r *Recorder) RecordFrame(in system.InputState) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data.Frames = append(r.data.Frames, FrameInput{
		F:  len(r.data.Frames),
		L:  in.Left,
		R:  in.Right,
		U:  in.Up,
		D:  in.Down,
		P:  in.Pointer,
		PX: in.PointerX,
		PY: in.PointerY,
	})
}

// FrameCount returns the number of recorded frames
func (r *Recorder) FrameCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.data.Frames)
}

// Data returns a copy of the recording
func (r *Recorder) Data() ReplayData {
	r.mu.Lock()
	defer r.mu.Unlock()
	data := r.data
	data.Frames = append([]FrameInput(nil), r.data.Frames...)
	return data
}

// Save writes the recording to a file
func (r *Recorder) Save(filename string) error {
	data := r.Data()
	if len(data.Frames) == 0 {
		return fmt.Errorf("no frames to save")
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode replay: %w", err)
	}

	return nil
}
