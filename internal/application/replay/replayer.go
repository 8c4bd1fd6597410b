package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/younwookim/tilewalk/internal/application/system"
)

// Replayer plays recorded frames back as input states
type Replayer struct {
	mu    sync.Mutex
	data  ReplayData
	frame int
}

// NewReplayer creates a new replayer from replay data
func NewReplayer(data ReplayData) *Replayer {
	return &Replayer{data: data}
}

// LoadReplay loads replay data from a file
func LoadReplay(filename string) (*ReplayData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var data ReplayData
	if err := json.NewDecoder(file).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode replay: %w", err)
	}

	return &data, nil
}

// Next returns the input for the current frame and advances
func (r *Replayer) Next() (system.InputState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frame >= len(r.data.Frames) {
		return system.InputState{}, false
	}
	fi := r.data.Frames[r.frame]
	r.frame++

	return system.InputState{
		Left:     fi.L,
		Right:    fi.R,
		Up:       fi.U,
		Down:     fi.D,
		Pointer:  fi.P,
		PointerX: fi.PX,
		PointerY: fi.PY,
	}, true
}

// GetInput returns the next recorded input, or no input once the recording
// has run out. It fits World's input reader.
func (r *Replayer) GetInput() system.InputState {
	in, _ := r.Next()
	return in
}

// Done reports whether every frame has been played
func (r *Replayer) Done() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frame >= len(r.data.Frames)
}

// CurrentFrame returns the current frame number
func (r *Replayer) CurrentFrame() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frame
}

// TotalFrames returns the total number of frames
func (r *Replayer) TotalFrames() int {
	return len(r.data.Frames)
}

// Scene returns the scene the recording started in
func (r *Replayer) Scene() string {
	return r.data.Scene
}

// Reset rewinds the replayer to the beginning
func (r *Replayer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frame = 0
}
