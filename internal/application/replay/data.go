// Package replay records the hero's steering input frame by frame and plays
// it back in place of the keyboard and mouse.
package replay

// FrameInput records input state for a single frame
type FrameInput struct {
	F  int  `json:"f"`            // Frame number
	L  bool `json:"l,omitempty"`  // Left
	R  bool `json:"r,omitempty"`  // Right
	U  bool `json:"u,omitempty"`  // Up
	D  bool `json:"d,omitempty"`  // Down
	P  bool `json:"p,omitempty"`  // Pointer held
	PX int  `json:"px,omitempty"` // PointerX
	PY int  `json:"py,omitempty"` // PointerY
}

// ReplayData contains all data needed to replay a session
type ReplayData struct {
	Version   string       `json:"version"`
	Scene     string       `json:"scene"`
	StartTime string       `json:"startTime"`
	Frames    []FrameInput `json:"frames"`
}
