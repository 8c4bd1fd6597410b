package state

// SwapState represents where the scene lifecycle manager is in a swap
type SwapState int32

const (
	SwapIdle SwapState = iota
	SwapLoading
	SwapRunningHooks
	SwapPublished
)

// String returns the string representation of the swap state
func (s SwapState) String() string {
	switch s {
	case SwapIdle:
		return "Idle"
	case SwapLoading:
		return "Loading"
	case SwapRunningHooks:
		return "RunningHooks"
	case SwapPublished:
		return "Published"
	default:
		return "Unknown"
	}
}
