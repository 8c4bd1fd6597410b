package main

import (
	"fmt"

	"github.com/pkg/profile"
)

type stopper interface {
	Stop()
}

type noopStopper struct{}

func (noopStopper) Stop() {}

// startProfile starts a pprof profile written to the working directory.
// mode is "", "cpu" or "mem".
func startProfile(mode string) (stopper, error) {
	switch mode {
	case "":
		return noopStopper{}, nil
	case "cpu":
		return profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook), nil
	case "mem":
		return profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook), nil
	default:
		return nil, fmt.Errorf("unknown profile mode %q", mode)
	}
}
