package main

import (
	"fmt"

	"github.com/google/gops/agent"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

// startDiagnostics starts the profiler and gops agent requested on the
// command line. The returned function stops them in reverse order.
func startDiagnostics(cmd *cobra.Command) (func(), error) {
	mode, err := cmd.Flags().GetString(flagProfile)
	if err != nil {
		return nil, err
	}
	gops, err := cmd.Flags().GetBool(flagGops)
	if err != nil {
		return nil, err
	}

	var stops []func()
	stop := func() {
		for i := len(stops) - 1; i >= 0; i-- {
			stops[i]()
		}
	}

	options := []func(*profile.Profile){profile.ProfilePath("."), profile.Quiet, profile.NoShutdownHook}
	switch mode {
	case "":
	case "cpu":
		stops = append(stops, profile.Start(append(options, profile.CPUProfile)...).Stop)
	case "mem":
		stops = append(stops, profile.Start(append(options, profile.MemProfile)...).Stop)
	case "trace":
		stops = append(stops, profile.Start(append(options, profile.TraceProfile)...).Stop)
	default:
		return nil, fmt.Errorf("unknown profile %q: want cpu, mem or trace", mode)
	}

	if gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			stop()
			return nil, fmt.Errorf("starting gops agent: %w", err)
		}
		stops = append(stops, agent.Close)
	}

	return stop, nil
}
