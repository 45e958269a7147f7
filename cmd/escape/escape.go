package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/willbeason/escape-fractal/pkg/codec"
	"github.com/willbeason/escape-fractal/pkg/config"
	"github.com/willbeason/escape-fractal/pkg/fractal"
)

const (
	flagConfig  = "config"
	flagVerbose = "verbose"
	flagProfile = "profile"
	flagGops    = "gops"
)

func mainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "escape",
		Short: "Render Mandelbrot, Julia and Burning Ship fractals as grayscale images",
		Example: "  escape --rows 1080 --columns 1920 --max-iterations 500 --workers 8 --output mandelbrot.png\n" +
			"  escape --fractal julia --c dendrite --rows 800 --columns 1200 --max-iterations 300 --output julia.png --invert",
		Args:              cobra.ExactArgs(0),
		PersistentPreRunE: setupLogging,
		RunE:              runCmd,
	}

	config.RegisterFlags(cmd.Flags())
	cmd.Flags().String(flagConfig, "", "TOML file with render settings; flags take precedence")

	cmd.PersistentFlags().BoolP(flagVerbose, "v", false, "log every band as it starts and finishes")
	cmd.PersistentFlags().String(flagProfile, "", "write a cpu, mem or trace profile to the working directory")
	cmd.PersistentFlags().Bool(flagGops, false, "start a gops diagnostics agent while running")

	cmd.AddCommand(encodeCmd())

	return cmd
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	verbose, err := cmd.Flags().GetBool(flagVerbose)
	if err != nil {
		return err
	}

	level := "info"
	if verbose {
		level = "debug"
	}

	logx.DisableStat()
	return logx.SetUp(logx.LogConf{
		ServiceName: "escape",
		Mode:        "console",
		Encoding:    "plain",
		Level:       level,
	})
}

func runCmd(cmd *cobra.Command, _ []string) error {
	path, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return err
	}

	c, err := config.Load(cmd.Flags(), path)
	if err != nil {
		return err
	}

	params, err := c.Params()
	if err != nil {
		return err
	}

	// At this point usage information has already been printed if obviously incorrect.
	cmd.SilenceUsage = true

	stop, err := startDiagnostics(cmd)
	if err != nil {
		return err
	}
	defer stop()

	_, err = fractal.Run(cmd.Context(), params, codec.File{JPEGQuality: c.JPEGQuality})
	return err
}

func main() {
	ctx := context.Background()

	err := mainCmd().ExecuteContext(ctx)
	_ = logx.Close()
	if err != nil {
		// At this point the error has already been printed; no need to print again.
		os.Exit(1)
	}
}
