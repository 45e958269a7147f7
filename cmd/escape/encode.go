package main

import (
	"github.com/spf13/cobra"

	"github.com/willbeason/escape-fractal/pkg/codec"
	"github.com/willbeason/escape-fractal/pkg/config"
	"github.com/willbeason/escape-fractal/pkg/fractal"
	"github.com/willbeason/escape-fractal/pkg/gridio"
)

const flagFrom = "from"

// encodeCmd turns a grid saved with --dump into an image without rendering again.
func encodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Normalize and encode an iteration grid written with --dump",
		Args:  cobra.ExactArgs(0),
		RunE:  runEncode,
	}

	cmd.Flags().String(flagFrom, "", "grid dump to read")
	cmd.Flags().String(config.FlagOutput, "", "output image path, .png or .jpg")
	cmd.Flags().Bool(config.FlagInvert, false, "invert the grayscale ramp")
	cmd.Flags().Int(config.FlagJPEGQuality, 0, "JPEG quality 1-100; 0 uses the encoder default")

	_ = cmd.MarkFlagRequired(flagFrom)
	_ = cmd.MarkFlagRequired(config.FlagOutput)

	return cmd
}

func runEncode(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	from, _ := cmd.Flags().GetString(flagFrom)
	output, _ := cmd.Flags().GetString(config.FlagOutput)
	invert, _ := cmd.Flags().GetBool(config.FlagInvert)
	quality, _ := cmd.Flags().GetInt(config.FlagJPEGQuality)

	stop, err := startDiagnostics(cmd)
	if err != nil {
		return err
	}
	defer stop()

	g, err := gridio.ReadFile(from)
	if err != nil {
		return err
	}

	_, err = fractal.EncodeGrid(cmd.Context(), g, invert, output, codec.File{JPEGQuality: quality})
	return err
}
