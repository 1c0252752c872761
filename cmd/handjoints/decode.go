package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ayusman/handjoints/internal/consumer"
	"github.com/ayusman/handjoints/internal/joints"
)

type decodeFlags struct {
	width  float64
	height float64
	anchor bool
	xScale float64
}

func newDecodeCommand() *cobra.Command {
	flags := &decodeFlags{}

	cmd := &cobra.Command{
		Use:   "decode <joints>",
		Short: "Decode a pipe/comma joint string",
		Long: `Decode a joint string such as "0.5,0.25|-1,-1" and print one point per
line. With --width and --height the points are mirrored and scaled into that
viewport the way consumers place them on screen.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(cmd, flags, args[0])
		},
	}

	cmd.Flags().Float64Var(&flags.width, "width", 0, "Viewport width in pixels")
	cmd.Flags().Float64Var(&flags.height, "height", 0, "Viewport height in pixels")
	cmd.Flags().BoolVar(&flags.anchor, "anchor", false, "Print the wrist anchor of a wrist triangle string")
	cmd.Flags().Float64Var(&flags.xScale, "x-scale", consumer.DefaultXScale, "Horizontal wrist scale used with --anchor")
	return cmd
}

func runDecode(cmd *cobra.Command, flags *decodeFlags, s string) error {
	out := cmd.OutOrStdout()
	vp := consumer.Viewport{Width: flags.width, Height: flags.height}
	project := flags.width > 0 && flags.height > 0

	if flags.anchor {
		if !project {
			return fmt.Errorf("--anchor needs --width and --height")
		}
		anchor, ok, err := vp.AnchorFromString(s, flags.xScale)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "lost")
			return nil
		}
		fmt.Fprintf(out, "position %s,%s\nfacing %s,%s\n",
			formatCoord(anchor.Position.X), formatCoord(anchor.Position.Y),
			formatCoord(anchor.Facing.X), formatCoord(anchor.Facing.Y))
		return nil
	}

	points, err := joints.Decode(s)
	if err != nil {
		return err
	}
	if project {
		points = vp.Project(points)
	}
	for i, p := range points {
		if p.IsSentinel() {
			fmt.Fprintf(out, "%d lost\n", i)
			continue
		}
		fmt.Fprintf(out, "%d %s,%s\n", i, formatCoord(p.X), formatCoord(p.Y))
	}
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
