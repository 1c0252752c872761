package main

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/ayusman/handjoints/internal/joints"
)

var validate = validator.New()

type normalizeFlags struct {
	group     string
	cutoff    float64
	precision int
}

func newNormalizeCommand() *cobra.Command {
	flags := &normalizeFlags{}

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Normalize a JSON hand frame read from stdin",
		Long: `Read one hand frame as JSON, for example
  {"wrist": {"position": {"x": 0.5, "y": 0.2}, "confidence": 0.9}}
and print the joint string for the selected group.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runNormalize(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.group, "group", joints.GroupWristTriangle.String(), "Joint group: all, wrist, fingertips or 0, 1, 2")
	cmd.Flags().Float64Var(&flags.cutoff, "cutoff", joints.DefaultConfidenceCutoff, "Confidence a joint must exceed")
	cmd.Flags().IntVar(&flags.precision, "precision", joints.DefaultPrecision, "Decimal places kept")
	return cmd
}

func runNormalize(cmd *cobra.Command, flags *normalizeFlags) error {
	group, err := joints.ParseGroup(flags.group)
	if err != nil {
		return err
	}
	// Same bounds as tracker configuration and the settings API.
	if err := validate.Var(flags.cutoff, "gte=0,lte=1"); err != nil {
		return fmt.Errorf("--cutoff must be between 0 and 1: %w", err)
	}
	if err := validate.Var(flags.precision, "gte=0,lte=9"); err != nil {
		return fmt.Errorf("--precision must be between 0 and 9: %w", err)
	}

	var frame joints.HandFrame
	if err := json.NewDecoder(cmd.InOrStdin()).Decode(&frame); err != nil {
		return fmt.Errorf("decode hand frame: %w", err)
	}
	for name := range frame {
		if !name.Valid() {
			return fmt.Errorf("unknown joint %q", name)
		}
	}

	set := joints.Normalize(frame, group, joints.Options{
		ConfidenceCutoff: flags.cutoff,
		Precision:        flags.precision,
	})
	fmt.Fprintln(cmd.OutOrStdout(), set.String())
	return nil
}
