package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thywilljoshua/pdf-split/internal/split"
)

func planCmd() *cobra.Command {
	var flags splitFlags
	var format string

	cmd := &cobra.Command{
		Use:   "plan <pdf>",
		Short: "Show the section tree and page ranges without writing any file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			conf, err := flags.config(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			plan, err := split.BuildPlan(cmd.Context(), data, conf)
			if err != nil {
				return err
			}
			return writePlan(cmd.OutOrStdout(), plan, format)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "tree", "output format: tree|table|json|yaml")
	return cmd
}

func writePlan(w io.Writer, plan *split.Plan, format string) error {
	switch format {
	case "tree":
		_, err := io.WriteString(w, renderPlan(plan))
		return err
	case "table":
		_, err := io.WriteString(w, renderTable(plan))
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(plan); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want tree, table, json or yaml)", format)
	}
}
