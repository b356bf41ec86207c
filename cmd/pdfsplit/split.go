package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-split/internal/export"
	"github.com/thywilljoshua/pdf-split/internal/split"
)

func splitCmd() *cobra.Command {
	var flags splitFlags
	var out string
	var dir string

	cmd := &cobra.Command{
		Use:   "split <pdf>",
		Short: "Write one PDF per bookmark into a zip archive or a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pdfPath := args[0]
			data, err := os.ReadFile(pdfPath)
			if err != nil {
				return err
			}
			conf, err := flags.config(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			var res split.Result
			if dir != "" {
				res, err = split.Run(cmd.Context(), data, conf, export.DirSink{Root: dir})
				out = dir
			} else {
				if out == "" {
					out = stem(pdfPath) + "_split.zip"
				}
				res, err = writeZip(cmd, out, data, conf)
			}
			if err != nil {
				return err
			}

			b, _ := json.MarshalIndent(struct {
				split.Result
				Output string `json:"output"`
			}{res, out}, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "zip archive to write (default: <name>_split.zip)")
	cmd.Flags().StringVar(&dir, "dir", "", "write files into this directory instead of a zip archive")
	cmd.MarkFlagsMutuallyExclusive("out", "dir")
	return cmd
}

// writeZip builds the archive in a temporary file next to out and renames
// it into place only once every section was written.
func writeZip(cmd *cobra.Command, out string, data []byte, conf split.Config) (split.Result, error) {
	tmp, err := os.CreateTemp(filepath.Dir(out), ".pdfsplit-*.zip")
	if err != nil {
		return split.Result{}, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	zs := export.NewZipSink(tmp)
	res, err := split.Run(cmd.Context(), data, conf, zs)
	if err != nil {
		return split.Result{}, err
	}
	if err := zs.Close(); err != nil {
		return split.Result{}, err
	}
	if err := tmp.Close(); err != nil {
		return split.Result{}, err
	}
	if err := os.Rename(tmp.Name(), out); err != nil {
		return split.Result{}, err
	}
	return res, nil
}
