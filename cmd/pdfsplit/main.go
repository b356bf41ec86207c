package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-split/internal/version"
)

func main() {
	root := &cobra.Command{
		Use:   "pdfsplit",
		Short: "Split a PDF into one document per bookmark",
		Long: `pdfsplit reads the bookmark outline of a PDF and writes one PDF per
bookmark, nested in folders that mirror the outline.`,
		SilenceUsage: true,
	}
	root.Version = version.Version
	root.SetVersionTemplate(fmt.Sprintf("pdfsplit %s\n", version.String()))

	root.AddCommand(splitCmd(), planCmd(), serveCmd())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
