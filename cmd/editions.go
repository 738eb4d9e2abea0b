package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/lawpipe/core/editions"
	"github.com/gaurav-prasanna/lawpipe/core/render"
	"github.com/gaurav-prasanna/lawpipe/core/source"
)

var editionsCmd = &cobra.Command{
	Use:   "editions <bundle>",
	Short: "List the editions of a document, newest first",
	Long: `Editions reads a bundle and prints its revision index in the order the
canonical body shows it. The first line is the current edition. Records with
an unparseable date are skipped and counted.

Example:
  lawpipe editions fz-152.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runEditions,
}

func init() {
	rootCmd.AddCommand(editionsCmd)
}

func runEditions(cmd *cobra.Command, args []string) error {
	b, err := source.ReadBundle(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	identity, err := editions.ParseIdentity(cfg.Editions.Identity)
	if err != nil {
		return err
	}

	ledger := editions.NewLedger(b.ID,
		editions.WithIdentity(identity),
		editions.WithLogger(log.Component("editions")),
	)
	ledger.Ingest(b.Editions)
	stats.RecordEditions(ledger.Len(), ledger.Skipped())

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for i, e := range ledger.Editions() {
		mark := " "
		if i == 0 {
			mark = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", mark, e.Date.Format(render.DateLayout), e.ID, e.ChangeReason)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if n := ledger.Skipped(); n > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d edition(s) skipped: unparseable date\n", n)
	}
	return nil
}
