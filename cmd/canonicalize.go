// Package cmd — canonicalize command.
// This is the main command that orchestrates the pipeline:
// load → normalize → parse → render → merge editions → write.
//
// It handles flag validation, renderer selection, and edition snapshots.
package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/lawpipe/core"
	"github.com/gaurav-prasanna/lawpipe/core/editions"
	"github.com/gaurav-prasanna/lawpipe/core/output"
	"github.com/gaurav-prasanna/lawpipe/core/pipeline"
	"github.com/gaurav-prasanna/lawpipe/core/render"
	"github.com/gaurav-prasanna/lawpipe/core/source"
)

// Flag variables.
var (
	flagHTML      bool
	flagMarkdown  bool
	flagJSON      bool
	flagFormat    string
	flagID        string
	flagTitle     string
	flagSigned    string
	flagEdition   string
	flagOutputDir string
)

var canonicalizeCmd = &cobra.Command{
	Use:   "canonicalize <file|->",
	Short: "Canonicalize one document to the specified output format",
	Long: `Canonicalize reads a document (HTML, Markdown or plain text, or a YAML/JSON
bundle carrying metadata and editions), recovers its structure and writes the
canonical rendering. Without a format flag the canonical HTML body is written.

Examples:
  lawpipe canonicalize fz-152.html --id fz-152 --title "О персональных данных"
  lawpipe canonicalize fz-152.yaml --json --output_dir ./out
  lawpipe canonicalize fz-152.yaml --edition 2021-03-01
  cat law.txt | lawpipe canonicalize - --format text --markdown`,
	Args: cobra.ExactArgs(1),
	RunE: runCanonicalize,
}

func init() {
	rootCmd.AddCommand(canonicalizeCmd)

	// Output format flags (mutually exclusive).
	canonicalizeCmd.Flags().BoolVar(&flagHTML, "html", false, "Output the canonical HTML body (default)")
	canonicalizeCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output Markdown")
	canonicalizeCmd.Flags().BoolVar(&flagJSON, "json", false, "Output structured JSON")

	// Input flags.
	canonicalizeCmd.Flags().StringVar(&flagFormat, "format", "", "Input format: html, markdown or text (default: from extension)")
	canonicalizeCmd.Flags().StringVar(&flagID, "id", "", "Document id (default: bundle id or file name)")
	canonicalizeCmd.Flags().StringVar(&flagTitle, "title", "", "Document title")
	canonicalizeCmd.Flags().StringVar(&flagSigned, "signed", "", "Signing date, e.g. 27.07.2006")
	canonicalizeCmd.Flags().StringVar(&flagEdition, "edition", "", "Render the snapshot of this edition instead of the current text")

	// Output directory.
	canonicalizeCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
}

func runCanonicalize(cmd *cobra.Command, args []string) error {
	// --- Validate flags ---
	if err := validateFlags(); err != nil {
		return err
	}

	renderer := selectRenderer()
	p, err := newPipeline()
	if err != nil {
		return err
	}
	writer, err := output.New(flagOutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	job, err := loadJob(cmd.Context(), args[0], cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	var out core.Output
	if flagEdition != "" {
		out, err = p.RenderEdition(job.Document, flagEdition, job.Editions)
		if err != nil {
			return err
		}
	} else {
		out = p.Canonicalize(job.Document, job.Raw, job.Editions)
	}
	log.LogDocument(out.Document.ID, string(out.Tree.Strategy), len(out.Anchors), out.Miss, time.Since(start))

	data, err := renderer.Render(out)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	var path string
	if flagEdition != "" {
		path, err = writer.WriteEdition(out.Document, flagEdition, data, renderer.Extension())
	} else {
		path, err = writer.Write(out.Document, data, renderer.Extension())
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Written: %s\n", path)
	return nil
}

// loadJob reads a bundle or a plain content file into a pipeline job and
// applies the metadata flags on top.
func loadJob(ctx context.Context, path string, cmd *cobra.Command) (pipeline.Job, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var job pipeline.Job
	if source.IsBundle(path) {
		b, err := source.ReadBundle(ctx, path)
		if err != nil {
			return job, err
		}
		doc, err := b.Document()
		if err != nil {
			return job, fmt.Errorf("bundle %s: %w", path, err)
		}
		job = pipeline.Job{Document: doc, Raw: b.Content, Editions: b.Editions}
	} else {
		src, err := source.New(source.WithFormat(flagFormat), source.WithStdin(cmd.InOrStdin())).Load(ctx, path)
		if err != nil {
			return job, err
		}
		job = pipeline.Job{Document: core.Document{ID: stem(path)}, Raw: src.Content}
	}

	if flagID != "" {
		job.Document.ID = flagID
	}
	if flagTitle != "" {
		job.Document.Title = flagTitle
	}
	if flagSigned != "" {
		signed, err := editions.ParseDate(flagSigned)
		if err != nil {
			return job, fmt.Errorf("--signed: %w", err)
		}
		job.Document.SignedAt = signed
	}
	return job, nil
}

// stem returns the file name of path without directory and extension.
func stem(path string) string {
	if path == source.Stdin {
		return ""
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// validateFlags checks that at most one output format is chosen and that
// the input format is known.
func validateFlags() error {
	// Count output formats.
	formatCount := 0
	for _, f := range []bool{flagHTML, flagMarkdown, flagJSON} {
		if f {
			formatCount++
		}
	}
	if formatCount > 1 {
		return fmt.Errorf("only one output format allowed per run (got %d)", formatCount)
	}

	switch flagFormat {
	case "", source.FormatHTML, source.FormatMarkdown, source.FormatText:
	default:
		return fmt.Errorf("unknown input format %q: want html, markdown or text", flagFormat)
	}
	return nil
}

// selectRenderer creates the appropriate Renderer based on flags.
func selectRenderer() core.Renderer {
	switch {
	case flagMarkdown:
		return render.NewMarkdownRenderer()
	case flagJSON:
		return render.NewJSONRenderer()
	default:
		return render.NewHTMLRenderer()
	}
}
