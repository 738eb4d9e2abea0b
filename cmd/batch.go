package cmd

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/lawpipe/core"
	"github.com/gaurav-prasanna/lawpipe/core/output"
	"github.com/gaurav-prasanna/lawpipe/core/pipeline"
	"github.com/gaurav-prasanna/lawpipe/core/source"
)

var flagWorkers int

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Canonicalize every document under a directory",
	Long: `Batch walks a directory for bundles (.yaml, .yml, .json) and content files
(.html, .htm, .md, .txt) and canonicalizes them concurrently. Content files
named by a bundle's content_file are only processed through that bundle.

Examples:
  lawpipe batch ./corpus --output_dir ./out
  lawpipe batch ./corpus --json --workers 8`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().BoolVar(&flagHTML, "html", false, "Output the canonical HTML body (default)")
	batchCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output Markdown")
	batchCmd.Flags().BoolVar(&flagJSON, "json", false, "Output structured JSON")
	batchCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Concurrent documents (default: from config)")
	batchCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
}

func runBatch(cmd *cobra.Command, args []string) error {
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

	paths, err := discover(args[0])
	if err != nil {
		return fmt.Errorf("scanning %s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Found %d documents to process\n", len(paths))

	var (
		jobs     []pipeline.Job
		errCount int
	)
	for _, path := range paths {
		job, err := loadJob(cmd.Context(), path, cmd)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "  ✗ Error: %v\n", err)
			errCount++
			continue
		}
		jobs = append(jobs, job)
	}

	workers := flagWorkers
	if workers == 0 {
		workers = cfg.Workers
	}

	start := time.Now()
	var mu sync.Mutex
	err = p.Batch(cmd.Context(), jobs, workers, func(i int, out core.Output) error {
		data, err := renderer.Render(out)
		if err == nil {
			var path string
			if path, err = writer.Write(out.Document, data, renderer.Extension()); err == nil {
				mu.Lock()
				fmt.Fprintf(cmd.OutOrStdout(), "  ✓ Written: %s\n", path)
				mu.Unlock()
				return nil
			}
		}
		mu.Lock()
		fmt.Fprintf(cmd.ErrOrStderr(), "  ✗ %s: %v\n", jobs[i].Document.ID, err)
		errCount++
		mu.Unlock()
		return nil
	})
	log.LogBatch(len(paths), errCount, time.Since(start), err)
	if err != nil {
		return err
	}

	if errCount > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "\n%d/%d documents failed\n", errCount, len(paths))
	}
	return nil
}

// contentExts are the extensions batch picks up besides bundles.
var contentExts = []string{".html", ".htm", ".md", ".markdown", ".txt", ".text"}

// discover lists the documents under dir in lexical order. Content files
// referenced by a bundle are left to that bundle.
func discover(dir string) ([]string, error) {
	var bundles, contents []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		switch {
		case source.IsBundle(path):
			bundles = append(bundles, path)
		case slices.Contains(contentExts, filepath.Ext(path)):
			contents = append(contents, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	owned := make(map[string]bool)
	for _, b := range bundles {
		if file := contentFile(b); file != "" {
			owned[file] = true
		}
	}
	paths := slices.Clone(bundles)
	for _, c := range contents {
		if !owned[filepath.Clean(c)] {
			paths = append(paths, c)
		}
	}
	slices.Sort(paths)
	return paths, nil
}

// contentFile returns the cleaned content_file path of the bundle at path,
// or "" if it has none or cannot be read.
func contentFile(path string) string {
	file, err := source.BundleContentFile(path)
	if err != nil || file == "" {
		return ""
	}
	return filepath.Clean(file)
}
