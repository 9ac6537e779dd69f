package main

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/vanderheijden86/connections/pkg/analysis"
	"github.com/vanderheijden86/connections/pkg/export"
	"github.com/vanderheijden86/connections/pkg/fileio"
	"github.com/vanderheijden86/connections/pkg/i18n"
	"github.com/vanderheijden86/connections/pkg/loader"
	"github.com/vanderheijden86/connections/pkg/model"
)

var (
	okMark   = color.New(color.FgGreen, color.Bold).SprintFunc()
	badMark  = color.New(color.FgRed, color.Bold).SprintFunc()
	warnText = color.New(color.FgYellow).SprintFunc()
	heading  = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// loadDocument reads and normalizes a saved document.
func loadDocument(path string) (*model.File, error) {
	raw, err := fileio.Load(path)
	if err != nil {
		return nil, err
	}
	return loader.Normalize(raw, loader.Options{}), nil
}

func newExportCmd() *cobra.Command {
	var (
		formats []string
		out     string
		title   string
	)
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Render a document as PNG, SVG or Markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			opts := export.Options{Title: title}
			for _, f := range formats {
				parsed, err := export.ParseFormat(f)
				if err != nil {
					return err
				}
				opts.Formats = append(opts.Formats, parsed)
			}
			base := out
			if base == "" {
				base = strings.TrimSuffix(args[0], filepath.Ext(args[0]))
			}
			if opts.Title == "" {
				opts.Title = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}

			paths, err := export.Export(cmd.Context(), doc, base, opts)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, p := range paths {
				fmt.Fprintf(w, "%s %s\n", okMark("✓"), p)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&formats, "format", "f", []string{"png", "svg"}, "output formats (png, svg, md)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path without extension (default: next to FILE)")
	cmd.Flags().StringVar(&title, "title", "", "title drawn on the image (default: file name)")
	return cmd
}

func newStatsCmd() *cobra.Command {
	var (
		top    int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "stats FILE",
		Short: "Print graph statistics for a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			st := analysis.Analyze(doc, analysis.Options{Top: top})
			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}
			printStats(w, doc.Meta.Language, st)
			return nil
		},
	}
	cmd.Flags().IntVarP(&top, "top", "n", 5, "people listed per ranking")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printStats(w io.Writer, lang model.Lang, st analysis.Stats) {
	fmt.Fprintln(w, heading("Graph"))
	fmt.Fprintf(w, "  %-14s %d\n", i18n.S(lang, "people")+":", st.People)
	fmt.Fprintf(w, "  %-14s %d\n", i18n.S(lang, "connections")+":", st.Connections)
	fmt.Fprintf(w, "  %-14s %d (largest %d, isolated %d)\n", i18n.S(lang, "components")+":", st.Components, st.Largest, st.Isolated)
	fmt.Fprintf(w, "  %-14s %.3f\n", "density:", st.Density)

	if len(st.ByKind) > 0 {
		fmt.Fprintln(w, heading("By kind"))
		kinds := make([]model.ConnectionKind, 0, len(st.ByKind))
		for k := range st.ByKind {
			kinds = append(kinds, k)
		}
		sort.Slice(kinds, func(i, j int) bool {
			a, b := st.ByKind[kinds[i]], st.ByKind[kinds[j]]
			if a != b {
				return a > b
			}
			return kinds[i] < kinds[j]
		})
		for _, k := range kinds {
			fmt.Fprintf(w, "  %-20s %d\n", i18n.KindLabel(lang, k), st.ByKind[k])
		}
	}

	printRanking(w, "Most connected", st.TopDegree, "%.0f")
	if len(st.TopBetweenness) > 0 {
		printRanking(w, fmt.Sprintf("Bridges (%s)", st.Betweenness), st.TopBetweenness, "%.2f")
	}
}

func printRanking(w io.Writer, title string, list []analysis.Ranked, format string) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintln(w, heading(title))
	for i, r := range list {
		fmt.Fprintf(w, "  %d. %-24s "+format+"\n", i+1, r.Name, r.Score)
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Validate documents and report what loading would repair",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				if !checkFile(w, path) {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files invalid", failed, len(args))
			}
			return nil
		},
	}
}

// checkFile reports on one document and whether it is loadable.
func checkFile(w io.Writer, path string) bool {
	raw, err := fileio.Load(path)
	if err != nil {
		fmt.Fprintf(w, "%s %s: %v\n", badMark("✗"), path, err)
		return false
	}
	doc := loader.Normalize(raw, loader.Options{})
	fmt.Fprintf(w, "%s %s: %d people, %d connections\n", okMark("✓"), path, len(doc.People), len(doc.Connections))

	rawConns, _ := raw["connections"].([]any)
	if dropped := len(rawConns) - len(doc.Connections); dropped > 0 {
		fmt.Fprintf(w, "  %s\n", warnText(fmt.Sprintf("%d connections dropped (dangling, self-links or duplicates)", dropped)))
	}
	return true
}
