// Command lisi weaves a literate document: harvested fragments are
// resolved, ordered by dependency, and dispatched to their save/eval/pipe
// sinks (spec.md §6).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kober-systems/lisi-go/config"
	"github.com/kober-systems/lisi-go/document"
	"github.com/kober-systems/lisi-go/env"
	"github.com/kober-systems/lisi-go/fragment"
	"github.com/kober-systems/lisi-go/harvest"
	"github.com/kober-systems/lisi-go/repository"
	"github.com/kober-systems/lisi-go/weave"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "lisi:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		output     string
		reader     string
		writer     string
		extension  string
		template   string
		stylesheet string
		attrFlags  []string
		configPath string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "lisi [input]",
		Short: "Weave fragments out of a literate document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var inputPath string
			if len(args) == 1 {
				inputPath = args[0]
			}
			return run(cmd.Context(), runOpts{
				inputPath:  inputPath,
				output:     output,
				reader:     reader,
				writer:     writer,
				extension:  extension,
				template:   template,
				stylesheet: stylesheet,
				attrFlags:  attrFlags,
				configPath: configPath,
				dryRun:     dryRun,
				stdin:      cmd.InOrStdin(),
				stdout:     cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write a copy of the woven root document here")
	cmd.Flags().StringVarP(&reader, "reader", "r", "", "reader collaborator (accepted but not used: input is always read with the built-in AsciiDoc subset)")
	cmd.Flags().StringVarP(&writer, "writer", "w", "", "writer collaborator (accepted but not used: no writer runs)")
	cmd.Flags().StringVarP(&extension, "extension", "e", "", "file extension (accepted but not used: a save fragment without a path or title is an error)")
	cmd.Flags().StringVar(&template, "template", "", "template collaborator (accepted but not used)")
	cmd.Flags().StringVar(&stylesheet, "stylesheet", "", "stylesheet collaborator (accepted but not used)")
	cmd.Flags().StringArrayVarP(&attrFlags, "attribute", "a", nil, "attribute override key=value, repeatable")
	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file; it is parsed and its attributes merged under -a, but none of its values change the run")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "weave into memory only; print every would-be write as JSON")

	return cmd
}

type runOpts struct {
	inputPath  string
	output     string
	reader     string
	writer     string
	extension  string
	template   string
	stylesheet string
	attrFlags  []string
	configPath string
	dryRun     bool
	stdin      io.Reader
	stdout     io.Writer
}

func run(ctx context.Context, opts runOpts) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	overrides := make(map[string]string, len(opts.attrFlags))
	for _, kv := range opts.attrFlags {
		key, value, err := config.ParseAttr(kv)
		if err != nil {
			return err
		}
		overrides[key] = value
	}
	attrs := cfg.Merge(overrides)
	_ = attrs // recognized attribute overrides are a collaborator concern (spec.md §1, §6); carried through for a future reader/writer plugin.

	source, logicalName, err := readSource(opts.inputPath, opts.stdin)
	if err != nil {
		return err
	}

	ast := document.ParseAsciidoc(source, logicalName)
	store := fragment.NewStore()
	harvest.Extract(ast, store)

	var environment env.Environment
	var cache *env.Cache
	if opts.dryRun {
		cache = env.NewCache()
		environment = cache
	} else {
		root := resolveRoot(opts.inputPath)
		environment = env.NewLive(root)
	}

	w := weave.New(store, environment, logicalName)
	if err := w.Run(ctx); err != nil {
		return err
	}

	if opts.dryRun {
		enc := json.NewEncoder(opts.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cache.Writes())
	}

	if opts.output != "" {
		return os.WriteFile(opts.output, []byte(source), 0644)
	}
	return nil
}

func readSource(inputPath string, stdin io.Reader) (source, logicalName string, err error) {
	if inputPath == "" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("lisi: read stdin: %w", err)
		}
		return string(data), "stdin", nil
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return "", "", fmt.Errorf("lisi: read %s: %w", inputPath, err)
	}
	return string(data), inputPath, nil
}

// resolveRoot anchors relative save paths at the enclosing project's root
// (the nearest go.mod/.git/etc. above the input file) rather than the
// process's working directory, so `lisi doc.adoc` behaves the same run
// from any subdirectory.
func resolveRoot(inputPath string) string {
	if inputPath == "" {
		return ""
	}
	dir := filepath.Dir(inputPath)
	project, err := repository.New().Detect(dir)
	if err != nil || project.RootPath == "" {
		return dir
	}
	return project.RootPath
}
