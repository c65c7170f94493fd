// Copyright 2025 The PadaServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Command padagen is the offline companion of padaserve. It expands roots,
// exports the lexicon and prebuilds the lexicon cache.
//
//	padagen expand -data ./data avaru
//	padagen export -data ./data -o lexicon.tsv
//	padagen export -data ./data -words out/words
//	padagen build-cache -data ./data -o lexicon.msgpack
//	padagen inspect data/paradigms.yaml data/Noun/mane.txt
//	padagen formats
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/padaserve/internal/logger"
	"github.com/bastiangx/padaserve/pkg/category"
	"github.com/bastiangx/padaserve/pkg/config"
	"github.com/bastiangx/padaserve/pkg/dictionary"
	"github.com/bastiangx/padaserve/pkg/lexicon"
	"github.com/bastiangx/padaserve/pkg/paradigm"
)

var out = logger.Console("")

func usage() {
	fmt.Fprintln(os.Stderr, "usage: padagen <expand|export|build-cache|inspect|formats> [flags] [args]")
	fmt.Fprintln(os.Stderr, "run 'padagen <command> -h' for command flags")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "expand":
		err = runExpand(args)
	case "export":
		err = runExport(args)
	case "build-cache":
		err = runBuildCache(args)
	case "inspect":
		err = runInspect(args)
	case "formats":
		listFormats()
	case "-h", "--help", "help":
		usage()
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

// commonFlags are shared by commands that read a paradigm source.
type commonFlags struct {
	source *string
	config *string
	policy *string
	debug  *bool
}

func newFlagSet(name string) (*flag.FlagSet, commonFlags) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	cf := commonFlags{
		source: fs.String("data", "data", "Paradigm source directory"),
		config: fs.String("config", "", "Config file for build options (default: builtin defaults)"),
		policy: fs.String("policy", "", "Frequency merge policy, max or sum (default from config)"),
		debug:  fs.Bool("d", false, "Toggle debug mode"),
	}
	return fs, cf
}

// buildOptions reads options from the given config, else the defaults,
// then applies flag overrides.
func (cf commonFlags) buildOptions() (dictionary.BuildOptions, error) {
	if *cf.debug {
		log.SetLevel(log.DebugLevel)
	}
	cfg := config.DefaultConfig()
	if *cf.config != "" {
		loaded, err := config.LoadConfig(*cf.config)
		if err != nil {
			return dictionary.BuildOptions{}, err
		}
		cfg = loaded
	}
	opts := cfg.BuildOptions()
	if *cf.policy != "" {
		p, err := lexicon.ParseMergePolicy(*cf.policy)
		if err != nil {
			return opts, err
		}
		opts.Policy = p
	}
	return opts, nil
}

func runExpand(args []string) error {
	fs, cf := newFlagSet("expand")
	derive := fs.Bool("variants", true, "Derive prefix-pair variants from config")
	_ = fs.Parse(args)

	opts, err := cf.buildOptions()
	if err != nil {
		return err
	}
	roots, err := dictionary.LoadParadigms(*cf.source)
	if err != nil {
		return err
	}

	wanted := make(map[string]bool, fs.NArg())
	for _, stem := range fs.Args() {
		wanted[stem] = true
	}

	shown := 0
	for _, root := range roots {
		if len(wanted) > 0 && !wanted[root.Stem] {
			continue
		}
		if *derive && len(opts.PrefixPairs) > 0 {
			root = paradigm.WithDerivedVariants(root, opts.PrefixPairs)
		}
		shown++
		printExpansion(os.Stdout, root)
	}
	if len(wanted) > 0 && shown < len(wanted) {
		log.Warnf("%d of %d requested roots not found in %s", len(wanted)-shown, len(wanted), *cf.source)
	}
	return nil
}

func printExpansion(w io.Writer, root paradigm.Root) {
	forms := paradigm.ExpandRoot(root)
	fmt.Fprintf(w, "# %s (%s) variants=%s rules=%d forms=%d\n",
		root.Stem, root.Category, strings.Join(root.AllVariants(), ","), len(root.Rules), len(forms))
	for _, f := range forms {
		paths := make([]string, len(f.Provenance))
		for i, p := range f.Provenance {
			paths[i] = p.Variant + "+" + p.Rule.String()
		}
		mark := ""
		if f.Ambiguous() {
			mark = "\t*"
		}
		fmt.Fprintf(w, "%s\t%s%s\n", f.Text, strings.Join(paths, " "), mark)
	}
}

func runExport(args []string) error {
	fs, cf := newFlagSet("export")
	output := fs.String("o", "", "Write word<TAB>categories<TAB>frequency lines to this file (default stdout)")
	wordsDir := fs.String("words", "", "Write per-category word lists into this directory instead")
	_ = fs.Parse(args)

	opts, err := cf.buildOptions()
	if err != nil {
		return err
	}
	lex, _, err := dictionary.LoadOrBuild(*cf.source, nil, opts)
	if err != nil {
		return err
	}

	if *wordsDir != "" {
		counts, err := dictionary.ExportWordLists(*wordsDir, lex)
		if err != nil {
			return err
		}
		cats := make([]category.Category, 0, len(counts))
		for c := range counts {
			cats = append(cats, c)
		}
		sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
		for _, c := range cats {
			out.Printf("%-12s %d words", c, counts[c])
		}
		return nil
	}

	w := io.Writer(os.Stdout)
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := dictionary.Export(w, lex); err != nil {
		return err
	}
	if *output != "" {
		out.Printf("Exported %d words to %s", lex.Len(), *output)
	}
	return nil
}

func runBuildCache(args []string) error {
	fs, cf := newFlagSet("build-cache")
	output := fs.String("o", "lexicon.msgpack", "Cache file to write")
	_ = fs.Parse(args)

	opts, err := cf.buildOptions()
	if err != nil {
		return err
	}
	mod, err := dictionary.LatestModTime(*cf.source)
	if err != nil {
		return err
	}
	src, err := dictionary.Load(*cf.source)
	if err != nil {
		return err
	}
	lex := dictionary.Build(src, opts)
	cache := dictionary.NewCache(*output)
	if err := cache.Save(lex, opts.Key(), mod); err != nil {
		return err
	}

	st := src.Stats
	out.Printf("Read %d files: %d roots, %d rules (%d skipped), %d words, %d lines skipped",
		st.Files, st.Roots, st.Rules, st.SkippedRules, st.Words, st.SkippedLines)
	out.Printf("Wrote %d words (%s policy, %d collisions) to %s",
		lex.Len(), opts.Policy, len(lex.Collisions()), *output)
	return nil
}

func runInspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	_ = fs.Parse(args)
	if fs.NArg() == 0 {
		return errors.New("inspect needs at least one file")
	}

	failed := 0
	for _, path := range fs.Args() {
		format, err := dictionary.DetectFileFormat(path)
		if err != nil {
			out.Printf("%s: %v", path, err)
			failed++
			continue
		}
		info, _ := dictionary.GetFormatInfo(format)
		out.Printf("%s: %s (%s), ok", path, info.Description, strings.Join(info.Extensions, " "))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed inspection", failed, fs.NArg())
	}
	return nil
}

func listFormats() {
	for _, f := range dictionary.ListSupportedFormats() {
		out.Printf("%-28s %s", f.Description, strings.Join(f.Extensions, " "))
	}
}
