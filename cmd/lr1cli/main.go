/*
Lr1cli builds an LR(1) parser from a grammar text file and prints its
construction artifacts, optionally driving a token sequence through it and
showing the resulting shift-reduce trace.

Usage:

	lr1cli [flags]
	lr1cli [flags] -g GRAMMAR_FILE -i INPUT_FILE

Lr1cli reads a grammar text file (one production per line, "LHS -> RHS" or
"LHS : RHS", blank lines and "#" comments ignored) and runs it through the
full LR(1) construction: augmentation, FIRST/FOLLOW, the canonical
collection, and the ACTION/GOTO table. It then prints the sections
requested by --show. If an input file or --command is also given, it drives
that token sequence through the table and prints the shift-reduce trace.

Usage:

	lr1cli [flags]

The flags are:

	-v, --version
		Give the current version of lr1cli and then exit.

	-g, --grammar FILE
		Use the provided grammar text file. Defaults to the configured or
		built-in default grammar file.

	-i, --input FILE
		Read whitespace-separated input tokens from the given file and run
		the driver over them.

	-c, --command TOKENS
		Run the driver over the given whitespace-separated tokens
		immediately, instead of reading an input file.

	-I, --interactive
		After building, drop into an interactive readline-based session:
		each line of input is tokenized and driven through the table, with
		its trace printed step by step.

	--show SECTIONS
		Comma-separated list of sections to print: grammar, firstfollow,
		automaton, table, closure, conflicts, all. Defaults to "all".

	--graph FILE
		Render the kernel-items-only automaton ("AFD"/simplified, per
		original_source/lr1/visualization.py's render_kernel_automaton)
		as a Graphviz PNG at FILE. Requires a "dot" binary on PATH; if
		unavailable, a warning is printed and the rest of the run
		continues.

	--graph-full FILE
		Like --graph, but renders every item (kernel and closure) in
		each state ("AFN"/complete, render_full_automaton).

	--config FILE
		Load settings from the given TOML config file.

	--cache DIR
		Cache built automatons/tables under DIR, keyed by grammar text.
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/pflag"

	"github.com/corvidlabs/lr1trace/internal/config"
	"github.com/corvidlabs/lr1trace/internal/graphviz"
	"github.com/corvidlabs/lr1trace/internal/gtext"
	"github.com/corvidlabs/lr1trace/internal/lr1"
	"github.com/corvidlabs/lr1trace/internal/lr1cache"
	"github.com/corvidlabs/lr1trace/internal/printer"
	"github.com/corvidlabs/lr1trace/internal/version"
)

const (
	ExitSuccess = iota
	ExitBuildError
	ExitParseError
)

var (
	returnCode = ExitSuccess

	flagVersion     = pflag.BoolP("version", "v", false, "Give the current version of lr1cli and then exit.")
	flagGrammar     = pflag.StringP("grammar", "g", "", "The grammar text file to build a parser from.")
	flagInput       = pflag.StringP("input", "i", "", "Read input tokens from the given file and run the driver over them.")
	flagCommand     = pflag.StringP("command", "c", "", "Run the driver over the given whitespace-separated tokens.")
	flagInteractive = pflag.BoolP("interactive", "I", false, "Drop into an interactive readline session after building.")
	flagShow        = pflag.String("show", "all", "Comma-separated sections to print: grammar,firstfollow,automaton,table,closure,conflicts,all.")
	flagGraph       = pflag.String("graph", "", "Render the kernel-items-only automaton as a Graphviz PNG at the given path.")
	flagGraphFull   = pflag.String("graph-full", "", "Render the full (kernel+closure items) automaton as a Graphviz PNG at the given path.")
	flagConfig      = pflag.String("config", "", "Load settings from the given TOML config file.")
	flagCache       = pflag.String("cache", "", "Cache built automatons/tables under the given directory.")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("lr1cli (lr1trace v%s)\n", version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		returnCode = ExitBuildError
		return
	}

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitBuildError
		return
	}

	grammarFile := cfg.Grammar.DefaultGrammarFile
	if pflag.Lookup("grammar").Changed {
		grammarFile = *flagGrammar
	}

	grammarText, err := os.ReadFile(grammarFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: could not read grammar file %q: %s\n", grammarFile, err.Error())
		returnCode = ExitBuildError
		return
	}

	var cache *lr1cache.Cache
	if *flagCache != "" {
		cache, err = lr1cache.New(*flagCache)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: could not initialize cache: %s\n", err.Error())
			returnCode = ExitBuildError
			return
		}
	}

	analyzer, err := build(string(grammarText), cfg, cache)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitBuildError
		return
	}

	printSections(analyzer, *flagShow)

	dotBinary := cfg.Visual.DotBinary
	if dotBinary == "" {
		dotBinary = "dot"
	}
	if *flagGraph != "" {
		renderGraph(dotBinary, graphviz.DOT(analyzer), *flagGraph)
	}
	if *flagGraphFull != "" {
		renderGraph(dotBinary, graphviz.FullDOT(analyzer), *flagGraphFull)
	}

	switch {
	case *flagInteractive:
		if err := runInteractive(analyzer); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitParseError
		}
	case *flagCommand != "":
		runTrace(analyzer, strings.Fields(*flagCommand))
	case *flagInput != "":
		data, err := os.ReadFile(*flagInput)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: could not read input file %q: %s\n", *flagInput, err.Error())
			returnCode = ExitParseError
			return
		}
		runTrace(analyzer, strings.Fields(string(data)))
	}
}

// build parses grammarText and runs the full lr1 pipeline over it. If cache
// is configured and holds no entry for grammarText yet, the built automaton
// and table are stored in it; cached entries are not read back here.
func build(grammarText string, cfg config.Config, cache *lr1cache.Cache) (*lr1.Analyzer, error) {
	g, err := gtext.Parse(grammarText, cfg.Grammar.Epsilon, cfg.Grammar.EndMarker)
	if err != nil {
		return nil, err
	}

	analyzer, err := lr1.Build(g)
	if err != nil {
		return nil, err
	}

	if cache != nil {
		key := lr1cache.Key(grammarText)
		if _, _, found, _ := cache.Get(key); !found {
			_ = cache.Put(key, analyzer.Automaton, analyzer.Table)
		}
	}

	return analyzer, nil
}

func printSections(a *lr1.Analyzer, show string) {
	wanted := map[string]bool{}
	for _, s := range strings.Split(show, ",") {
		wanted[strings.TrimSpace(strings.ToLower(s))] = true
	}
	all := wanted["all"]

	if all || wanted["grammar"] {
		fmt.Print(printer.Grammar(a))
	}
	if all || wanted["firstfollow"] {
		fmt.Print(printer.FirstFollow(a))
	}
	if all || wanted["automaton"] {
		fmt.Print(printer.Automaton(a))
	}
	if all || wanted["table"] {
		fmt.Print(printer.Table(a))
	}
	if all || wanted["closure"] {
		fmt.Print(printer.ClosureTable(a))
	}
	if all || wanted["conflicts"] {
		fmt.Print(printer.Conflicts(a))
	}
}

func renderGraph(dotBinary, dotSource, outputPath string) {
	if err := graphviz.RenderPNG(dotBinary, dotSource, outputPath); err != nil {
		fmt.Fprintf(os.Stderr, "WARN: visualization unavailable: %s\n", err.Error())
		return
	}
	fmt.Printf("wrote automaton graph to %s\n", outputPath)
}

func runTrace(a *lr1.Analyzer, tokens []string) {
	res := a.NewDriver().Run(tokens, a.NumStates())
	fmt.Print(printer.Trace(res))
}

// runInteractive starts a readline-based REPL: each line of input entered
// is tokenized on whitespace and driven through a's table, printing the
// resulting trace.
func runInteractive(a *lr1.Analyzer) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: "lr1> ",
	})
	if err != nil {
		return fmt.Errorf("create readline session: %w", err)
	}
	defer rl.Close()

	fmt.Println("enter a whitespace-separated token sequence to trace, or QUIT to exit")
	for {
		line, err := rl.Readline()
		if err != nil {
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "QUIT") {
			return nil
		}

		runTrace(a, strings.Fields(line))
	}
}
