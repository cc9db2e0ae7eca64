// # cmd/deptree/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"deptree/internal/astimport/treesitter"
	"deptree/internal/enumerate"
	"deptree/internal/errs"
	"deptree/internal/obs"
	"deptree/internal/pipeline"
	"deptree/internal/projconfig"
	"deptree/internal/serialize"
)

const version = "0.1.0"

func main() {
	var (
		sourceRoot        = flag.String("source-root", "", "Use this directory as the source root instead of auto-detecting one")
		includeOrphans    = flag.Bool("include-orphans", false, "Include degree-zero nodes in the output")
		includeNamespaces = flag.Bool("include-namespace-packages", false, "Keep namespace-package nodes instead of eliding them")
		maxRank           = flag.Int("max-rank", -1, "Bound upstream/downstream BFS to this many hops (unset = unbounded)")
		showAll           = flag.Bool("show-all", false, "Emit the full graph with the reachability query highlighted instead of restricted to it")
		format            = flag.String("format", "dot", "Output format: dot, mermaid, cytoscape, list")
		downstream        = flag.String("downstream", "", "Comma-separated root names for a downstream (imported-by) query")
		downstreamFile    = flag.String("downstream-file", "", "Newline-separated root names for a downstream query, read from a file")
		upstream          = flag.String("upstream", "", "Comma-separated root names for an upstream (imports-of) query")
		upstreamFile      = flag.String("upstream-file", "", "Newline-separated root names for an upstream query, read from a file")
		configPath        = flag.String("config", "deptree.toml", "Optional project config file")
		metricsAddr       = flag.String("metrics-addr", "", "If set, serve Prometheus metrics on this address until the run completes")
		verbose           = flag.Bool("verbose", false, "Enable debug logging")
		showVersion       = flag.Bool("version", false, "Print version and exit")
	)
	var excludeScripts, downstreamModules, upstreamModules stringList
	flag.Var(&excludeScripts, "exclude-scripts", "Glob pattern excluding scripts from discovery (repeatable)")
	flag.Var(&downstreamModules, "downstream-module", "A single downstream root name (repeatable)")
	flag.Var(&upstreamModules, "upstream-module", "A single upstream root name (repeatable)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("deptree v%s\n", version)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := obs.NewLogger(os.Stderr, logLevel).With("run_id", uuid.NewString())

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: deptree <path> [flags]")
		os.Exit(2)
	}
	projectRoot := flag.Arg(0)

	if *showAll && *format == "list" {
		fmt.Fprintln(os.Stderr, "--format list cannot be combined with --show-all")
		os.Exit(2)
	}

	fileConfig, err := projconfig.LoadIfPresent(filepath.Join(projectRoot, *configPath))
	if err != nil {
		logger.Warn("ignoring unreadable project config", "error", err)
		fileConfig = nil
	}
	applyFileConfig(fileConfig, sourceRoot, includeOrphans, includeNamespaces, format, &excludeScripts)

	metrics := obs.NewMetrics(nil)
	if *metricsAddr != "" {
		srv := obs.NewServer(*metricsAddr)
		srv.Start()
		defer srv.Stop(context.Background()) //nolint:errcheck
	}

	result, err := pipeline.Run(pipeline.Options{
		ProjectRoot:    projectRoot,
		SourceRoot:     *sourceRoot,
		ExcludeScripts: excludeScripts,
		Logger:         logger,
		Metrics:        metrics,
		AST:            treesitter.NewPythonProvider(),
	})
	if err != nil {
		exitWithError(err)
	}

	view, isReachability, err := buildView(result, viewRequest{
		includeOrphans:     *includeOrphans,
		includeNamespaces:  *includeNamespaces,
		maxRank:            *maxRank,
		showAll:            *showAll,
		downstreamCSV:      *downstream,
		downstreamModules:  downstreamModules,
		downstreamFilePath: *downstreamFile,
		upstreamCSV:        *upstream,
		upstreamModules:    upstreamModules,
		upstreamFilePath:   *upstreamFile,
	})
	if err != nil {
		exitWithError(err)
	}

	out, err := renderOutput(*format, view, isReachability, serialize.Config{
		IncludeOrphans:    *includeOrphans,
		IncludeNamespaces: *includeNamespaces,
	})
	if err != nil {
		exitWithError(err)
	}

	fmt.Print(out)
}

func applyFileConfig(cfg *projconfig.Config, sourceRoot *string, includeOrphans, includeNamespaces *bool, format *string, excludeScripts *stringList) {
	if cfg == nil {
		return
	}
	if *sourceRoot == "" && cfg.SourceRoot != "" {
		*sourceRoot = cfg.SourceRoot
	}
	if !wasSet("include-orphans") && cfg.Output.IncludeOrphans {
		*includeOrphans = true
	}
	if !wasSet("include-namespace-packages") && cfg.Output.IncludeNamespaces {
		*includeNamespaces = true
	}
	if !wasSet("format") && cfg.Output.Format != "" {
		*format = cfg.Output.Format
	}
	if !wasSet("exclude-scripts") {
		*excludeScripts = append(*excludeScripts, cfg.Exclude.Scripts...)
	}
}

// wasSet reports whether name was passed explicitly on the command line, so
// an explicit flag always overrides the project config file.
func wasSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err.Error())
	if errs.IsCode(err, errs.CodeBadInput) {
		os.Exit(2)
	}
	os.Exit(1)
}

// resolveRootInput accepts either a canonical dotted name or an on-disk
// file path and returns the canonical node name, per the supplemented
// file-path-or-dotted-name root parsing feature.
func resolveRootInput(raw string, files []enumerate.SourceFile, projectRoot string) (string, error) {
	if !strings.Contains(raw, string(filepath.Separator)) && filepath.Ext(raw) != ".py" {
		return raw, nil
	}
	abs := raw
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(projectRoot, raw)
	}
	abs = filepath.Clean(abs)
	for _, f := range files {
		if filepath.Clean(f.Path) == abs {
			return f.Name, nil
		}
	}
	return "", errs.BadInput(raw, "path does not resolve to any discovered module or script")
}

func readRootList(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(err, errs.CodeBadInput, "could not read root-list file")
	}
	if filepath.Ext(path) == ".py" {
		return nil, errs.BadInput(path, "expected a newline-separated list of root names, got a .py file")
	}
	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out, nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
