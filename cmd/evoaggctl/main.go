package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/gosuri/uitable"

	"evoagg/internal/report"
	"evoagg/pkg/evoagg"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var commands = []struct {
	name string
	help string
}{
	{"save", "aggregate final fitness of every replicate under <root> into the fitness table"},
	{"save-entropy", "aggregate property diversity of every replicate under <root> into the entropy table"},
	{"mse", "error boxplot grids per iteration path and objective count"},
	{"five", "five-objective error boxplots per iteration path"},
	{"set", "error barplots per iteration path on a fixed log axis"},
	{"dist", "degree distribution error summary"},
	{"interactions", "error of experiments without degree distributions"},
	{"final", "error boxplots with and without degree distributions"},
	{"entropy", "diversity summary of a selection set"},
	{"poster1", "poster error barplot"},
	{"poster2", "poster diversity barplot"},
	{"targets", "target degree distributions for a network size"},
	{"unconstrained", "normal and uniform reference histograms"},
}

// run dispatches one subcommand. Unknown or missing commands print usage and
// are not errors.
func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		printUsage(out)
		return nil
	}
	err := runCommand(ctx, args, out)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

func runCommand(ctx context.Context, args []string, out io.Writer) error {
	switch args[0] {
	case "save":
		return runSave(ctx, args[0], args[1:], out)
	case "save-entropy":
		return runSave(ctx, args[0], args[1:], out)
	case "mse":
		return runReport(ctx, args[0], args[1:], out, fixed((*evoagg.Client).MSE))
	case "five":
		return runReport(ctx, args[0], args[1:], out, fixed(single((*evoagg.Client).FiveObjectives)))
	case "set":
		return runReport(ctx, args[0], args[1:], out, fixed(single((*evoagg.Client).SetPerformance)))
	case "dist":
		return runReport(ctx, args[0], args[1:], out, distFlags)
	case "interactions":
		return runReport(ctx, args[0], args[1:], out, interactionsFlags)
	case "final":
		return runReport(ctx, args[0], args[1:], out, fixed((*evoagg.Client).Final))
	case "entropy":
		return runReport(ctx, args[0], args[1:], out, entropyFlags)
	case "poster1":
		return runReport(ctx, args[0], args[1:], out, fixed(single((*evoagg.Client).PosterError)))
	case "poster2":
		return runReport(ctx, args[0], args[1:], out, posterDiversityFlags)
	case "targets":
		return runReport(ctx, args[0], args[1:], out, targetsFlags)
	case "unconstrained":
		return runReport(ctx, args[0], args[1:], out, unconstrainedFlags)
	default:
		printUsage(out)
		return nil
	}
}

func printUsage(out io.Writer) {
	fmt.Fprintln(out, "usage: evoaggctl <command> [flags] [root]")
	table := uitable.New()
	table.Wrap = true
	table.MaxColWidth = 80
	for _, cmd := range commands {
		table.AddRow("  "+cmd.name, cmd.help)
	}
	fmt.Fprintln(out, table.String())
	fmt.Fprintln(out, "common flags: --config --store --db --snapshot-dir --out")
}

// parseWithRoot accepts the experiments root either as --root or as the first
// positional argument, with flags allowed on both sides of it.
func parseWithRoot(fs *flag.FlagSet, rootFlag *string, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	root := *rootFlag
	if fs.NArg() > 0 {
		if root == "" {
			root = fs.Arg(0)
		}
		if err := fs.Parse(fs.Args()[1:]); err != nil {
			return "", err
		}
	}
	if fs.NArg() > 0 {
		return "", fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return root, nil
}

func openClient(fs *flag.FlagSet, common commonFlags, out io.Writer) (*evoagg.Client, *Config, error) {
	cfg, err := common.resolve(fs)
	if err != nil {
		return nil, nil, err
	}
	opts, err := cfg.clientOptions(out)
	if err != nil {
		return nil, nil, err
	}
	client, err := evoagg.New(opts)
	if err != nil {
		return nil, nil, err
	}
	return client, cfg, nil
}

func runSave(ctx context.Context, name string, args []string, out io.Writer) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	common := registerCommonFlags(fs)
	rootFlag := fs.String("root", "", "experiments root directory")
	root, err := parseWithRoot(fs, rootFlag, args)
	if err != nil {
		return err
	}
	if root == "" {
		return fmt.Errorf("%s requires an experiments root (positional or --root)", name)
	}

	client, cfg, err := openClient(fs, common, out)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	var table string
	var rows int
	if name == "save-entropy" {
		saved, err := client.SaveEntropy(ctx, root)
		if err != nil {
			return err
		}
		table, rows = saved.Info.Table, len(saved.Rows)
	} else {
		saved, err := client.SaveFitness(ctx, root)
		if err != nil {
			return err
		}
		table, rows = saved.Info.Table, len(saved.Rows)
	}
	fmt.Fprintf(out, "saved table=%s rows=%s store=%s\n", table, humanize.Comma(int64(rows)), cfg.Store)
	return nil
}

// reportFunc runs one report and returns the figures it wrote.
type reportFunc func(*evoagg.Client, context.Context) ([]string, error)

// reportFlags registers a report's own flags and returns the report bound to them.
type reportFlags func(*flag.FlagSet) reportFunc

func fixed(f reportFunc) reportFlags {
	return func(*flag.FlagSet) reportFunc { return f }
}

func single(f func(*evoagg.Client, context.Context) (string, error)) reportFunc {
	return func(c *evoagg.Client, ctx context.Context) ([]string, error) {
		path, err := f(c, ctx)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	}
}

func distFlags(fs *flag.FlagSet) reportFunc {
	defaults := report.DefaultDistOptions()
	iterPath := fs.String("iter", defaults.IterPath, "iteration path")
	size := fs.Int("size", defaults.NetworkSize, "network size")
	numObj := fs.String("num-obj", defaults.NumObj, "number of objectives")
	return func(c *evoagg.Client, ctx context.Context) ([]string, error) {
		return nil, c.DegreeDistribution(ctx, report.DistOptions{IterPath: *iterPath, NetworkSize: *size, NumObj: *numObj})
	}
}

func interactionsFlags(fs *flag.FlagSet) reportFunc {
	numObj := fs.String("num-obj", "3", "number of objectives")
	return single(func(c *evoagg.Client, ctx context.Context) (string, error) {
		return c.Interactions(ctx, *numObj)
	})
}

func entropyFlags(fs *flag.FlagSet) reportFunc {
	set := fs.Int("set", 2, "selection set: 0 (topological) or 2 (edge weight)")
	return func(c *evoagg.Client, ctx context.Context) ([]string, error) {
		return nil, c.Entropy(ctx, *set)
	}
}

func posterDiversityFlags(fs *flag.FlagSet) reportFunc {
	measure := fs.String("measure", "spread", "diversity measure: num_unique|uniformity|spread")
	return single(func(c *evoagg.Client, ctx context.Context) (string, error) {
		return c.PosterDiversity(ctx, *measure)
	})
}

func targetsFlags(fs *flag.FlagSet) reportFunc {
	size := fs.Int("size", 100, "network size")
	return single(func(c *evoagg.Client, _ context.Context) (string, error) {
		return c.TargetDistributions(*size)
	})
}

func unconstrainedFlags(fs *flag.FlagSet) reportFunc {
	samples := fs.Int("samples", 100000, "sample size")
	seed := fs.Uint64("seed", 1, "random seed")
	return func(c *evoagg.Client, _ context.Context) ([]string, error) {
		return c.Unconstrained(*samples, *seed)
	}
}

func runReport(ctx context.Context, name string, args []string, out io.Writer, register reportFlags) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	common := registerCommonFlags(fs)
	op := register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	client, _, err := openClient(fs, common, out)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	paths, err := op(client, ctx)
	for _, path := range paths {
		if path == "" {
			continue
		}
		info, statErr := os.Stat(path)
		if statErr != nil {
			continue
		}
		fmt.Fprintf(out, "wrote figure=%s size=%s\n", path, humanize.Bytes(uint64(info.Size())))
	}
	return err
}
