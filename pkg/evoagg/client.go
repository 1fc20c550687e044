package evoagg

import (
	"context"
	"fmt"
	"io"
	"sync"

	"evoagg/internal/aggregate"
	"evoagg/internal/model"
	"evoagg/internal/plotting"
	"evoagg/internal/report"
	"evoagg/internal/stats"
	"evoagg/internal/storage"
)

const (
	defaultSnapshotDir = "snapshots"
	defaultDBPath      = "evoagg.db"
	defaultOutDir      = "figures"
)

type Options struct {
	StoreKind   string
	DBPath      string
	SnapshotDir string
	OutDir      string
	// Style is used for every figure. The zero value selects plotting.DefaultStyle.
	Style plotting.Style
	// Log receives progress lines and report tables. Nil discards them.
	Log io.Writer
}

type Client struct {
	store     storage.Store
	storeKind string
	reporter  *report.Reporter
	log       io.Writer

	initOnce sync.Once
	initErr  error
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	path := opts.SnapshotDir
	if path == "" {
		path = defaultSnapshotDir
	}
	if storeKind == storage.KindSQLite {
		path = opts.DBPath
		if path == "" {
			path = defaultDBPath
		}
	}
	outDir := opts.OutDir
	if outDir == "" {
		outDir = defaultOutDir
	}
	style := opts.Style
	if style.FontSize == 0 && style.Width == 0 && style.Height == 0 {
		style = plotting.DefaultStyle()
	}
	log := opts.Log
	if log == nil {
		log = io.Discard
	}

	store, err := storage.NewStore(storeKind, path)
	if err != nil {
		return nil, err
	}
	return &Client{
		store:     store,
		storeKind: storeKind,
		reporter:  report.New(log, outDir, style),
		log:       log,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	c.initOnce.Do(func() {
		c.initErr = c.store.Init(ctx)
	})
	return c.initErr
}

func (c *Client) StoreKind() string {
	return c.storeKind
}

// SaveFitness rebuilds the fitness table from the experiments under root and
// replaces the stored snapshot with it.
func (c *Client) SaveFitness(ctx context.Context, root string) (model.FitnessTable, error) {
	if err := c.Init(ctx); err != nil {
		return model.FitnessTable{}, err
	}
	rows, err := aggregate.BuildFitnessTable(ctx, root, aggregate.Options{Log: c.log})
	if err != nil {
		return model.FitnessTable{}, fmt.Errorf("build fitness table: %w", err)
	}
	table := storage.NewFitnessTable(root, rows)
	if err := c.store.SaveFitnessTable(ctx, table); err != nil {
		return model.FitnessTable{}, fmt.Errorf("save fitness table: %w", err)
	}
	return table, nil
}

// SaveEntropy rebuilds the entropy table from the experiments under root and
// replaces the stored snapshot with it.
func (c *Client) SaveEntropy(ctx context.Context, root string) (model.EntropyTable, error) {
	if err := c.Init(ctx); err != nil {
		return model.EntropyTable{}, err
	}
	rows, err := aggregate.BuildEntropyTable(ctx, root, aggregate.Options{Log: c.log})
	if err != nil {
		return model.EntropyTable{}, fmt.Errorf("build entropy table: %w", err)
	}
	table := storage.NewEntropyTable(root, rows)
	if err := c.store.SaveEntropyTable(ctx, table); err != nil {
		return model.EntropyTable{}, fmt.Errorf("save entropy table: %w", err)
	}
	return table, nil
}

func (c *Client) FitnessTable(ctx context.Context) (model.FitnessTable, error) {
	if err := c.Init(ctx); err != nil {
		return model.FitnessTable{}, err
	}
	table, ok, err := c.store.GetFitnessTable(ctx)
	if err != nil {
		return model.FitnessTable{}, err
	}
	if !ok {
		return model.FitnessTable{}, fmt.Errorf("%s table: %w", model.TableFitness, storage.ErrSnapshotNotFound)
	}
	return table, nil
}

func (c *Client) EntropyTable(ctx context.Context) (model.EntropyTable, error) {
	if err := c.Init(ctx); err != nil {
		return model.EntropyTable{}, err
	}
	table, ok, err := c.store.GetEntropyTable(ctx)
	if err != nil {
		return model.EntropyTable{}, err
	}
	if !ok {
		return model.EntropyTable{}, fmt.Errorf("%s table: %w", model.TableEntropy, storage.ErrSnapshotNotFound)
	}
	return table, nil
}

func (c *Client) fitnessRows(ctx context.Context) ([]model.FitnessRow, error) {
	table, err := c.FitnessTable(ctx)
	if err != nil {
		return nil, err
	}
	return table.Rows, nil
}

func (c *Client) entropyRows(ctx context.Context) ([]model.EntropyRow, error) {
	table, err := c.EntropyTable(ctx)
	if err != nil {
		return nil, err
	}
	return table.Rows, nil
}

// MSE draws one grid of error boxplots per iteration path and objective count.
func (c *Client) MSE(ctx context.Context) ([]string, error) {
	rows, err := c.fitnessRows(ctx)
	if err != nil {
		return nil, err
	}
	return c.reporter.MSE(rows)
}

func (c *Client) FiveObjectives(ctx context.Context) (string, error) {
	rows, err := c.fitnessRows(ctx)
	if err != nil {
		return "", err
	}
	return c.reporter.FiveObjectives(rows)
}

func (c *Client) SetPerformance(ctx context.Context) (string, error) {
	rows, err := c.fitnessRows(ctx)
	if err != nil {
		return "", err
	}
	return c.reporter.SetPerformance(rows)
}

func (c *Client) DegreeDistribution(ctx context.Context, opts report.DistOptions) error {
	rows, err := c.fitnessRows(ctx)
	if err != nil {
		return err
	}
	return c.reporter.DegreeDistribution(rows, opts)
}

func (c *Client) Interactions(ctx context.Context, numObj string) (string, error) {
	rows, err := c.fitnessRows(ctx)
	if err != nil {
		return "", err
	}
	return c.reporter.Interactions(rows, numObj)
}

func (c *Client) Final(ctx context.Context) ([]string, error) {
	rows, err := c.fitnessRows(ctx)
	if err != nil {
		return nil, err
	}
	return c.reporter.Final(rows)
}

func (c *Client) PosterError(ctx context.Context) (string, error) {
	rows, err := c.fitnessRows(ctx)
	if err != nil {
		return "", err
	}
	return c.reporter.PosterError(rows)
}

// Entropy prints the diversity summary of set 0 (topological) or set 2
// (edge weight).
func (c *Client) Entropy(ctx context.Context, set int) error {
	rows, err := c.entropyRows(ctx)
	if err != nil {
		return err
	}
	return c.reporter.Entropy(rows, set)
}

func (c *Client) PosterDiversity(ctx context.Context, measure string) (string, error) {
	m, ok := stats.ParseMeasure(measure)
	if !ok {
		return "", fmt.Errorf("unknown diversity measure: %s", measure)
	}
	rows, err := c.entropyRows(ctx)
	if err != nil {
		return "", err
	}
	return c.reporter.PosterDiversity(rows, m)
}

func (c *Client) TargetDistributions(networkSize int) (string, error) {
	return c.reporter.TargetDistributions(networkSize)
}

func (c *Client) Unconstrained(sampleSize int, seed uint64) ([]string, error) {
	return c.reporter.Unconstrained(sampleSize, seed)
}
