package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// OutputName derives the CSV path for an input parquet path, placing it
// in outDir (or alongside the input when outDir is empty).
func OutputName(input, outDir string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ".csv"
	if outDir == "" {
		return filepath.Join(filepath.Dir(input), base)
	}
	return filepath.Join(outDir, base)
}

// ConvertAll converts multiple files with bounded concurrency. The first
// failure cancels the remaining conversions. Results preserve input order.
func (c *Converter) ConvertAll(ctx context.Context, inputs []string, outDir string, progress ProgressFunc) ([]*Result, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInput
	}

	results := make([]*Result, len(inputs))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	limit := c.cfg.Parallelism
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, input := range inputs {
		g.Go(func() error {
			res, err := c.ConvertStreaming(ctx, input, OutputName(input, outDir), progress)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			mu.Lock()
			results[i] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total int64
	for _, r := range results {
		total += r.Rows
	}
	c.log.Info("batch conversion complete",
		zap.Int("files", len(inputs)),
		zap.Int64("rows", total))
	return results, nil
}
