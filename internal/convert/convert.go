package convert

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"toolshed/internal/config"
)

// ProgressFunc receives streaming conversion progress after every flushed
// batch. total is the row count reported by Inspect, or -1 when unknown.
type ProgressFunc func(written, total int64)

// Result summarizes one completed conversion.
type Result struct {
	Input    string        `json:"input"`
	Output   string        `json:"output"`
	Rows     int64         `json:"rows"`
	Columns  int           `json:"columns"`
	Duration time.Duration `json:"duration"`
}

// Converter drives parquet-to-CSV conversions through an Engine.
type Converter struct {
	engine *Engine
	cfg    config.ConverterConfig
	log    *zap.Logger
}

// NewConverter wires a converter to an engine.
func NewConverter(engine *Engine, cfg config.ConverterConfig, log *zap.Logger) *Converter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Converter{engine: engine, cfg: cfg, log: log}
}

// Engine exposes the underlying query engine for inspection calls.
func (c *Converter) Engine() *Engine { return c.engine }

// Convert reads the whole result set and writes it as CSV. Prefer
// ConvertStreaming for large files; this variant exists for parity with
// small one-shot conversions.
func (c *Converter) Convert(ctx context.Context, input, output string) (*Result, error) {
	return c.run(ctx, input, output, nil, false)
}

// ConvertStreaming iterates the engine's result cursor in batches,
// flushing the CSV writer after each batch and reporting progress.
func (c *Converter) ConvertStreaming(ctx context.Context, input, output string, progress ProgressFunc) (*Result, error) {
	return c.run(ctx, input, output, progress, true)
}

func (c *Converter) run(ctx context.Context, input, output string, progress ProgressFunc, streaming bool) (*Result, error) {
	start := time.Now()

	info, err := c.engine.Inspect(ctx, input)
	if err != nil {
		return nil, err
	}

	out, err := os.Create(output)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if c.cfg.Delimiter != "" {
		w.Comma = []rune(c.cfg.Delimiter)[0]
	}

	header := make([]string, len(info.Columns))
	for i, col := range info.Columns {
		header[i] = col.Name
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	rows, err := c.engine.Query(ctx, input)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	written, err := c.drain(ctx, rows, w, info.Rows, progress, streaming)
	if err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	res := &Result{
		Input:    input,
		Output:   output,
		Rows:     written,
		Columns:  len(info.Columns),
		Duration: time.Since(start),
	}
	c.log.Info("converted parquet file",
		zap.String("input", input),
		zap.String("output", output),
		zap.Int64("rows", written),
		zap.Duration("took", res.Duration))
	return res, nil
}

// drain walks the cursor, serializing each row. In streaming mode the
// writer is flushed every BatchSize rows and progress is reported.
func (c *Converter) drain(ctx context.Context, rows *sql.Rows, w *csv.Writer, total int64, progress ProgressFunc, streaming bool) (int64, error) {
	cols, err := rows.Columns()
	if err != nil {
		return 0, fmt.Errorf("columns: %w", err)
	}

	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	record := make([]string, len(cols))

	batch := int64(c.cfg.BatchSize)
	if batch < 1 {
		batch = 2048
	}

	var written int64
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		if err := rows.Scan(ptrs...); err != nil {
			return written, fmt.Errorf("scan row %d: %w", written, err)
		}
		for i, v := range values {
			record[i] = FormatValue(v)
		}
		if err := w.Write(record); err != nil {
			return written, fmt.Errorf("write row %d: %w", written, err)
		}
		written++

		if streaming && written%batch == 0 {
			w.Flush()
			if err := w.Error(); err != nil {
				return written, fmt.Errorf("flush batch: %w", err)
			}
			if progress != nil {
				progress(written, total)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return written, fmt.Errorf("cursor: %w", err)
	}
	if streaming && progress != nil {
		progress(written, total)
	}
	return written, nil
}

// FormatValue renders one engine value as a CSV field. NULL becomes the
// empty string; everything else follows the engine's textual form.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int:
		return strconv.Itoa(x)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		if math.IsNaN(x) {
			return "NaN"
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	default:
		// Nested types (lists, structs, decimals) keep the engine's
		// string rendering.
		return fmt.Sprintf("%v", x)
	}
}
