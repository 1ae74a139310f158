package main

import (
	"context"
	"fmt"
	"time"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/paraglidehq/flowcode"
)

// benchResult reports one bulk generation run.
type benchResult struct {
	Count    int64
	MaxIndex int64
	Elapsed  time.Duration
}

func newBenchCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Format every index from 1 to the capacity of the length",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(*cfg, cmd.ErrOrStderr())

			f, err := flowcode.New(cfg.Radix, cfg.HumanReadable)
			if err != nil {
				logger.Error("invalid formatter configuration", "radix", cfg.Radix, "human", cfg.HumanReadable, "err", err)
				return err
			}
			logger.Debug("starting benchmark",
				"radix", cfg.Radix,
				"length", cfg.Length,
				"max_index", f.MaxIndex(cfg.Length),
				"workers", cfg.Workers,
				"verify", cfg.Verify)

			res, err := runBench(cmd.Context(), f, *cfg)
			if err != nil {
				logger.Error("benchmark failed", "generated", res.Count, "err", err)
				return err
			}

			out := cmd.OutOrStdout()
			color.New(color.FgGreen).Fprintf(out, "Generated %d codes.\n", res.Count)
			fmt.Fprintf(out, "Created %d, Elapsed time: %d ms / %.3f seconds\n",
				res.MaxIndex, res.Elapsed.Milliseconds(), res.Elapsed.Seconds())
			return nil
		},
	}
	cmd.Flags().IntVarP(&cfg.Workers, "workers", "w", cfg.Workers, "number of goroutines splitting the range")
	cmd.Flags().Int64Var(&cfg.Limit, "limit", cfg.Limit, "stop after this index (0 for the full capacity)")
	cmd.Flags().BoolVar(&cfg.Verify, "verify", cfg.Verify, "parse every code back and compare")
	return cmd
}

// runBench formats every index in [1, MaxIndex(cfg.Length)], capped by
// cfg.Limit, across cfg.Workers goroutines. A format or verify failure
// stops all workers and is returned with the count reached so far.
func runBench(ctx context.Context, f *flowcode.Formatter, cfg Config) (benchResult, error) {
	res := benchResult{MaxIndex: f.MaxIndex(cfg.Length)}
	if cfg.Length < 1 {
		return res, flowcode.ErrInvalidLength
	}

	last := res.MaxIndex
	if cfg.Limit > 0 && cfg.Limit < last {
		last = cfg.Limit
	}
	workers, err := safecast.Conv[int64](max(cfg.Workers, 1))
	if err != nil {
		return res, err
	}
	chunk := (last + workers - 1) / workers

	started := time.Now()
	counts := make([]int64, workers)
	g, ctx := errgroup.WithContext(ctx)
	for lo, w := int64(1), 0; lo <= last; w++ {
		hi := last
		if last-lo >= chunk {
			hi = lo + chunk - 1
		}
		start, end, slot := lo, hi, w
		g.Go(func() error {
			for v := start; ; v++ {
				if v&0xfff == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				code, err := f.Format(v, cfg.Length)
				if err != nil {
					return fmt.Errorf("format %d: %w", v, err)
				}
				if cfg.Verify {
					got, err := f.Parse(code, cfg.Length)
					if err != nil {
						return fmt.Errorf("verify %q: %w", code, err)
					}
					if got != v {
						return fmt.Errorf("verify %q: parsed %d, want %d", code, got, v)
					}
				}
				counts[slot]++
				if v == end {
					return nil
				}
			}
		})
		if hi == last {
			break
		}
		lo = hi + 1
	}
	err = g.Wait()
	res.Elapsed = time.Since(started)
	for _, n := range counts {
		res.Count += n
	}
	return res, err
}
