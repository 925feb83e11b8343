package fetch

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Summary aggregates the per-file results of a fetch run
type Summary struct {
	Results    []FileResult
	Downloaded int
	Missing    int
	Failed     int
	Duration   time.Duration
}

// FetchAll downloads every manifest entry into outputDir with bounded
// concurrency. Per-file misses and failures are recorded in the summary;
// only cancellation or an unusable output folder aborts the run.
func (f *Fetcher) FetchAll(ctx context.Context, names []string, outputDir string, concurrency int) (*Summary, error) {
	start := time.Now()

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output folder: %w", err)
	}

	if concurrency < 1 {
		concurrency = 1
	}

	f.logger.Info().
		Int("images", len(names)).
		Int("max_concurrent", concurrency).
		Str("output", outputDir).
		Msg("starting downloads")

	sem := semaphore.NewWeighted(int64(concurrency))
	g, gCtx := errgroup.WithContext(ctx)

	resultsChan := make(chan FileResult, len(names))

	for _, name := range names {
		name := name

		g.Go(func() error {
			if err := sem.Acquire(gCtx, 1); err != nil {
				return fmt.Errorf("failed to acquire semaphore: %w", err)
			}
			defer sem.Release(1)

			select {
			case <-gCtx.Done():
				return gCtx.Err()
			default:
			}

			// A single bad image must not abort the rest of the run,
			// so per-file outcomes travel through the results channel.
			resultsChan <- f.FetchOne(gCtx, name, outputDir)
			return nil
		})
	}

	waitErr := g.Wait()
	close(resultsChan)

	summary := &Summary{}
	for result := range resultsChan {
		summary.Results = append(summary.Results, result)
		switch result.Status {
		case StatusDownloaded:
			summary.Downloaded++
		case StatusMissing:
			summary.Missing++
		case StatusFailed:
			summary.Failed++
		}
	}
	summary.Duration = time.Since(start)

	f.logger.Info().
		Int("downloaded", summary.Downloaded).
		Int("missing", summary.Missing).
		Int("failed", summary.Failed).
		Dur("duration", summary.Duration).
		Msg("downloads finished")

	return summary, waitErr
}
