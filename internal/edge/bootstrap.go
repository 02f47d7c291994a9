package edge

import (
	"context"
	"math/rand"

	"golang.org/x/sync/errgroup"
)

// bootstrapChunk is the number of resamples drawn from one derived source.
// Chunk boundaries are fixed so results depend only on the master source.
const bootstrapChunk = 250

// bootstrapROI resamples (profit, stake) pairs with replacement and returns
// the ROI of each resample. Chunks run concurrently on at most workers goroutines.
func bootstrapROI(ctx context.Context, profits, stakes []float64, iterations, workers int, src rand.Source) ([]float64, error) {
	master := rand.New(src)
	nChunks := (iterations + bootstrapChunk - 1) / bootstrapChunk
	seeds := make([]int64, nChunks)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	rois := make([]float64, iterations)
	n := len(profits)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for c := 0; c < nChunks; c++ {
		c := c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(seeds[c]))
			start := c * bootstrapChunk
			end := min(start+bootstrapChunk, iterations)
			for i := start; i < end; i++ {
				var profit, staked float64
				for k := 0; k < n; k++ {
					j := rng.Intn(n)
					profit += profits[j]
					staked += stakes[j]
				}
				rois[i] = profit / staked
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rois, nil
}
