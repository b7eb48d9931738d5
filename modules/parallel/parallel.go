// Package parallel shards data-parallel, round-internal loops across the
// available CPUs. Protocol rounds themselves stay strictly sequential; the
// helpers here only split independent index ranges and wait for completion.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"MultilinearPCS/modules/fields"
)

// minBlock is the smallest range worth spawning a goroutine for.
const minBlock = 4 * fields.PackWidth

// Chunks splits [0, n) into the [start, end) ranges Execute would shard it
// into. It always returns at least one chunk for n > 0.
func Chunks(n int) [][2]int {
	if n <= 0 {
		return nil
	}
	nbTasks := runtime.NumCPU()
	if max := n / minBlock; nbTasks > max {
		nbTasks = max
	}
	if nbTasks <= 1 {
		return [][2]int{{0, n}}
	}

	chunks := make([][2]int, 0, nbTasks)
	blockSize := n / nbTasks
	extra := n - nbTasks*blockSize
	start := 0
	for i := 0; i < nbTasks; i++ {
		end := start + blockSize
		if i < extra {
			end++
		}
		chunks = append(chunks, [2]int{start, end})
		start = end
	}
	return chunks
}

// Execute processes work over [0, n) in parallel and waits for the result.
func Execute(n int, work func(start, end int)) {
	chunks := Chunks(n)
	if len(chunks) == 1 {
		work(0, n)
		return
	}

	var g errgroup.Group
	for _, c := range chunks {
		start, end := c[0], c[1]
		g.Go(func() error {
			work(start, end)
			return nil
		})
	}
	_ = g.Wait() // work never returns an error
}

// Accumulate shards [0, n), hands every worker its own accumulator of the
// given width, and adds the per-chunk partial sums together once all
// workers are done.
func Accumulate(n, width int, work func(start, end int, acc []fields.Element)) []fields.Element {
	chunks := Chunks(n)
	partials := make([][]fields.Element, len(chunks))

	var g errgroup.Group
	for i, c := range chunks {
		i, start, end := i, c[0], c[1]
		g.Go(func() error {
			partials[i] = make([]fields.Element, width)
			work(start, end, partials[i])
			return nil
		})
	}
	_ = g.Wait()

	total := make([]fields.Element, width)
	for _, p := range partials {
		for t := range total {
			total[t].Add(&total[t], &p[t])
		}
	}
	return total
}
