package imaging

import (
	"runtime"
	"sync"
)

// parallelRows splits [0, rows) into at most workers contiguous ranges and
// runs fn on each range in its own goroutine, returning once all are done.
//
// Ranges never overlap, so fn may write to its rows without locking.
// workers <= 0 means GOMAXPROCS. Small inputs run on the calling goroutine.
func parallelRows(rows, workers int, fn func(start, end int)) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > rows {
		workers = rows
	}
	if workers <= 1 {
		fn(0, rows)
		return
	}

	partSize := rows / workers
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		start := i * partSize
		end := start + partSize
		// Last partition takes the remainder.
		if i == workers-1 {
			end = rows
		}
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(start, end)
	}
	wg.Wait()
}
