package parallel

import "sync"

// RunAll submits every task to the pool and blocks until all of them have
// finished. Returns false without running anything if the pool is closed.
//
// Tasks must not submit further work to the same pool: with every worker
// parked inside RunAll there would be nobody left to drain the queue.
func (wp *WorkerPool) RunAll(tasks ...func()) bool {
	if len(tasks) == 0 {
		return true
	}

	var wg sync.WaitGroup
	for _, task := range tasks {
		task := task
		wg.Add(1)
		if !wp.Submit(func() {
			defer wg.Done()
			task()
		}) {
			wg.Done()
			wg.Wait()
			return false
		}
	}

	wg.Wait()
	return true
}

// ForEachChunk splits the index range [0, n) into one contiguous chunk per
// worker and runs fn(lo, hi) for each chunk on the pool, blocking until the
// whole range is processed. Chunk boundaries depend only on n and the pool
// size, so callers that write results to per-index slots get deterministic
// output regardless of scheduling.
//
// Returns false without running anything if the pool is closed.
func (wp *WorkerPool) ForEachChunk(n int, fn func(lo, hi int)) bool {
	if n <= 0 {
		return true
	}

	// Use int64 to prevent overflow in the intermediate calculation
	chunkSize := int((int64(n) + int64(wp.workers) - 1) / int64(wp.workers))
	if chunkSize < 1 {
		chunkSize = 1
	}

	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunkSize {
		hi := lo + chunkSize
		if hi > n {
			hi = n
		}

		lo, hi := lo, hi
		wg.Add(1)
		if !wp.Submit(func() {
			defer wg.Done()
			fn(lo, hi)
		}) {
			wg.Done()
			wg.Wait()
			return false
		}
	}

	wg.Wait()
	return true
}
