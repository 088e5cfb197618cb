package network

import "golang.org/x/sync/errgroup"

// runChunks splits [0, n) into at most workers contiguous chunks and runs
// body over each concurrently. Chunks are contiguous so each worker touches a
// compact span of the shared arrays; the only synchronization is the final
// wait, which doubles as the barrier between the edge and vertex passes.
func runChunks(workers, n int, body func(lo, hi int)) {
	if workers <= 1 || n <= 1 {
		body(0, n)

		return
	}
	if workers > n {
		workers = n
	}

	var g errgroup.Group
	size := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += size {
		hi := lo + size
		if hi > n {
			hi = n
		}
		g.Go(func() error {
			body(lo, hi)

			return nil
		})
	}
	// Bodies never fail; Wait is only the join point.
	_ = g.Wait()
}
