package async

import (
	"context"
	"sync"
)

type ParallelIteratee[T any, R any] func(context.Context, T) (R, error)

// ParallelMap runs iteratee over the collection with at most concurrency
// goroutines. Each item resolves independently: failures are captured in
// the corresponding Result, they never fail the batch. Output order
// matches input order.
func ParallelMap[T any, R any](ctx context.Context, concurrency int, collection []T, iteratee ParallelIteratee[T, R]) []Result[R] {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]Result[R], len(collection))
	semaphore := make(chan struct{}, concurrency)

	var wg sync.WaitGroup
	for i, item := range collection {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(i int, item T) {
			defer func() {
				<-semaphore
				wg.Done()
			}()
			results[i] = NewResult(iteratee(ctx, item))
		}(i, item)
	}
	wg.Wait()

	return results
}
