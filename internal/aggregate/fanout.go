// Package aggregate fans one fetch out over many accounts and settles every
// outcome instead of failing fast.
package aggregate

import (
	"context"
	"sync"

	"github.com/sellerdesk/lazgate/internal/db/models"
)

// Result is the settled outcome for one account: Value on success, Err on
// failure, never both.
type Result[T any] struct {
	AccountID   string
	AccountName string
	Country     string
	Value       T
	Err         error
}

// FetchAll runs fn once per account concurrently and waits for every call to
// settle. The batch never fails as a whole: each account reports its own
// success or error, and results come back in input order regardless of
// completion order.
func FetchAll[T any](ctx context.Context, accs []models.Account, fn func(ctx context.Context, acc models.Account) (T, error)) []Result[T] {
	results := make([]Result[T], len(accs))

	var wg sync.WaitGroup
	for i, acc := range accs {
		wg.Add(1)
		go func(i int, acc models.Account) {
			defer wg.Done()
			value, err := fn(ctx, acc)
			results[i] = Result[T]{
				AccountID:   acc.ID,
				AccountName: acc.Account,
				Country:     acc.Country,
				Value:       value,
				Err:         err,
			}
		}(i, acc)
	}
	wg.Wait()

	return results
}
