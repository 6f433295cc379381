package identify

import (
	"context"
	"sync"

	"github.com/samber/lo"

	"github.com/rise-and-shine/mediasniff/filestore"
)

// Outcome is the result of one identification in a batch. Exactly one of Report and
// Err is set.
type Outcome struct {
	Ref    filestore.BlobRef
	Report *Report
	Err    error
}

// IdentifyMany identifies refs with at most Config.Workers calls in flight. Outcomes
// are returned in input order; one failure does not stop the others.
func (i *Identifier) IdentifyMany(ctx context.Context, refs []filestore.BlobRef) []Outcome {
	outcomes := lo.Map(refs, func(ref filestore.BlobRef, _ int) Outcome {
		return Outcome{Ref: ref}
	})
	if len(refs) == 0 {
		return outcomes
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for range min(i.cfg.Workers, len(refs)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				report, err := i.IdentifyResult(ctx, refs[idx])
				outcomes[idx].Report, outcomes[idx].Err = report, err
			}
		}()
	}

	for idx := range refs {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	return outcomes
}
