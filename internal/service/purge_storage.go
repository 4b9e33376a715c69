package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/harlo-app/harlo-server/internal/model"
)

// purgeCollector accumulates storage purge outcomes across the
// concurrent walk. It belongs to exactly one purge invocation.
type purgeCollector struct {
	mu       sync.Mutex
	deleted  int
	failures []model.PrefixFailure
}

func (c *purgeCollector) addDeleted() {
	c.mu.Lock()
	c.deleted++
	c.mu.Unlock()
}

func (c *purgeCollector) addFailure(prefix string, err error) {
	c.mu.Lock()
	c.failures = append(c.failures, model.PrefixFailure{Prefix: prefix, Err: err})
	c.mu.Unlock()
}

func (c *purgeCollector) result() model.StoragePurgeResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.StoragePurgeResult{Deleted: c.deleted, Failures: c.failures}
}

// purgeStorage deletes every object under each of the owner's known
// prefixes. Both prefix conventions are walked concurrently and
// independently; a failure in one never prevents the attempt on the
// other. The stage is best effort: every sub-failure is collected
// into the result instead of aborting siblings, and a prefix with no
// content counts as success.
func (d *Deletion) purgeStorage(ctx context.Context, ownerID uuid.UUID) model.StoragePurgeResult {
	collector := &purgeCollector{}

	var wg sync.WaitGroup
	for _, prefix := range model.OwnerPrefixes(ownerID) {
		wg.Add(1)
		go func(prefix string) {
			defer wg.Done()
			d.purgePrefix(ctx, prefix, collector)
		}(prefix)
	}
	wg.Wait()

	result := collector.result()

	for _, failure := range result.Failures {
		d.metrics.StoragePurgeFailure()
		d.logger.Warn("Deletion service: storage purge sub-tree failed",
			"prefix", failure.Prefix,
			"error", failure.Err.Error())
	}

	return result
}

// purgePrefix walks one level: delete the listed objects concurrently,
// recurse into each sub-prefix concurrently, wait for all of them.
func (d *Deletion) purgePrefix(ctx context.Context, prefix string, collector *purgeCollector) {
	listing, err := d.storage.List(ctx, prefix)
	if err != nil {
		collector.addFailure(prefix, err)
		return
	}

	var wg sync.WaitGroup
	for _, object := range listing.Objects {
		wg.Add(1)
		go func(object string) {
			defer wg.Done()
			if err := d.storage.Delete(ctx, object); err != nil {
				collector.addFailure(object, err)
				return
			}
			collector.addDeleted()
		}(object)
	}
	for _, sub := range listing.SubPrefixes {
		wg.Add(1)
		go func(sub string) {
			defer wg.Done()
			d.purgePrefix(ctx, sub, collector)
		}(sub)
	}
	wg.Wait()
}
