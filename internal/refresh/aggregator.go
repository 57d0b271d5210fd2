package refresh

import (
	"log"
	"math/rand"

	"github.com/Niftys/ebiddle/internal/models"
	"github.com/Niftys/ebiddle/internal/store"
)

// Aggregator builds the cross-category sample stored under the general
// category key. Only the capped sample is persisted; downstream consumers
// assume general is already capped.
type Aggregator struct {
	store store.Store
}

func NewAggregator(s store.Store) *Aggregator {
	return &Aggregator{store: s}
}

// Aggregate pools every category's snapshot for the date and returns a
// uniform random sample of at most sampleSize items plus the pool size. A
// category read failure is logged and skipped; an empty pool is a valid
// result, not an error. The sample is not stratified, so category
// representation in the output is not guaranteed.
func (a *Aggregator) Aggregate(date string, categories []string, sampleSize int) ([]models.Item, int, error) {
	var pool []models.Item
	for _, category := range categories {
		snapshot, exists, err := a.store.GetSnapshot(date, category)
		if err != nil {
			log.Printf("Error collecting items from %s: %v", category, err)
			continue
		}
		if !exists {
			continue
		}
		pool = append(pool, snapshot.Items...)
	}

	totalPool := len(pool)
	if totalPool == 0 {
		return []models.Item{}, 0, nil
	}

	rand.Shuffle(totalPool, func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if sampleSize > totalPool {
		sampleSize = totalPool
	}
	return pool[:sampleSize], totalPool, nil
}
