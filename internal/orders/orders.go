package orders

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"trading-toolkit/internal/database"
	"trading-toolkit/internal/types"
)

// StoreKey holds the last synced GTT order map.
const StoreKey = "gttOrderMap"

// Lister is the part of the Kite client the sync needs.
type Lister interface {
	ListGTT(ctx context.Context) (types.OrderMap, error)
}

// Syncer mirrors remote GTT orders into the local store.
type Syncer struct {
	lister Lister
	store  database.KeyValueStore

	mu       sync.Mutex
	lastSync time.Time
}

func NewSyncer(lister Lister, store database.KeyValueStore) *Syncer {
	return &Syncer{lister: lister, store: store}
}

// Sync fetches once and saves the result.
func (s *Syncer) Sync(ctx context.Context) (types.OrderMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.lister.ListGTT(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "gtt sync")
	}
	if err := SaveOrders(s.store, orders); err != nil {
		return nil, err
	}

	s.lastSync = time.Now()
	syncedOrders.Set(float64(orders.Count()))
	lastSyncTimestamp.Set(float64(s.lastSync.Unix()))
	return orders, nil
}

func (s *Syncer) LastSync() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSync
}

// Start syncs every interval until ctx is done. Failures wait for the next tick.
func (s *Syncer) Start(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return errors.Errorf("gtt sync interval must be positive, got %s", interval)
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			s.runOnce(ctx)

			select {
			case <-ctx.Done():
				log.Debug("GTT sync stopped.")
				return
			case <-ticker.C:
			}
		}
	}()
	log.Infof("GTT sync started, interval %s.", interval)
	return nil
}

func (s *Syncer) runOnce(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Panic recovered in GTT sync: %v", r)
		}
	}()

	orders, err := s.Sync(ctx)
	if err != nil {
		syncFailures.Inc()
		log.Errorf("Failed to sync GTT orders: %v", err)
		return
	}
	log.Debugf("GTT orders synced: %d symbols, %d orders", len(orders), orders.Count())
}

func SaveOrders(store database.KeyValueStore, orders types.OrderMap) error {
	raw, err := json.Marshal(orders)
	if err != nil {
		return errors.Wrap(err, "could not encode gtt orders")
	}
	return errors.Wrap(store.Set(StoreKey, string(raw)), "could not store gtt orders")
}

// LoadOrders returns the last synced map, empty when nothing was synced yet.
func LoadOrders(store database.KeyValueStore) (types.OrderMap, error) {
	raw, ok, err := store.Get(StoreKey)
	if err != nil {
		return nil, err
	}
	orders := make(types.OrderMap)
	if !ok {
		return orders, nil
	}
	if err := json.Unmarshal([]byte(raw), &orders); err != nil {
		return nil, errors.Wrap(err, "corrupt gtt order map")
	}
	return orders, nil
}
