package app

import (
	"sync"
	"time"

	"github.com/riskibarqy/prediction-league/internal/platform/cache"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

// startCacheJanitor purges expired entries every interval until the returned
// closer is called.
func startCacheJanitor(store *cache.Store, interval time.Duration, logger *logging.Logger) func() error {
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if n := store.Purge(); n > 0 {
					logger.Debug("cache purge", "expired", n, "entries", store.Stats().Entries)
				}
			}
		}
	}()

	var once sync.Once
	return func() error {
		once.Do(func() {
			close(stop)
			<-done
		})
		return nil
	}
}
