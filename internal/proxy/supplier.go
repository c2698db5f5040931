package proxy

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"
)

const maxParallelChecks = 16

// Supplier hands out egress proxies for the admin API in rotation
type Supplier interface {
	// Next returns the next proxy URL, or "" when the pool is empty
	Next() string
	Len() int
}

type supplier struct {
	proxies []string
	current int
	mutex   sync.Mutex
}

// NewSupplier checks every proxy against checkURL and keeps the ones that
// answer. An empty pool is returned as an error only when proxies were given
// and none of them work.
func NewSupplier(ctx context.Context, proxies []string, checkURL string) (Supplier, error) {
	if len(proxies) == 0 {
		return &supplier{}, nil
	}

	log.Infof("🔄 Checking %d egress proxies...", len(proxies))

	healthy := make([]bool, len(proxies))
	semaphore := make(chan struct{}, maxParallelChecks)

	var wg sync.WaitGroup
	for i, proxyURL := range proxies {
		wg.Add(1)
		go func(index int, proxyURL string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			healthy[index] = check(ctx, proxyURL, checkURL)
		}(i, proxyURL)
	}
	wg.Wait()

	// Keep configured order so rotation is predictable
	working := make([]string, 0, len(proxies))
	for i, ok := range healthy {
		if ok {
			working = append(working, proxies[i])
		} else {
			log.Warnf("⚠️ Proxy %s did not answer, skipping", proxies[i])
		}
	}

	if len(working) == 0 {
		return nil, errNoWorkingProxy
	}

	log.Infof("✅ Using %d of %d egress proxies", len(working), len(proxies))
	return &supplier{proxies: working}, nil
}

func (s *supplier) Next() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if len(s.proxies) == 0 {
		return ""
	}

	proxyURL := s.proxies[s.current]
	s.current = (s.current + 1) % len(s.proxies)
	return proxyURL
}

func (s *supplier) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.proxies)
}

// check reports whether checkURL is reachable through proxyURL. Any HTTP
// answer below 500 counts, since the admin API may reject the anonymous request.
func check(ctx context.Context, proxyURL, checkURL string) bool {
	client := resty.New().
		SetTimeout(5 * time.Second).
		SetRetryCount(0).
		SetProxy(proxyURL)
	defer client.Close()

	resp, err := client.R().
		SetContext(ctx).
		Get(checkURL)
	if err != nil {
		log.Debugf("Proxy check failed for %s: %v", proxyURL, err)
		return false
	}
	if resp.StatusCode() >= 500 {
		log.Debugf("Proxy check failed for %s with status: %s", proxyURL, resp.Status())
		return false
	}
	return true
}
