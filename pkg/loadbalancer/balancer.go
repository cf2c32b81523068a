package loadbalancer

import (
	"errors"
	"net/http"
	"sync"
)

var ErrNoBackends = errors.New("loadbalancer: no backends")

// LoadBalancer hands requests to its backends in round-robin order.
type LoadBalancer struct {
	backends []http.Handler
	mu       sync.Mutex
	current  int
}

func NewLoadBalancer(backends ...http.Handler) (*LoadBalancer, error) {
	if len(backends) == 0 {
		return nil, ErrNoBackends
	}
	return &LoadBalancer{
		backends: backends,
		current:  0,
	}, nil
}

func (lb *LoadBalancer) Next() http.Handler {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	backend := lb.backends[lb.current]
	lb.current = (lb.current + 1) % len(lb.backends)
	return backend
}

func (lb *LoadBalancer) Len() int { return len(lb.backends) }

func (lb *LoadBalancer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	lb.Next().ServeHTTP(w, r)
}
