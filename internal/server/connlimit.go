package server

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/lawnchairsociety/dungeongen/internal/config"
)

// Admission errors returned by ConnSlots.Admit.
var (
	ErrClientBusy = errors.New("too many connections from this client")
	ErrServerFull = errors.New("connection limit reached")
)

// ConnStats is a snapshot of the open connections.
type ConnStats struct {
	Open    int
	Clients int
}

// ConnSlots admits connections up to a per-client and an overall limit.
// Every admitted connection holds its slot until the release func handed
// out with it runs.
type ConnSlots struct {
	limits config.ConnectionsConfig

	mu     sync.Mutex
	byHost map[string]int
	open   int
}

// NewConnSlots creates the slot table. Zero limits mean unlimited.
func NewConnSlots(limits config.ConnectionsConfig) *ConnSlots {
	return &ConnSlots{
		limits: limits,
		byHost: make(map[string]int),
	}
}

// Admit takes a slot for host. Only the first call of release frees it.
func (s *ConnSlots) Admit(host string) (release func(), err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if atLimit(s.limits.MaxTotal, s.open) {
		return nil, ErrServerFull
	}
	if atLimit(s.limits.MaxPerIP, s.byHost[host]) {
		return nil, ErrClientBusy
	}
	s.byHost[host]++
	s.open++

	var once sync.Once
	return func() { once.Do(func() { s.free(host) }) }, nil
}

func (s *ConnSlots) free(host string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n := s.byHost[host] - 1; n > 0 {
		s.byHost[host] = n
	} else {
		delete(s.byHost, host)
	}
	s.open--
}

func atLimit(limit, count int) bool {
	return limit > 0 && count >= limit
}

// Stats returns the open connection and distinct client counts.
func (s *ConnSlots) Stats() ConnStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ConnStats{Open: s.open, Clients: len(s.byHost)}
}

// OpenFrom returns how many slots host holds.
func (s *ConnSlots) OpenFrom(host string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byHost[host]
}

// clientHost names the client behind r. A proxy's X-Forwarded-For (first
// entry) or X-Real-IP header wins over the socket address.
func clientHost(r *http.Request) string {
	if first, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ","); strings.TrimSpace(first) != "" {
		return strings.TrimSpace(first)
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return hostOf(r.RemoteAddr)
}

// hostOf drops the port from a host:port address.
func hostOf(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
