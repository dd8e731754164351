package scan

import (
	"bytes"
	"context"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/lanpin/lanpin/internal/logging"
	"github.com/lanpin/lanpin/internal/probe"
)

const (
	// DefaultConcurrency bounds how many hosts are probed at once.
	DefaultConcurrency = 64

	// DefaultProbeTimeout is the per-host wait for a reply.
	DefaultProbeTimeout = 1 * time.Second

	// DefaultTimeout bounds a whole lookup or sweep.
	DefaultTimeout = 30 * time.Second
)

// Host is a responding device: its IPv4 address and the hardware
// address it answered with.
type Host struct {
	IP           net.IP
	HardwareAddr net.HardwareAddr
}

// Result is a successful hardware-address lookup. A nil *Result from
// Lookup means no host holds the target address; that is an expected
// outcome, not an error.
type Result struct {
	IP           net.IP
	HardwareAddr net.HardwareAddr
}

// Scanner probes candidate hosts through a Prober with bounded
// concurrency and per-host deadlines.
type Scanner struct {
	// Prober elicits hardware addresses from hosts.
	Prober probe.Prober

	// Concurrency is the number of parallel probes. Zero applies
	// DefaultConcurrency.
	Concurrency int

	// ProbeTimeout is the per-host reply deadline. Zero applies
	// DefaultProbeTimeout.
	ProbeTimeout time.Duration

	// Timeout bounds the whole scan. Zero applies DefaultTimeout.
	Timeout time.Duration
}

// New returns a Scanner over the given prober with default limits.
func New(p probe.Prober) *Scanner {
	return &Scanner{
		Prober:       p,
		Concurrency:  DefaultConcurrency,
		ProbeTimeout: DefaultProbeTimeout,
		Timeout:      DefaultTimeout,
	}
}

// Lookup probes candidates until one answers with the target hardware
// address. The first match wins: remaining probes are cancelled and
// their late results discarded. Returns (nil, nil) when every candidate
// has been probed, or the overall timeout elapsed, without a match.
func (s *Scanner) Lookup(ctx context.Context, candidates []net.IP, target net.HardwareAddr) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	targetKey := target.String()

	// Single-assignment cell: the first matching probe deposits its
	// result; later writers fall through to the default case.
	found := make(chan *Result, 1)

	jobs := make(chan net.IP)
	var wg sync.WaitGroup
	for i := 0; i < s.workers(len(candidates)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ip := range jobs {
				hw, err := s.probeOne(ctx, ip)
				if err != nil {
					continue
				}
				if hw.String() == targetKey {
					select {
					case found <- &Result{IP: ip, HardwareAddr: hw}:
					default:
					}
					cancel()
				}
			}
		}()
	}

dispatch:
	for _, ip := range candidates {
		select {
		case jobs <- ip:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	select {
	case r := <-found:
		return r, nil
	default:
		return nil, nil
	}
}

// Sweep probes every candidate and returns all responders, sorted by
// address. Hosts that stay silent are skipped.
func (s *Scanner) Sweep(ctx context.Context, candidates []net.IP) ([]Host, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	var (
		mu    sync.Mutex
		hosts []Host
	)

	jobs := make(chan net.IP)
	var wg sync.WaitGroup
	for i := 0; i < s.workers(len(candidates)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ip := range jobs {
				hw, err := s.probeOne(ctx, ip)
				if err != nil {
					continue
				}
				mu.Lock()
				hosts = append(hosts, Host{IP: ip, HardwareAddr: hw})
				mu.Unlock()
			}
		}()
	}

dispatch:
	for _, ip := range candidates {
		select {
		case jobs <- ip:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	sort.Slice(hosts, func(i, j int) bool {
		return bytes.Compare(hosts[i].IP, hosts[j].IP) < 0
	})
	return hosts, nil
}

// probeOne runs a single probe under the per-host deadline.
func (s *Scanner) probeOne(ctx context.Context, ip net.IP) (net.HardwareAddr, error) {
	probeCtx, probeCancel := context.WithTimeout(ctx, s.probeTimeout())
	defer probeCancel()

	start := time.Now()
	hw, err := s.Prober.Probe(probeCtx, ip)
	if err == nil {
		logging.LogProbeResult(ip.String(), hw.String(), time.Since(start))
	}
	return hw, err
}

func (s *Scanner) workers(candidates int) int {
	n := s.Concurrency
	if n <= 0 {
		n = DefaultConcurrency
	}
	if candidates > 0 && n > candidates {
		n = candidates
	}
	return n
}

func (s *Scanner) probeTimeout() time.Duration {
	if s.ProbeTimeout <= 0 {
		return DefaultProbeTimeout
	}
	return s.ProbeTimeout
}

func (s *Scanner) timeout() time.Duration {
	if s.Timeout <= 0 {
		return DefaultTimeout
	}
	return s.Timeout
}
