package scan

import (
	"context"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lanpin/lanpin/internal/hwaddr"
	"github.com/lanpin/lanpin/internal/probe"
)

// fakeProber answers from a fixed ip→mac table after an optional delay.
// Addresses not in the table block until the probe context expires.
type fakeProber struct {
	table  map[string]string
	delay  time.Duration
	probes atomic.Int64

	mu     sync.Mutex
	closed bool
}

func (f *fakeProber) Probe(ctx context.Context, ip net.IP) (net.HardwareAddr, error) {
	f.probes.Add(1)

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, probe.ErrNoReply
		}
	}

	mac, ok := f.table[ip.String()]
	if !ok {
		<-ctx.Done()
		return nil, probe.ErrNoReply
	}
	return hwaddr.Parse(mac)
}

func (f *fakeProber) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func ipRange(prefix string, from, to int) []net.IP {
	var ips []net.IP
	for i := from; i <= to; i++ {
		ips = append(ips, net.ParseIP(prefix+"."+strconv.Itoa(i)).To4())
	}
	return ips
}

func TestScanner_Lookup_Found(t *testing.T) {
	prober := &fakeProber{
		table: map[string]string{
			"192.168.1.10": "11:11:11:11:11:11",
			"192.168.1.42": "aa:bb:cc:dd:ee:ff",
			"192.168.1.50": "22:22:22:22:22:22",
		},
	}

	s := New(prober)
	s.ProbeTimeout = 100 * time.Millisecond
	s.Timeout = 5 * time.Second

	target, _ := hwaddr.Parse("AA:BB:CC:DD:EE:FF")
	result, err := s.Lookup(context.Background(), ipRange("192.168.1", 1, 60), target)
	if err != nil {
		t.Fatalf("Lookup() returned error: %v", err)
	}
	if result == nil {
		t.Fatal("Lookup() = nil, want result")
	}
	if result.IP.String() != "192.168.1.42" {
		t.Errorf("result.IP = %s, want 192.168.1.42", result.IP)
	}
	if result.HardwareAddr.String() != "aa:bb:cc:dd:ee:ff" {
		t.Errorf("result.HardwareAddr = %s", result.HardwareAddr)
	}
}

func TestScanner_Lookup_NotFound(t *testing.T) {
	prober := &fakeProber{
		table: map[string]string{
			"192.168.1.10": "11:11:11:11:11:11",
		},
	}

	s := New(prober)
	s.ProbeTimeout = 20 * time.Millisecond
	s.Timeout = 2 * time.Second

	target, _ := hwaddr.Parse("aa:bb:cc:dd:ee:ff")
	result, err := s.Lookup(context.Background(), ipRange("192.168.1", 1, 30), target)
	if err != nil {
		t.Fatalf("Lookup() returned error: %v", err)
	}
	if result != nil {
		t.Errorf("Lookup() = %v, want nil (not found)", result)
	}
}

func TestScanner_Lookup_TerminatesWithinTimeout(t *testing.T) {
	// Every candidate is silent; the scan must finish near the overall
	// timeout instead of candidates × probe timeout.
	prober := &fakeProber{table: map[string]string{}}

	s := New(prober)
	s.Concurrency = 4
	s.ProbeTimeout = 500 * time.Millisecond
	s.Timeout = 300 * time.Millisecond

	target, _ := hwaddr.Parse("aa:bb:cc:dd:ee:ff")
	start := time.Now()
	result, err := s.Lookup(context.Background(), ipRange("192.168.1", 1, 100), target)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Lookup() returned error: %v", err)
	}
	if result != nil {
		t.Errorf("Lookup() = %v, want nil", result)
	}
	if elapsed > 2*time.Second {
		t.Errorf("Lookup() took %v, want bounded by overall timeout", elapsed)
	}
}

func TestScanner_Lookup_EarlyExit(t *testing.T) {
	// The target answers quickly; silent hosts would each burn the full
	// probe timeout. Lookup must return as soon as the match lands,
	// without draining the rest of the candidate set.
	prober := &fakeProber{
		table: map[string]string{
			"192.168.1.2": "aa:bb:cc:dd:ee:ff",
		},
		delay: 10 * time.Millisecond,
	}

	s := New(prober)
	s.Concurrency = 8
	s.ProbeTimeout = 400 * time.Millisecond
	s.Timeout = 10 * time.Second

	target, _ := hwaddr.Parse("aa:bb:cc:dd:ee:ff")
	start := time.Now()
	result, err := s.Lookup(context.Background(), ipRange("192.168.1", 1, 200), target)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Lookup() returned error: %v", err)
	}
	if result == nil {
		t.Fatal("Lookup() = nil, want result")
	}
	if elapsed > 2*time.Second {
		t.Errorf("Lookup() took %v after an early match, want prompt return", elapsed)
	}
	if n := prober.probes.Load(); n >= 200 {
		t.Errorf("Lookup() probed %d hosts, want early exit before the full set", n)
	}
}

func TestScanner_Lookup_FirstMatchWins(t *testing.T) {
	// Two hosts claim the same address (misconfigured network). Exactly
	// one result must come back; the second writer is a no-op.
	prober := &fakeProber{
		table: map[string]string{
			"192.168.1.2": "aa:bb:cc:dd:ee:ff",
			"192.168.1.3": "aa:bb:cc:dd:ee:ff",
		},
	}

	s := New(prober)
	s.ProbeTimeout = 100 * time.Millisecond
	s.Timeout = 5 * time.Second

	target, _ := hwaddr.Parse("aa:bb:cc:dd:ee:ff")
	result, err := s.Lookup(context.Background(), ipRange("192.168.1", 2, 3), target)
	if err != nil {
		t.Fatalf("Lookup() returned error: %v", err)
	}
	if result == nil {
		t.Fatal("Lookup() = nil, want result")
	}
	got := result.IP.String()
	if got != "192.168.1.2" && got != "192.168.1.3" {
		t.Errorf("result.IP = %s, want one of the two claimants", got)
	}
}

func TestScanner_Sweep(t *testing.T) {
	prober := &fakeProber{
		table: map[string]string{
			"192.168.1.30": "33:33:33:33:33:33",
			"192.168.1.10": "11:11:11:11:11:11",
			"192.168.1.20": "22:22:22:22:22:22",
		},
	}

	s := New(prober)
	s.ProbeTimeout = 50 * time.Millisecond
	s.Timeout = 5 * time.Second

	hosts, err := s.Sweep(context.Background(), ipRange("192.168.1", 1, 40))
	if err != nil {
		t.Fatalf("Sweep() returned error: %v", err)
	}

	if len(hosts) != 3 {
		t.Fatalf("Sweep() returned %d hosts, want 3: %v", len(hosts), hosts)
	}

	// Sorted by address.
	want := []string{"192.168.1.10", "192.168.1.20", "192.168.1.30"}
	for i, w := range want {
		if hosts[i].IP.String() != w {
			t.Errorf("hosts[%d].IP = %s, want %s", i, hosts[i].IP, w)
		}
	}
}

func TestScanner_Sweep_EmptySubnet(t *testing.T) {
	prober := &fakeProber{table: map[string]string{}}

	s := New(prober)
	s.ProbeTimeout = 10 * time.Millisecond
	s.Timeout = 2 * time.Second

	hosts, err := s.Sweep(context.Background(), ipRange("192.168.1", 1, 10))
	if err != nil {
		t.Fatalf("Sweep() returned error: %v", err)
	}
	if len(hosts) != 0 {
		t.Errorf("Sweep() = %v, want no hosts", hosts)
	}
}
