package probe

import (
	"bufio"
	"context"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/lanpin/lanpin/internal/hwaddr"
)

// neighborTablePath is the Linux kernel's ARP cache.
const neighborTablePath = "/proc/net/arp"

// defaultPollInterval is how often the neighbor table is re-read while
// waiting for the kernel to learn an entry.
const defaultPollInterval = 50 * time.Millisecond

// Neighbor probes hosts without raw packet access: it sends a throwaway
// UDP datagram so the kernel performs ARP resolution itself, then reads
// the learned entry from the neighbor table. Linux-only.
type Neighbor struct {
	// Interface filters table entries to one device. Empty matches any.
	Interface string

	// TablePath overrides the neighbor table location (tests).
	TablePath string

	// PollInterval controls how often the table is re-read.
	PollInterval time.Duration
}

// NewNeighbor returns a neighbor-table prober for the named interface.
func NewNeighbor(iface string) *Neighbor {
	return &Neighbor{
		Interface:    iface,
		TablePath:    neighborTablePath,
		PollInterval: defaultPollInterval,
	}
}

// Probe nudges ip with a UDP datagram and polls the neighbor table until
// the kernel has learned its hardware address or ctx expires.
func (p *Neighbor) Probe(ctx context.Context, ip net.IP) (net.HardwareAddr, error) {
	p.touch(ctx, ip)

	interval := p.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if hw, ok := p.lookup(ip); ok {
			return hw, nil
		}
		select {
		case <-ctx.Done():
			return nil, ErrNoReply
		case <-ticker.C:
		}
	}
}

// Close implements Prober. The neighbor prober holds no resources.
func (p *Neighbor) Close() error {
	return nil
}

// touch sends a single datagram to a port nobody listens on. The payload
// never matters; the point is forcing the kernel to ARP for the target.
func (p *Neighbor) touch(ctx context.Context, ip net.IP) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp4", net.JoinHostPort(ip.String(), "9"))
	if err != nil {
		return
	}
	_, _ = conn.Write([]byte{0})
	_ = conn.Close()
}

// lookup reads the neighbor table and returns the entry for ip, if the
// kernel has a complete one on our interface.
func (p *Neighbor) lookup(ip net.IP) (net.HardwareAddr, bool) {
	path := p.TablePath
	if path == "" {
		path = neighborTablePath
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()
	return parseNeighborTable(f, ip.String(), p.Interface)
}

// parseNeighborTable scans /proc/net/arp formatted data for a complete
// entry matching ip on the given device. Incomplete entries carry an
// all-zero hardware address and are skipped.
func parseNeighborTable(r io.Reader, ip, device string) (net.HardwareAddr, bool) {
	scanner := bufio.NewScanner(r)
	first := true
	for scanner.Scan() {
		if first {
			first = false // header line
			continue
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 6 {
			continue
		}
		if fields[0] != ip {
			continue
		}
		if device != "" && fields[5] != device {
			continue
		}
		hw, err := hwaddr.Parse(fields[3])
		if err != nil || hwaddr.IsZero(hw) {
			continue
		}
		return hw, true
	}
	return nil, false
}
