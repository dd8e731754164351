package probe

import (
	"context"
	"errors"
	"fmt"
	"net"

	"go.uber.org/zap"

	"github.com/lanpin/lanpin/internal/logging"
	"github.com/lanpin/lanpin/internal/subnet"
)

// ErrNoReply indicates a probed host did not reveal its hardware address
// within the deadline. This is the normal outcome for unused addresses
// and is never fatal to a scan.
var ErrNoReply = errors.New("no reply from host")

// Prober elicits the hardware address of a host on the local segment.
type Prober interface {
	// Probe returns the hardware address bound to ip, or ErrNoReply if
	// the host did not answer before ctx expired. Implementations must
	// be safe for concurrent use.
	Probe(ctx context.Context, ip net.IP) (net.HardwareAddr, error)

	// Close releases any packet capture or socket resources.
	Close() error
}

// Kind selects a probing strategy.
type Kind string

const (
	// KindAuto tries raw ARP first and falls back to the kernel
	// neighbor table when the capture handle cannot be opened
	// (no privileges, no libpcap).
	KindAuto Kind = "auto"

	// KindARP sends ARP requests and captures replies directly.
	KindARP Kind = "arp"

	// KindNeighbor nudges each host with a UDP datagram and reads the
	// resulting entry from the kernel neighbor table.
	KindNeighbor Kind = "neighbor"
)

// Open constructs a Prober of the requested kind for the given network.
func Open(network *subnet.Network, kind Kind) (Prober, error) {
	switch kind {
	case KindARP:
		return OpenARP(network)
	case KindNeighbor:
		return NewNeighbor(network.Interface), nil
	case KindAuto, "":
		p, err := OpenARP(network)
		if err == nil {
			return p, nil
		}
		logging.Warn("ARP capture unavailable, falling back to neighbor table",
			zap.String("interface", network.Interface),
			zap.Error(err),
		)
		return NewNeighbor(network.Interface), nil
	default:
		return nil, fmt.Errorf("unknown prober kind %q", kind)
	}
}
