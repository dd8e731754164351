package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"github.com/lanpin/lanpin/internal/subnet"
)

const arpSnapLen = 65536

// ARP probes hosts by sending ARP requests on a shared capture handle
// and matching captured replies back to in-flight probes.
type ARP struct {
	handle  *pcap.Handle
	network *subnet.Network

	sendMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan net.HardwareAddr

	closeOnce sync.Once
	closed    chan struct{}
}

// OpenARP opens a capture handle on the network's interface, restricted
// to ARP traffic, and starts the reply dispatcher. Requires capture
// privileges; callers that cannot get them should fall back to the
// neighbor-table prober.
func OpenARP(network *subnet.Network) (*ARP, error) {
	if len(network.HardwareAddr) == 0 {
		return nil, fmt.Errorf("interface %s has no hardware address", network.Interface)
	}

	handle, err := pcap.OpenLive(network.Interface, arpSnapLen, false, pcap.BlockForever)
	if err != nil {
		return nil, fmt.Errorf("open capture on %s: %w", network.Interface, err)
	}
	if err := handle.SetBPFFilter("arp"); err != nil {
		handle.Close()
		return nil, fmt.Errorf("set capture filter: %w", err)
	}

	p := &ARP{
		handle:  handle,
		network: network,
		pending: make(map[string]chan net.HardwareAddr),
		closed:  make(chan struct{}),
	}
	go p.readReplies()
	return p, nil
}

// Probe sends an ARP request for ip and waits for the matching reply.
func (p *ARP) Probe(ctx context.Context, ip net.IP) (net.HardwareAddr, error) {
	key := ip.String()
	ch := make(chan net.HardwareAddr, 1)

	p.mu.Lock()
	p.pending[key] = ch
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		delete(p.pending, key)
		p.mu.Unlock()
	}()

	if err := p.sendRequest(ip); err != nil {
		return nil, err
	}

	select {
	case hw := <-ch:
		return hw, nil
	case <-ctx.Done():
		return nil, ErrNoReply
	case <-p.closed:
		return nil, errors.New("prober closed")
	}
}

// Close stops the dispatcher and releases the capture handle.
func (p *ARP) Close() error {
	p.closeOnce.Do(func() {
		close(p.closed)
		p.handle.Close()
	})
	return nil
}

// readReplies drains the capture handle and delivers ARP replies to
// whichever probe is waiting on the sender's IP.
func (p *ARP) readReplies() {
	src := gopacket.NewPacketSource(p.handle, layers.LayerTypeEthernet)
	packets := src.Packets()
	for {
		select {
		case <-p.closed:
			return
		case packet, ok := <-packets:
			if !ok {
				return
			}
			layer := packet.Layer(layers.LayerTypeARP)
			if layer == nil {
				continue
			}
			reply := layer.(*layers.ARP)
			if reply.Operation != layers.ARPReply {
				continue
			}

			ip := net.IP(reply.SourceProtAddress)
			if !p.network.IPNet.Contains(ip) {
				continue
			}

			p.mu.Lock()
			ch, waiting := p.pending[ip.String()]
			p.mu.Unlock()
			if !waiting {
				continue
			}

			hw := make(net.HardwareAddr, len(reply.SourceHwAddress))
			copy(hw, reply.SourceHwAddress)
			select {
			case ch <- hw:
			default:
			}
		}
	}
}

// sendRequest writes a broadcast ARP who-has for dst. Writes are
// serialized; libpcap injection is not safe for concurrent use.
func (p *ARP) sendRequest(dst net.IP) error {
	eth := layers.Ethernet{
		SrcMAC:       p.network.HardwareAddr,
		DstMAC:       net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		EthernetType: layers.EthernetTypeARP,
	}
	request := layers.ARP{
		AddrType:          layers.LinkTypeEthernet,
		Protocol:          layers.EthernetTypeIPv4,
		HwAddressSize:     6,
		ProtAddressSize:   4,
		Operation:         layers.ARPRequest,
		SourceHwAddress:   []byte(p.network.HardwareAddr),
		SourceProtAddress: []byte(p.network.IP.To4()),
		DstHwAddress:      []byte{0, 0, 0, 0, 0, 0},
		DstProtAddress:    []byte(dst.To4()),
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{
		FixLengths:       true,
		ComputeChecksums: true,
	}
	if err := gopacket.SerializeLayers(buf, opts, &eth, &request); err != nil {
		return fmt.Errorf("serialize ARP request: %w", err)
	}

	p.sendMu.Lock()
	defer p.sendMu.Unlock()
	if err := p.handle.WritePacketData(buf.Bytes()); err != nil {
		return fmt.Errorf("send ARP request to %s: %w", dst, err)
	}
	return nil
}
