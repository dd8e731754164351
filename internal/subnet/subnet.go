package subnet

import (
	"errors"
	"fmt"
	"net"
)

// DefaultMaxHosts caps how many candidate hosts a scan will enumerate.
// 4096 covers everything up to a /20 and keeps an accidental scan of a
// corporate /8 from running for hours.
const DefaultMaxHosts = 4096

// ErrTooManyHosts is returned by Hosts when the subnet holds more
// candidates than the configured cap.
var ErrTooManyHosts = errors.New("subnet has too many hosts")

// InterfaceError describes why a named interface cannot be scanned:
// it does not exist, is down, or carries no IPv4 address.
type InterfaceError struct {
	Interface string
	Reason    string
	Err       error
}

func (e *InterfaceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("interface %s: %s: %v", e.Interface, e.Reason, e.Err)
	}
	return fmt.Sprintf("interface %s: %s", e.Interface, e.Reason)
}

func (e *InterfaceError) Unwrap() error {
	return e.Err
}

// Network describes the IPv4 configuration of a local interface:
// its own address, the subnet it sits on, and its hardware address.
type Network struct {
	// Interface is the OS interface name (e.g., "eth0")
	Interface string

	// IP is the interface's own IPv4 address
	IP net.IP

	// IPNet is the subnet derived from the interface's address and mask
	IPNet *net.IPNet

	// HardwareAddr is the interface's own link-layer address
	HardwareAddr net.HardwareAddr
}

// Lookup resolves the IPv4 configuration of the named interface.
// Returns an *InterfaceError if the interface is absent, down, or has
// no IPv4 address assigned.
func Lookup(name string) (*Network, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil, &InterfaceError{Interface: name, Reason: "not found", Err: err}
	}

	if iface.Flags&net.FlagUp == 0 {
		return nil, &InterfaceError{Interface: name, Reason: "is down"}
	}

	addrs, err := iface.Addrs()
	if err != nil {
		return nil, &InterfaceError{Interface: name, Reason: "cannot list addresses", Err: err}
	}

	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		ip4 := ipnet.IP.To4()
		if ip4 == nil {
			continue
		}
		return &Network{
			Interface:    name,
			IP:           ip4,
			IPNet:        &net.IPNet{IP: ip4.Mask(ipnet.Mask), Mask: ipnet.Mask},
			HardwareAddr: iface.HardwareAddr,
		}, nil
	}

	return nil, &InterfaceError{Interface: name, Reason: "has no IPv4 address"}
}

// HostCount returns the number of candidate hosts in the subnet: every
// address except the network address, the broadcast address, and the
// interface's own address. Point-to-point masks (/31, /32) yield zero.
func (n *Network) HostCount() int {
	ones, bits := n.IPNet.Mask.Size()
	if bits-ones < 2 {
		return 0
	}
	// Total minus network, broadcast, and self.
	return (1 << (bits - ones)) - 3
}

// Hosts enumerates the candidate host addresses in the subnet, in
// ascending order, excluding the network address, the broadcast
// address, and the interface's own address. maxHosts caps the size of
// the candidate set; a value <= 0 applies DefaultMaxHosts. Subnets
// holding more candidates than the cap are refused with
// ErrTooManyHosts rather than truncated.
func (n *Network) Hosts(maxHosts int) ([]net.IP, error) {
	if maxHosts <= 0 {
		maxHosts = DefaultMaxHosts
	}

	count := n.HostCount()
	if count <= 0 {
		return nil, nil
	}
	if count > maxHosts {
		return nil, fmt.Errorf("%w: %s holds %d candidates (cap %d)",
			ErrTooManyHosts, n.IPNet, count, maxHosts)
	}

	network := n.IPNet.IP.To4()
	broadcast := broadcastAddr(n.IPNet)

	hosts := make([]net.IP, 0, count)
	cur := make(net.IP, len(network))
	copy(cur, network)
	for inc(cur); n.IPNet.Contains(cur) && !cur.Equal(broadcast); inc(cur) {
		if cur.Equal(n.IP) {
			continue
		}
		host := make(net.IP, len(cur))
		copy(host, cur)
		hosts = append(hosts, host)
	}
	return hosts, nil
}

// broadcastAddr computes the directed broadcast address of an IPv4 subnet.
func broadcastAddr(ipnet *net.IPNet) net.IP {
	ip := ipnet.IP.To4()
	mask := ipnet.Mask
	if len(mask) == net.IPv6len {
		mask = mask[12:]
	}
	broadcast := make(net.IP, len(ip))
	for i := range ip {
		broadcast[i] = ip[i] | ^mask[i]
	}
	return broadcast
}

func inc(ip net.IP) {
	for j := len(ip) - 1; j >= 0; j-- {
		ip[j]++
		if ip[j] > 0 {
			break
		}
	}
}
