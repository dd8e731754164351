// Package subnet resolves a local network interface to its IPv4
// configuration and enumerates the host addresses eligible for probing.
//
// The candidate set for an interface is every address inside its subnet
// except three: the network address, the directed broadcast address, and
// the interface's own address. Enumeration refuses subnets larger than a
// configurable cap so that a mistyped interface on a /8 does not turn a
// quick lookup into a sweep of sixteen million hosts.
//
// # Usage Example
//
//	network, err := subnet.Lookup("eth0")
//	if err != nil {
//	    var ifErr *subnet.InterfaceError
//	    if errors.As(err, &ifErr) {
//	        // interface absent, down, or without IPv4
//	    }
//	}
//
//	hosts, err := network.Hosts(subnet.DefaultMaxHosts)
package subnet
