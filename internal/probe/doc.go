// Package probe elicits hardware addresses from hosts on the local
// network segment.
//
// Two strategies are provided behind the Prober interface:
//
//   - ARP: sends ARP who-has requests through a packet capture handle
//     and matches captured replies to in-flight probes. Fast and exact,
//     but needs capture privileges (root or CAP_NET_RAW) and libpcap.
//
//   - Neighbor: sends each host a throwaway UDP datagram so the kernel
//     performs the ARP exchange itself, then reads the learned entry
//     from /proc/net/arp. No special privileges, Linux-only, slightly
//     slower since it polls the table.
//
// Open with KindAuto to get ARP when possible and the neighbor table
// otherwise. A host that stays silent yields ErrNoReply, which scans
// treat as an expected outcome rather than a failure.
package probe
