// Package scan drives concurrent probing of candidate hosts to resolve
// a hardware address to its live IPv4 address, or to sweep a subnet for
// every responding device.
//
// A bounded worker pool pulls candidates from a queue; each probe runs
// under its own deadline so total scan time tracks network round-trip
// latency rather than subnet size. Lookup stops at the first host that
// answers with the target address, cancelling the probes still in
// flight. A lookup that finds nothing returns a nil result — silence is
// the common case on a mostly-empty subnet and is not an error.
package scan
