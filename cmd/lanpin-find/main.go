// Lanpin-find resolves a hardware address to its live IPv4 address on a
// local network segment.
//
// It enumerates the candidate hosts of an interface's subnet, probes
// them concurrently for link-layer ownership, and prints the address of
// the first host that answers with the target hardware address. Without
// a target it sweeps the subnet and lists every responding device.
//
// Usage:
//
//	lanpin-find <interface> [flags]
//
// The quiet flag reduces output to the bare resolved address so the
// tool can feed scripts (typically a subsequent lanpin-announce run).
// See 'lanpin-find --help' for available options.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lanpin/lanpin/internal/config"
	"github.com/lanpin/lanpin/internal/hwaddr"
	"github.com/lanpin/lanpin/internal/logging"
	"github.com/lanpin/lanpin/internal/probe"
	"github.com/lanpin/lanpin/internal/scan"
	"github.com/lanpin/lanpin/internal/subnet"
	"github.com/lanpin/lanpin/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var (
	targetMAC    string
	quiet        bool
	maxHosts     int
	concurrency  int
	probeTimeout int
	scanTimeout  int
	proberKind   string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "lanpin-find <interface>",
	Short: "Resolve a hardware address to an IPv4 address on the local network",
	Long: `Resolve a hardware (MAC) address to the IPv4 address currently bound
to it on a local network segment.

The tool probes every candidate host in the interface's subnet and
returns the first one that answers with the target hardware address.
Without --mac it lists all responding devices instead.

A completed run exits 0 whether or not the address was found; only
interface and configuration problems exit non-zero, so shell drivers
can distinguish "nothing there" from "scan could not run".`,
	Example: `  # Find the device holding aa:bb:cc:dd:ee:ff on eth0
  lanpin-find eth0 --mac aa:bb:cc:dd:ee:ff

  # Script-friendly: print only the address, or nothing
  IP=$(lanpin-find eth0 --mac aa:bb:cc:dd:ee:ff --quiet)

  # List every responding device on wlan0
  lanpin-find wlan0

  # Slow network: widen the per-host reply window
  lanpin-find eth0 --mac aa:bb:cc:dd:ee:ff --probe-timeout 3000`,
	Args:    cobra.ExactArgs(1),
	Version: version.Version,
	RunE:    runFind,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.Flags().StringVar(&targetMAC, "mac", "", "Hardware address to search for (omit to list all devices)")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Print only resolved addresses")
	rootCmd.Flags().IntVar(&maxHosts, "max-hosts", 0, "Refuse subnets with more candidate hosts than this (default 4096)")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", 0, "Number of parallel probes (default 64)")
	rootCmd.Flags().IntVar(&probeTimeout, "probe-timeout", 0, "Per-host reply timeout in milliseconds (default 1000)")
	rootCmd.Flags().IntVar(&scanTimeout, "timeout", 0, "Overall scan timeout in seconds (default 30)")
	rootCmd.Flags().StringVar(&proberKind, "prober", "", "Probing strategy: auto, arp or neighbor (default auto)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Diagnostic log level (debug, info, warn, error; silent if unset)")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("lanpin-find %s\n", version.Full())
	},
}

func runFind(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return err
	}
	defer logging.Sync()

	settings, err := config.LoadDefault()
	if err != nil {
		return err
	}
	applyScanFlags(settings)

	ifaceName := args[0]
	network, err := subnet.Lookup(ifaceName)
	if err != nil {
		return err
	}

	candidates, err := network.Hosts(settings.Scan.MaxHosts)
	if err != nil {
		return err
	}
	logging.LogScanStart(ifaceName, network.IPNet, len(candidates), settings.Scan.Concurrency)

	prober, err := probe.Open(network, probe.Kind(settings.Scan.Prober))
	if err != nil {
		return err
	}
	defer prober.Close()

	scanner := &scan.Scanner{
		Prober:       prober,
		Concurrency:  settings.Scan.Concurrency,
		ProbeTimeout: time.Duration(settings.Scan.ProbeTimeoutMS) * time.Millisecond,
		Timeout:      time.Duration(settings.Scan.TimeoutS) * time.Second,
	}

	if targetMAC != "" {
		return runLookup(cmd.Context(), scanner, candidates, network)
	}
	return runSweep(cmd.Context(), scanner, candidates, network)
}

// runLookup resolves the target hardware address to an IP address.
func runLookup(ctx context.Context, scanner *scan.Scanner, candidates []net.IP, network *subnet.Network) error {
	target, err := hwaddr.Parse(targetMAC)
	if err != nil {
		return err
	}

	if !quiet {
		fmt.Printf("Searching %s (%s) for %s...\n", network.Interface, network.IPNet, target)
	}

	result, err := scanner.Lookup(ctx, candidates, target)
	if err != nil {
		return err
	}

	if result == nil {
		// Not found is a completed run, not a failure.
		if !quiet {
			fmt.Printf("No device with hardware address %s on %s\n", target, network.Interface)
		}
		return nil
	}

	logging.LogMatch(result.IP.String(), result.HardwareAddr.String())
	if quiet {
		fmt.Println(result.IP)
	} else {
		fmt.Printf("Device found with hardware address %s: %s\n", result.HardwareAddr, result.IP)
	}
	return nil
}

// runSweep lists every device that answered a probe.
func runSweep(ctx context.Context, scanner *scan.Scanner, candidates []net.IP, network *subnet.Network) error {
	if !quiet {
		fmt.Printf("Scanning %s (%s), %d candidate hosts...\n", network.Interface, network.IPNet, len(candidates))
	}

	hosts, err := scanner.Sweep(ctx, candidates)
	if err != nil {
		return err
	}

	if quiet {
		for _, h := range hosts {
			fmt.Println(h.IP)
		}
		return nil
	}

	if len(hosts) == 0 {
		fmt.Printf("No devices responded on %s\n", network.Interface)
		return nil
	}

	fmt.Printf("\nFound %d active device(s) on %s:\n", len(hosts), network.Interface)
	for _, h := range hosts {
		fmt.Printf("  %-15s  %s\n", h.IP, h.HardwareAddr)
	}
	return nil
}

// applyScanFlags overlays command-line flags onto the file-based settings.
func applyScanFlags(settings *config.Settings) {
	if maxHosts > 0 {
		settings.Scan.MaxHosts = maxHosts
	}
	if concurrency > 0 {
		settings.Scan.Concurrency = concurrency
	}
	if probeTimeout > 0 {
		settings.Scan.ProbeTimeoutMS = probeTimeout
	}
	if scanTimeout > 0 {
		settings.Scan.TimeoutS = scanTimeout
	}
	if proberKind != "" {
		settings.Scan.Prober = proberKind
	}
}
