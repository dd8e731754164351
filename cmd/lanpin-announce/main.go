// Lanpin-announce publishes a name for an IPv4 address over multicast
// DNS, so a device that cannot announce itself can be reached as
// "<name>.local" by everything else on the segment.
//
// The announcement lives exactly as long as the process: it is
// registered on startup and retracted on SIGINT/SIGTERM. Typical use is
// to feed it the address resolved by lanpin-find:
//
//	lanpin-announce --name MyTablet --ip "$(lanpin-find eth0 --mac aa:bb:cc:dd:ee:ff -q)"
//
// See 'lanpin-announce --help' for available options.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lanpin/lanpin/internal/announce"
	"github.com/lanpin/lanpin/internal/config"
	"github.com/lanpin/lanpin/internal/logging"
	"github.com/lanpin/lanpin/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var (
	announceName string
	announceIP   string
	ifaceName    string
	servicePort  int
	serviceType  string
	verify       bool
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "lanpin-announce",
	Short: "Announce a name for an IPv4 address via multicast DNS",
	Long: `Publish a name-to-address binding on the local network segment.

While the process runs, mDNS queries for "<name>.local" resolve to the
given IPv4 address. The address does not need to belong to this machine;
announcing on behalf of devices that cannot announce themselves (such as
tablets) is the intended use.

The binding is retracted when the process receives SIGINT or SIGTERM,
so other hosts never see a stale announcement after shutdown.`,
	Example: `  # Make 192.168.1.42 reachable as MyTablet.local
  lanpin-announce --name MyTablet --ip 192.168.1.42

  # Bind the responder to one interface and confirm visibility
  lanpin-announce --name MyTablet --ip 192.168.1.42 --interface eth0 --verify`,
	Version: version.Version,
	RunE:    runAnnounce,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.Flags().StringVar(&announceName, "name", "", "Name to announce (required, without \".local\")")
	rootCmd.Flags().StringVar(&announceIP, "ip", "", "IPv4 address the name resolves to (required)")
	rootCmd.Flags().StringVar(&ifaceName, "interface", "", "Bind the responder to one interface (default: all)")
	rootCmd.Flags().IntVar(&servicePort, "port", 0, "Port published in the service record (default 80)")
	rootCmd.Flags().StringVar(&serviceType, "service", "", "DNS-SD service type (default _workstation._tcp)")
	rootCmd.Flags().BoolVar(&verify, "verify", false, "Browse back after registering to confirm the record is visible")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Diagnostic log level (debug, info, warn, error; silent if unset)")

	_ = rootCmd.MarkFlagRequired("name")
	_ = rootCmd.MarkFlagRequired("ip")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("lanpin-announce %s\n", version.Full())
	},
}

func runAnnounce(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return err
	}
	defer logging.Sync()

	settings, err := config.LoadDefault()
	if err != nil {
		return err
	}

	// Validation happens here, before any registration attempt.
	a, err := announce.New(announceName, announceIP)
	if err != nil {
		return err
	}
	a.Interface = ifaceName
	a.Service = settings.Announce.Service
	a.Port = settings.Announce.Port
	if serviceType != "" {
		a.Service = serviceType
	}
	if servicePort > 0 {
		a.Port = servicePort
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Register(); err != nil {
		return err
	}
	// Retract on every exit path. Shutdown is idempotent, so the
	// explicit call after ctx.Done() and this deferred one cannot
	// double-deregister.
	defer a.Shutdown()

	if verify {
		if err := a.Verify(ctx, 10*time.Second); err != nil {
			return err
		}
	}

	fmt.Printf("Announcing %s.local -> %s. Press Ctrl+C to stop.\n", a.Name, a.IP)

	<-ctx.Done()

	fmt.Println("\nShutting down, retracting announcement...")
	a.Shutdown()
	return nil
}
