package announce

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/lanpin/lanpin/internal/logging"
)

const (
	// DefaultService is the DNS-SD service type the binding is
	// published under. Workstation records show up in most network
	// browsers without extra configuration.
	DefaultService = "_workstation._tcp"

	// DefaultDomain is the mDNS domain (always "local." in practice).
	DefaultDomain = "local."

	// DefaultPort is published in the SRV record. The announced device
	// need not listen on it; name resolution only uses the A record.
	DefaultPort = 80
)

// Announcer publishes a (name, IPv4) binding on the local segment so
// that "<name>.local" resolves to the address for as long as the
// process runs. Exactly one binding is live per Announcer.
type Announcer struct {
	// Name is the hostname label to announce (without ".local").
	Name string

	// IP is the IPv4 address the name resolves to. It does not have to
	// belong to this machine; announcing on behalf of mute devices is
	// the whole point.
	IP string

	// Service, Domain and Port shape the DNS-SD record. Zero values
	// take the package defaults.
	Service string
	Domain  string
	Port    int

	// Interface optionally restricts the responder to one interface.
	// Empty announces on all multicast-capable interfaces.
	Interface string

	server       *zeroconf.Server
	shutdownOnce sync.Once
}

// New validates name and ip and returns an Announcer for them. Invalid
// input fails here, before anything touches the network.
func New(name, ip string) (*Announcer, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := ValidateIPv4(ip); err != nil {
		return nil, err
	}
	return &Announcer{
		Name:    name,
		IP:      ip,
		Service: DefaultService,
		Domain:  DefaultDomain,
		Port:    DefaultPort,
	}, nil
}

// Register publishes the binding. The responder answers queries in the
// background until Shutdown is called.
func (a *Announcer) Register() error {
	var ifaces []net.Interface
	if a.Interface != "" {
		iface, err := net.InterfaceByName(a.Interface)
		if err != nil {
			return &ArgumentError{Field: "interface", Value: a.Interface, Reason: "not found"}
		}
		ifaces = []net.Interface{*iface}
	}

	server, err := zeroconf.RegisterProxy(
		a.Name,
		a.service(),
		a.domain(),
		a.port(),
		a.Name, // host: makes "<name>.local" resolve to the announced IP
		[]string{a.IP},
		[]string{"description=announced by lanpin"},
		ifaces,
	)
	if err != nil {
		return fmt.Errorf("register %s.%s -> %s: %w", a.Name, a.domain(), a.IP, err)
	}
	a.server = server

	logging.Info("Announcement registered",
		zap.String("name", a.Name),
		zap.String("ip", a.IP),
		zap.String("service", a.service()),
	)
	return nil
}

// Shutdown retracts the binding. Safe to call from multiple shutdown
// paths; only the first call deregisters.
func (a *Announcer) Shutdown() {
	a.shutdownOnce.Do(func() {
		if a.server == nil {
			return
		}
		a.server.Shutdown()
		logging.Info("Announcement retracted",
			zap.String("name", a.Name),
			zap.String("ip", a.IP),
		)
	})
}

// Verify browses the local segment for the freshly registered instance
// and reports whether it is visible. Useful right after Register to
// catch responders that silently failed to claim the name.
func (a *Announcer) Verify(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	seen := make(chan struct{}, 1)

	go func() {
		for entry := range entries {
			if entry.Instance == a.Name {
				select {
				case seen <- struct{}{}:
				default:
				}
				cancel()
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, a.service(), a.domain(), entries); err != nil {
		return fmt.Errorf("browse for %s: %w", a.service(), err)
	}

	select {
	case <-seen:
		return nil
	case <-ctx.Done():
		select {
		case <-seen:
			return nil
		default:
		}
		return fmt.Errorf("announcement for %q not visible within %s", a.Name, timeout)
	}
}

func (a *Announcer) service() string {
	if a.Service == "" {
		return DefaultService
	}
	return a.Service
}

func (a *Announcer) domain() string {
	if a.Domain == "" {
		return DefaultDomain
	}
	return a.Domain
}

func (a *Announcer) port() int {
	if a.Port <= 0 {
		return DefaultPort
	}
	return a.Port
}
