package probe

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleTable = `IP address       HW type     Flags       HW address            Mask     Device
192.168.1.1      0x1         0x2         a4:2b:b0:c1:d2:e3     *        eth0
192.168.1.42     0x1         0x2         AA:BB:CC:DD:EE:FF     *        eth0
192.168.1.99     0x1         0x0         00:00:00:00:00:00     *        eth0
192.168.1.50     0x1         0x2         11:22:33:44:55:66     *        wlan0
`

func TestParseNeighborTable(t *testing.T) {
	tests := []struct {
		name   string
		ip     string
		device string
		want   string
		wantOK bool
	}{
		{
			name:   "complete entry on matching device",
			ip:     "192.168.1.1",
			device: "eth0",
			want:   "a4:2b:b0:c1:d2:e3",
			wantOK: true,
		},
		{
			name:   "uppercase table entry",
			ip:     "192.168.1.42",
			device: "eth0",
			want:   "aa:bb:cc:dd:ee:ff",
			wantOK: true,
		},
		{
			name:   "incomplete entry is skipped",
			ip:     "192.168.1.99",
			device: "eth0",
			wantOK: false,
		},
		{
			name:   "wrong device is skipped",
			ip:     "192.168.1.50",
			device: "eth0",
			wantOK: false,
		},
		{
			name:   "empty device matches any",
			ip:     "192.168.1.50",
			device: "",
			want:   "11:22:33:44:55:66",
			wantOK: true,
		},
		{
			name:   "unknown address",
			ip:     "192.168.1.200",
			device: "eth0",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hw, ok := parseNeighborTable(strings.NewReader(sampleTable), tt.ip, tt.device)
			if ok != tt.wantOK {
				t.Fatalf("parseNeighborTable() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && hw.String() != tt.want {
				t.Errorf("parseNeighborTable() = %s, want %s", hw, tt.want)
			}
		})
	}
}

func TestParseNeighborTable_Empty(t *testing.T) {
	if _, ok := parseNeighborTable(strings.NewReader(""), "192.168.1.1", "eth0"); ok {
		t.Error("parseNeighborTable() on empty input reported a match")
	}
}

func TestNeighbor_Probe_ReadsTableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arp")
	if err := os.WriteFile(path, []byte(sampleTable), 0o644); err != nil {
		t.Fatal(err)
	}

	p := &Neighbor{
		Interface:    "eth0",
		TablePath:    path,
		PollInterval: 10 * time.Millisecond,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// The UDP touch will fail silently in the test environment; the
	// table already holds the entry so the first poll finds it.
	hw, err := p.Probe(ctx, net.ParseIP("192.168.1.1"))
	if err != nil {
		t.Fatalf("Probe() returned error: %v", err)
	}
	if hw.String() != "a4:2b:b0:c1:d2:e3" {
		t.Errorf("Probe() = %s, want a4:2b:b0:c1:d2:e3", hw)
	}
}

func TestNeighbor_Probe_NoReply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arp")
	if err := os.WriteFile(path, []byte(sampleTable), 0o644); err != nil {
		t.Fatal(err)
	}

	p := &Neighbor{
		Interface:    "eth0",
		TablePath:    path,
		PollInterval: 10 * time.Millisecond,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := p.Probe(ctx, net.ParseIP("192.168.1.200")); err != ErrNoReply {
		t.Errorf("Probe() error = %v, want ErrNoReply", err)
	}
}
