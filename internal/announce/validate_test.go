package announce

import (
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "MyDevice", false},
		{"with digits", "tablet42", false},
		{"interior hyphen", "my-device", false},
		{"single character", "a", false},
		{"max length", strings.Repeat("a", 63), false},
		{"empty", "", true},
		{"embedded space", "My Device", true},
		{"leading hyphen", "-device", true},
		{"trailing hyphen", "device-", true},
		{"dot", "my.device", true},
		{"underscore", "my_device", true},
		{"too long", strings.Repeat("a", 64), true},
		{"unicode", "gerät", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateIPv4(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "192.168.1.42", false},
		{"loopback", "127.0.0.1", false},
		{"empty", "", true},
		{"hostname", "mydevice.local", true},
		{"ipv6", "fe80::1", true},
		{"out of range octet", "192.168.1.256", true},
		{"garbage", "not-an-ip", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIPv4(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIPv4(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestNew_RejectsBeforeRegistration(t *testing.T) {
	if _, err := New("bad name", "192.168.1.42"); err == nil {
		t.Error("New() with invalid name did not return error")
	}
	if _, err := New("gooddevice", "999.1.1.1"); err == nil {
		t.Error("New() with invalid IP did not return error")
	}

	a, err := New("gooddevice", "192.168.1.42")
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	if a.Service != DefaultService || a.Domain != DefaultDomain || a.Port != DefaultPort {
		t.Errorf("New() defaults = %q %q %d", a.Service, a.Domain, a.Port)
	}
}

func TestArgumentError_Error(t *testing.T) {
	e := &ArgumentError{Field: "name", Value: "My Device", Reason: "must contain only letters, digits and interior hyphens"}
	got := e.Error()
	if !strings.Contains(got, "name") || !strings.Contains(got, "My Device") {
		t.Errorf("Error() = %q, want field and value in message", got)
	}
}

func TestAnnouncer_ShutdownWithoutRegister(t *testing.T) {
	a, err := New("gooddevice", "192.168.1.42")
	if err != nil {
		t.Fatal(err)
	}
	// Shutdown before Register must be a no-op, and repeated calls
	// must not panic.
	a.Shutdown()
	a.Shutdown()
}
