// Package config loads the optional per-user configuration file that
// supplies defaults for scanning and announcing.
//
// The file lives at the platform config dir (e.g.
// ~/.config/lanpin/config.yaml) and every field is optional: built-in
// defaults apply to whatever the file leaves out, and a missing file is
// not an error. Command-line flags override the file.
//
//	scan:
//	  max_hosts: 4096
//	  concurrency: 64
//	  probe_timeout_ms: 1000
//	  timeout_s: 30
//	  prober: auto
//	announce:
//	  service: _workstation._tcp
//	  port: 80
package config
