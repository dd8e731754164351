// Package announce publishes a name-to-address binding over multicast
// DNS so a device that cannot announce itself can still be reached as
// "<name>.local".
//
// The binding is a proxy record: the announced IPv4 address belongs to
// some other device on the segment, while this process runs the mDNS
// responder on its behalf. The record lives exactly as long as the
// process, and Shutdown is idempotent so a flurry of termination
// signals deregisters only once.
//
// # Usage Example
//
//	a, err := announce.New("MyTablet", "192.168.1.42")
//	if err != nil {
//	    // malformed name or address, nothing was registered
//	}
//
//	if err := a.Register(); err != nil {
//	    // name collision or responder failure
//	}
//	defer a.Shutdown()
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	<-ctx.Done() // blocks until signal, then the deferred Shutdown retracts
package announce
