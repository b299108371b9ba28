// Package platform provides the small host checks the surrounding
// application needs alongside memory detection: whether the host has a
// usable network interface, and an audible cue.
package platform

import (
	"io"
	"net"
	"os"
)

// interfaceLister enumerates network interfaces with their addresses.
type interfaceLister func() ([]netInterface, error)

type netInterface struct {
	flags net.Flags
	addrs []net.Addr
}

// HasNetworkConnectivity reports whether any interface is up, is not a
// loopback, and holds a routable unicast address. No traffic is sent.
func HasNetworkConnectivity() bool {
	return hasConnectivity(systemInterfaces)
}

func hasConnectivity(list interfaceLister) bool {
	ifaces, err := list()
	if err != nil {
		return false
	}
	for _, iface := range ifaces {
		if iface.flags&net.FlagUp == 0 || iface.flags&net.FlagLoopback != 0 {
			continue
		}
		for _, addr := range iface.addrs {
			if routable(addr) {
				return true
			}
		}
	}
	return false
}

func routable(addr net.Addr) bool {
	var ip net.IP
	switch a := addr.(type) {
	case *net.IPNet:
		ip = a.IP
	case *net.IPAddr:
		ip = a.IP
	default:
		return false
	}
	return ip.IsGlobalUnicast() && !ip.IsLinkLocalUnicast()
}

func systemInterfaces() ([]netInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	out := make([]netInterface, 0, len(ifaces))
	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		out = append(out, netInterface{flags: iface.Flags, addrs: addrs})
	}
	return out, nil
}

// Beep emits the terminal bell on stderr. Failures are ignored.
func Beep() {
	beep(os.Stderr)
}

func beep(w io.Writer) {
	_, _ = io.WriteString(w, "\a")
}
