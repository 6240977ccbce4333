package gotables

import (
	"net/netip"
	"strings"
)

// SortIPAddress is the name of the IP address sort type.
const SortIPAddress = "ip-address"

// NewIPAddressComparator orders IPv4 and IPv6 addresses numerically. IPv4
// addresses sort before IPv6 ones, cells that are not addresses sort first.
func NewIPAddressComparator() *Comparator[netip.Addr] {
	return NewComparator(SortIPAddress, normalizeIPAddress, func(x, y netip.Addr) int {
		return x.Compare(y)
	})
}

func normalizeIPAddress(raw string) netip.Addr {
	addr, err := netip.ParseAddr(strings.TrimSpace(raw))
	if err != nil {
		return netip.Addr{}
	}

	return addr
}
