package dns

import (
	"errors"
	"net"
	"strconv"
)

// HostnameToIp resolves a hostname to its first IPv4 address.
func HostnameToIp(hostname string) (net.IP, error) {
	ips, err := net.LookupIP(hostname)
	if err != nil {
		return nil, err
	}
	for _, ip := range ips {
		if ip.To4() != nil {
			return ip, nil
		}
	}
	return nil, errors.New("no IPv4 address found")
}

// AdvertiseAddress returns host:port under which this instance is reachable,
// falling back to the hostname itself when it does not resolve.
func AdvertiseAddress(hostname string, port int) string {
	host := hostname
	if ip, err := HostnameToIp(hostname); err == nil {
		host = ip.String()
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}
