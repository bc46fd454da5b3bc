package network

import (
	"net"
	"strconv"

	"github.com/pkg/errors"
)

// NormalizeAddresses returns the given addresses normalized with
// defaultPort, in their original order and without duplicates
func NormalizeAddresses(addresses []string, defaultPort string) ([]string, error) {
	normalized := make([]string, 0, len(addresses))
	seen := make(map[string]struct{}, len(addresses))
	for _, address := range addresses {
		address, err := NormalizeAddress(address, defaultPort)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[address]; ok {
			continue
		}
		seen[address] = struct{}{}
		normalized = append(normalized, address)
	}
	return normalized, nil
}

// NormalizeAddress appends defaultPort to address if it has no port
func NormalizeAddress(address, defaultPort string) (string, error) {
	host, port, err := net.SplitHostPort(address)
	if err != nil {
		// A missing port is the only error SplitHostPort is expected to
		// return here, so the joined address has to split cleanly.
		host, port = address, defaultPort
		if _, _, err := net.SplitHostPort(net.JoinHostPort(host, port)); err != nil {
			return "", errors.Wrapf(err, "invalid address %s", address)
		}
	}
	if _, err := ParsePort(port, 0); err != nil {
		return "", errors.Wrapf(err, "invalid address %s", address)
	}
	return net.JoinHostPort(host, port), nil
}

// ParsePort parses port and makes sure it is in [minPort, 65535]
func ParsePort(port string, minPort int) (int, error) {
	parsed, err := strconv.Atoi(port)
	if err != nil {
		return 0, errors.Wrapf(err, "port %q is not a number", port)
	}
	if parsed < minPort || parsed > 65535 {
		return 0, errors.Errorf("port %d must be between %d and 65535", parsed, minPort)
	}
	return parsed, nil
}
