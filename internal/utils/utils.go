package utils

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/barryq93/promPGRestore/internal/types"
	"github.com/sirupsen/logrus"
)

func SetLogLevel(logger *logrus.Logger, level string) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		logger.SetLevel(logrus.DebugLevel)
	case "INFO":
		logger.SetLevel(logrus.InfoLevel)
	case "WARN":
		logger.SetLevel(logrus.WarnLevel)
	case "ERROR":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}
}

// Resolver is satisfied by *net.Resolver.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

var osHostname = os.Hostname

func Hostname() (string, error) {
	name, err := osHostname()
	if err != nil {
		return "", fmt.Errorf("%w: cannot return hostname of the server: %v", types.ErrResolution, err)
	}
	return name, nil
}

// IPv4Address returns the first IPv4 address host resolves to.
func IPv4Address(ctx context.Context, r Resolver, host string) (string, error) {
	addrs, err := r.LookupIPAddr(ctx, host)
	if err != nil {
		return "", fmt.Errorf("%w: cannot resolve %s: %v", types.ErrResolution, host, err)
	}
	for _, addr := range addrs {
		if ip4 := addr.IP.To4(); ip4 != nil {
			return ip4.String(), nil
		}
	}
	return "", fmt.Errorf("%w: no IPv4 address for %s", types.ErrResolution, host)
}

func ResolveHostIdentity(ctx context.Context, r Resolver) (types.HostIdentity, error) {
	name, err := Hostname()
	if err != nil {
		return types.HostIdentity{}, err
	}
	ip, err := IPv4Address(ctx, r, name)
	if err != nil {
		return types.HostIdentity{}, err
	}
	return types.HostIdentity{Hostname: name, IP: ip}, nil
}
