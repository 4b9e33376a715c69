package model

import (
	"context"
	"net"
)

// SecurityLayer decides how the server's listener is opened: TLS-terminating
// or plain TCP.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is a transport server lifecycle: Start blocks until the server
// stops serving, Stop shuts it down gracefully.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}
