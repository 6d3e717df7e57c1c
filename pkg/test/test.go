// Package test provides helpers shared by server tests.
package test

import (
	"net"
	"sync"
)

var (
	portsMtx sync.Mutex
	ports    = map[int]struct{}{}
)

// RandomPort returns a free TCP port. Ports already handed out are skipped
// so parallel tests in one process don't collide.
func RandomPort() int {
	for {
		l, err := net.Listen("tcp", "localhost:0")
		if err != nil {
			continue
		}
		port := l.Addr().(*net.TCPAddr).Port
		_ = l.Close()

		portsMtx.Lock()
		if _, taken := ports[port]; !taken {
			ports[port] = struct{}{}
			portsMtx.Unlock()
			return port
		}
		portsMtx.Unlock()
	}
}
