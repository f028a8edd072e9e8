package printer

import (
	"context"
	"net"
	"time"
)

const defaultNetworkTimeout = 30 * time.Second

// Network sends raw jobs over a JetDirect-style TCP socket (usually port 9100).
// Each job uses its own connection.
type Network struct {
	Address string
	Timeout time.Duration
}

func (n *Network) Print(ctx context.Context, job Job) error {
	timeout := n.Timeout
	if timeout <= 0 {
		timeout = defaultNetworkTimeout
	}

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", n.Address)
	if err != nil {
		return deviceError(job, "dial "+n.Address, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return deviceError(job, "set deadline", err)
	}
	if _, err := conn.Write(job.Data); err != nil {
		return deviceError(job, "write "+n.Address, err)
	}
	if tcp, ok := conn.(*net.TCPConn); ok {
		_ = tcp.CloseWrite()
	}
	return nil
}

func (n *Network) Describe() string {
	return "network:" + n.Address
}
