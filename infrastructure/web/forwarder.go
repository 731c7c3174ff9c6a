package web

import (
	"context"
	"fmt"
	"message-relay/contract"
	"message-relay/domain"
	"net"
)

var _ contract.Forwarder = RelayForwarder{}

// RelayForwarder opens a short-lived connection per body.
type RelayForwarder struct {
	address string
}

func NewRelayForwarder(address string) RelayForwarder {
	return RelayForwarder{address: address}
}

// Forward writes body as exactly one frame then closes the connection.
func (f RelayForwarder) Forward(ctx context.Context, body []byte) error {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", f.address)
	if err != nil {
		return fmt.Errorf("dial relay %s: %w", f.address, err)
	}
	defer func() { _ = conn.Close() }()

	frame := append(domain.EscapeLineBreaks(body), domain.FrameDelimiter)
	if _, err = conn.Write(frame); err != nil {
		return fmt.Errorf("write relay %s: %w", f.address, err)
	}
	return nil
}
