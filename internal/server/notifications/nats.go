package notifications

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
)

// NATSSink publishes JSON-encoded events to "<prefix>.<topic>".
type NATSSink struct {
	nc     *nats.Conn
	prefix string
}

func NewNATSSink(nc *nats.Conn, prefix string) *NATSSink {
	return &NATSSink{nc: nc, prefix: prefix}
}

// Publish marshals the payload and hands it to NATS. nats.Conn.Publish only
// enqueues to the flusher, so this does not wait on the wire; the context is
// checked up front because the NATS API itself takes none.
func (s *NATSSink) Publish(ctx context.Context, topic string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	subject := topic
	if s.prefix != "" {
		subject = s.prefix + "." + topic
	}

	return s.nc.Publish(subject, data)
}
