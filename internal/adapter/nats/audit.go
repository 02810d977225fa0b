// Package nats implements the audit log port using NATS JetStream.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/taskhive/taskhive/internal/domain/audit"
	"github.com/taskhive/taskhive/internal/port/auditlog"
)

const streamName = "TASKHIVE_AUDIT"

// Sink publishes audit events to a JetStream stream so external
// consumers (SIEM, archival) can tail the trail without touching the
// database.
type Sink struct {
	nc *nats.Conn
	js jetstream.JetStream
}

var _ auditlog.Sink = (*Sink)(nil)

// Connect establishes a connection to NATS and ensures the audit stream
// exists.
func Connect(ctx context.Context, url string) (*Sink, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream init: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{"audit.>"},
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream stream create: %w", err)
	}

	slog.Info("nats connected", "url", url, "stream", streamName)
	return &Sink{nc: nc, js: js}, nil
}

// Record publishes one event to audit.<entity_type>. The caller treats
// failures as best effort; this method only reports them.
func (s *Sink) Record(ctx context.Context, ev audit.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	subject := "audit." + ev.EntityType
	if _, err := s.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("nats publish %s: %w", subject, err)
	}
	return nil
}

// Close shuts down the NATS connection.
func (s *Sink) Close() error {
	s.nc.Close()
	return nil
}
