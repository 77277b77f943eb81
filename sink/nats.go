package sink

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/c360studio/semstreams/natsclient"
	"github.com/nats-io/nats.go"

	"github.com/c360studio/aboxer/ontology"
)

// Headers set on every published axiom.
const (
	HeaderKind     = "Aboxer-Kind"
	HeaderSequence = "Aboxer-Seq"
	HeaderSource   = "Aboxer-Source"
	contentType    = "text/owl-functional"
)

// DefaultSubjectPrefix is used when no subject prefix is configured.
const DefaultSubjectPrefix = "aboxer.axiom"

// Publisher is the part of *nats.Conn used by NATSSink.
type Publisher interface {
	PublishMsg(m *nats.Msg) error
	Flush() error
}

// NATSSink publishes each axiom in functional syntax to
// <prefix>.<kind>, e.g. aboxer.axiom.class_assertion.
type NATSSink struct {
	pub    Publisher
	prefix string
	source string
	logger *slog.Logger
	seq    int
}

// NewNATSSink creates a NATSSink. source is attached to every message so
// consumers can tell conversions apart; it may be empty.
func NewNATSSink(pub Publisher, prefix, source string, logger *slog.Logger) *NATSSink {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NATSSink{
		pub:    pub,
		prefix: strings.TrimSuffix(prefix, "."),
		source: source,
		logger: logger,
	}
}

// Subject returns the subject ax is published on.
func (s *NATSSink) Subject(ax ontology.Axiom) string {
	return s.prefix + "." + string(ax.Kind())
}

// Accept publishes ax.
func (s *NATSSink) Accept(ax ontology.Axiom) error {
	s.seq++
	msg := nats.NewMsg(s.Subject(ax))
	msg.Data = []byte(ax.String())
	msg.Header.Set("Content-Type", contentType)
	msg.Header.Set(HeaderKind, string(ax.Kind()))
	msg.Header.Set(HeaderSequence, strconv.Itoa(s.seq))
	if s.source != "" {
		msg.Header.Set(HeaderSource, s.source)
	}
	if err := s.pub.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish to %s: %w", msg.Subject, err)
	}
	return nil
}

// Close flushes pending messages. The connection stays open.
func (s *NATSSink) Close() error {
	if err := s.pub.Flush(); err != nil {
		return fmt.Errorf("flush NATS connection: %w", err)
	}
	s.logger.Debug("Published axioms", slog.String("prefix", s.prefix), slog.Int("count", s.seq))
	return nil
}

// Published returns the number of published axioms.
func (s *NATSSink) Published() int { return s.seq }

// Connect creates a NATS client for url and waits until it is connected.
func Connect(ctx context.Context, url string, logger *slog.Logger) (*natsclient.Client, error) {
	logger.Info("Connecting to NATS", "url", url)

	client, err := natsclient.NewClient(url,
		natsclient.WithName("aboxer"),
		natsclient.WithMaxReconnects(5),
		natsclient.WithReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create NATS client: %w", err)
	}

	if err := client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect to NATS at %s: %w", url, err)
	}

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.WaitForConnection(connCtx); err != nil {
		client.Close(ctx)
		return nil, fmt.Errorf("connect to NATS at %s: %w", url, err)
	}

	logger.Info("Connected to NATS", "url", url)
	return client, nil
}
