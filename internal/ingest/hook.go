package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"

	mqtt "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/packets"

	"github.com/feedgate/feedgate/internal/auth"
	"github.com/feedgate/feedgate/internal/feed"
	"github.com/feedgate/feedgate/internal/infrastructure/logging"
)

// TopicChannel is the only topic devices may publish to.
const TopicChannel = "channel"

// Ingestor is the slice of the feed service the broker needs.
type Ingestor interface {
	Ingest(ctx context.Context, identity auth.Identity, p *feed.Payload) error
}

// hook authenticates sessions and routes published readings into the
// feed service.
//
// Thread Safety:
//   - The broker invokes hook methods from multiple goroutines; the
//     session map is guarded by its own mutex.
type hook struct {
	mqtt.HookBase

	verifier *auth.Verifier
	feeds    Ingestor
	logger   *logging.Logger

	// sessions binds each connected client to the identity its token
	// carried at CONNECT time.
	mu       sync.RWMutex
	sessions map[string]auth.Identity
}

func newHook(verifier *auth.Verifier, feeds Ingestor, logger *logging.Logger) *hook {
	return &hook{
		verifier: verifier,
		feeds:    feeds,
		logger:   logger,
		sessions: make(map[string]auth.Identity),
	}
}

// ID returns the hook identifier.
func (h *hook) ID() string {
	return "feedgate-ingest"
}

// Provides declares which broker events this hook handles.
func (h *hook) Provides(b byte) bool {
	return bytes.Contains([]byte{
		mqtt.OnConnectAuthenticate,
		mqtt.OnACLCheck,
		mqtt.OnPublish,
		mqtt.OnDisconnect,
	}, []byte{b})
}

// OnConnectAuthenticate verifies the MQTT username as a bearer token.
// A valid token binds the caller's identity to the session.
func (h *hook) OnConnectAuthenticate(cl *mqtt.Client, pk packets.Packet) bool {
	identity, err := h.verifier.Verify(string(pk.Connect.Username))
	if err != nil {
		h.logger.Warn("mqtt connect rejected",
			"client_id", cl.ID,
			"error", err,
		)
		return false
	}

	h.mu.Lock()
	h.sessions[cl.ID] = identity
	h.mu.Unlock()

	h.logger.Debug("mqtt client authenticated",
		"client_id", cl.ID,
		"user_id", identity.UserID,
	)
	return true
}

// OnACLCheck permits publishing to the ingestion topic only. All
// subscriptions are denied; devices write, they never read.
func (h *hook) OnACLCheck(_ *mqtt.Client, topic string, write bool) bool {
	return write && topic == TopicChannel
}

// OnPublish decodes a reading and hands it to the feed service. There
// is no response channel on this transport, so failures are logged and
// the message is dropped without closing the session.
func (h *hook) OnPublish(cl *mqtt.Client, pk packets.Packet) (packets.Packet, error) {
	if pk.TopicName != TopicChannel {
		return pk, nil
	}

	h.mu.RLock()
	identity, ok := h.sessions[cl.ID]
	h.mu.RUnlock()
	if !ok {
		h.logger.Warn("mqtt publish without session identity", "client_id", cl.ID)
		return pk, nil
	}

	var p feed.Payload
	if err := json.Unmarshal(pk.Payload, &p); err != nil {
		h.logger.Warn("mqtt payload decode failed",
			"client_id", cl.ID,
			"error", err,
		)
		return pk, nil
	}

	if err := h.feeds.Ingest(context.Background(), identity, &p); err != nil {
		h.logger.Warn("mqtt reading rejected",
			"client_id", cl.ID,
			"node_id", p.NodeID,
			"error", err,
		)
		return pk, nil
	}

	return pk, nil
}

// OnDisconnect releases the session's identity binding.
func (h *hook) OnDisconnect(cl *mqtt.Client, _ error, _ bool) {
	h.mu.Lock()
	delete(h.sessions, cl.ID)
	h.mu.Unlock()
}
