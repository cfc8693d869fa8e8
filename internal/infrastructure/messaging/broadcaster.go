// Package messaging fans new-lead events out to connected admin dashboards.
package messaging

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/AtRiskMedia/praxis/internal/domain/lead"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/logging"
)

// Event types sent on the admin feed.
const (
	EventLeadCreated   = "lead_created"
	EventStatusUpdated = "status_updated"
)

// FeedEvent is one message on the admin feed.
type FeedEvent struct {
	Type       string           `json:"type"`
	Submission *lead.Submission `json:"submission,omitempty"`
	ID         string           `json:"id,omitempty"`
	Status     lead.Status      `json:"status,omitempty"`
	At         time.Time        `json:"at"`
}

// Broadcaster is the feed as seen by services and handlers.
type Broadcaster interface {
	AddClient(adminEmail string) chan []byte
	RemoveClient(ch chan []byte)
	LeadCreated(s *lead.Submission)
	StatusUpdated(id string, status lead.Status)
	ClientCount() int
}

// LeadBroadcaster manages admin feed subscribers. Slow clients drop messages
// rather than block the sender.
type LeadBroadcaster struct {
	clients map[chan []byte]string
	mu      sync.Mutex
	logger  *logging.ChanneledLogger
	buffer  int
}

// NewLeadBroadcaster creates a broadcaster whose client channels hold buffer messages.
func NewLeadBroadcaster(logger *logging.ChanneledLogger, buffer int) *LeadBroadcaster {
	if buffer <= 0 {
		buffer = 16
	}
	return &LeadBroadcaster{
		clients: make(map[chan []byte]string),
		logger:  logger,
		buffer:  buffer,
	}
}

// AddClient registers a new feed client.
func (b *LeadBroadcaster) AddClient(adminEmail string) chan []byte {
	ch := make(chan []byte, b.buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients[ch] = adminEmail

	b.logger.Realtime().Debug("Feed client registered", "admin", logging.MaskEmail(adminEmail), "clients", len(b.clients))
	return ch
}

// RemoveClient unregisters and closes ch. Removing twice is safe.
func (b *LeadBroadcaster) RemoveClient(ch chan []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	admin, ok := b.clients[ch]
	if !ok {
		return
	}
	delete(b.clients, ch)
	close(ch)
	b.logger.Realtime().Debug("Feed client unregistered", "admin", logging.MaskEmail(admin), "clients", len(b.clients))
}

// ClientCount returns the number of connected clients.
func (b *LeadBroadcaster) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// LeadCreated announces a stored submission.
func (b *LeadBroadcaster) LeadCreated(s *lead.Submission) {
	b.broadcast(FeedEvent{Type: EventLeadCreated, Submission: s, ID: s.ID, At: time.Now().UTC()})
}

// StatusUpdated announces a status change.
func (b *LeadBroadcaster) StatusUpdated(id string, status lead.Status) {
	b.broadcast(FeedEvent{Type: EventStatusUpdated, ID: id, Status: status, At: time.Now().UTC()})
}

func (b *LeadBroadcaster) broadcast(ev FeedEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Realtime().Error("Panic recovered in broadcast", "error", r, "type", ev.Type)
		}
	}()

	payload, err := json.Marshal(ev)
	if err != nil {
		b.logger.Realtime().Error("Failed to encode feed event", "error", err.Error(), "type", ev.Type)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for ch, admin := range b.clients {
		select {
		case ch <- payload:
		default:
			b.logger.Realtime().Warn("Feed channel full, message dropped", "admin", logging.MaskEmail(admin), "type", ev.Type)
		}
	}
}

var _ Broadcaster = (*LeadBroadcaster)(nil)
