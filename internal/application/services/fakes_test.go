package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/AtRiskMedia/praxis/internal/domain/demo"
	"github.com/AtRiskMedia/praxis/internal/domain/lead"
	"github.com/AtRiskMedia/praxis/internal/domain/user"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/caching/manager"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/performance"
)

type memLeadRepo struct {
	mu      sync.Mutex
	rows    []lead.Submission
	inserts int
	failErr error
	gate    chan struct{}
	entered chan struct{}
}

func (r *memLeadRepo) Insert(_ context.Context, s *lead.Submission) error {
	if r.entered != nil {
		r.entered <- struct{}{}
	}
	if r.gate != nil {
		<-r.gate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inserts++
	if r.failErr != nil {
		return r.failErr
	}
	s.ID = fmt.Sprintf("lead-%d", r.inserts)
	s.CreatedAt = time.Date(2024, 5, r.inserts, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
	r.rows = append(r.rows, *s)
	return nil
}

func (r *memLeadRepo) FindAll(context.Context) ([]lead.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return nil, r.failErr
	}
	return append([]lead.Submission(nil), r.rows...), nil
}

func (r *memLeadRepo) FindByID(_ context.Context, id string) (*lead.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == id {
			s := r.rows[i]
			return &s, nil
		}
	}
	return nil, lead.ErrNotFound
}

func (r *memLeadRepo) UpdateStatus(_ context.Context, id string, status lead.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows[i].Status = status
			return nil
		}
	}
	return lead.ErrNotFound
}

type memUserRepo struct {
	users map[string]*user.User
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	u, ok := r.users[user.NormalizeEmail(email)]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (r *memUserRepo) Store(_ context.Context, u *user.User) error {
	if _, ok := r.users[u.Email]; ok {
		return user.ErrEmailTaken
	}
	r.users[u.Email] = u
	return nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (n *recordingNotifier) NotifyNewLead(_ context.Context, s *lead.Submission) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, s.ID)
	return n.err
}

type recordingBroadcaster struct {
	mu      sync.Mutex
	created []string
	updated map[string]lead.Status
}

func (b *recordingBroadcaster) AddClient(string) chan []byte { return make(chan []byte) }
func (b *recordingBroadcaster) RemoveClient(chan []byte)     {}
func (b *recordingBroadcaster) ClientCount() int             { return 0 }

func (b *recordingBroadcaster) LeadCreated(s *lead.Submission) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.created = append(b.created, s.ID)
}

func (b *recordingBroadcaster) StatusUpdated(id string, status lead.Status) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.updated == nil {
		b.updated = map[string]lead.Status{}
	}
	b.updated[id] = status
}

var errBoom = errors.New("boom")

func testDeps(t *testing.T) (*logging.ChanneledLogger, *performance.Tracker, *manager.SessionManager) {
	t.Helper()
	logger := logging.NewDiscardLogger()
	tracker := performance.NewTracker(nil)
	sessions := manager.NewSessionManager(stores.NewMemoryProfilingStore(time.Hour, logger), time.Hour, 100, logger)
	return logger, tracker, sessions
}

func testCatalog() *demo.Catalog {
	fsys := fstest.MapFS{
		"document-intake.html": {Data: []byte("<div>intake</div>")},
	}
	return demo.NewCatalog(fsys, demo.Demo{Slug: "document-intake", Profession: "commercialisti", Fragment: "document-intake.html"})
}
