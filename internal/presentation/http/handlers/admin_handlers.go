package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/AtRiskMedia/praxis/internal/application/services"
	"github.com/AtRiskMedia/praxis/internal/domain/lead"
	"github.com/AtRiskMedia/praxis/internal/domain/leadview"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/metrics"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/praxis/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	feedWriteWait  = 10 * time.Second
	feedPongWait   = 60 * time.Second
	feedPingPeriod = (feedPongWait * 9) / 10
)

// AdminHandlers serves lead triage for allow-listed admins
type AdminHandlers struct {
	adminService *services.AdminService
	broadcaster  messaging.Broadcaster
	logger       *logging.ChanneledLogger
	upgrader     websocket.Upgrader
}

// NewAdminHandlers creates admin handlers with injected dependencies
func NewAdminHandlers(adminService *services.AdminService, broadcaster messaging.Broadcaster, logger *logging.ChanneledLogger) *AdminHandlers {
	return &AdminHandlers{
		adminService: adminService,
		broadcaster:  broadcaster,
		logger:       logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// viewFromQuery reads q, status, profession, sort and dir.
func viewFromQuery(c *gin.Context) (leadview.Query, leadview.SortState) {
	var q leadview.Query
	_ = c.ShouldBindQuery(&q)
	return q, leadview.NewSortState(c.Query("sort"), c.Query("dir"))
}

// sortLinks holds, per sort key, the dashboard URL selecting that key from the
// current state.
func sortLinks(q leadview.Query, st leadview.SortState) map[string]string {
	out := make(map[string]string, 4)
	for _, key := range []leadview.SortKey{leadview.SortByName, leadview.SortByProfession, leadview.SortBySavings, leadview.SortByDate} {
		next := st.Select(key)
		v := url.Values{}
		if q.Text != "" {
			v.Set("q", q.Text)
		}
		if q.Status != "" {
			v.Set("status", q.Status)
		}
		if q.Profession != "" {
			v.Set("profession", q.Profession)
		}
		v.Set("sort", string(next.Key))
		v.Set("dir", string(next.Dir))
		out[string(key)] = "/admin?" + v.Encode()
	}
	return out
}

// GetSubmissions handles GET /api/v1/admin/submissions
func (h *AdminHandlers) GetSubmissions(c *gin.Context) {
	q, st := viewFromQuery(c)
	dash, err := h.adminService.Submissions(c.Request.Context(), q, st)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dash)
}

// GetStats handles GET /api/v1/admin/stats
func (h *AdminHandlers) GetStats(c *gin.Context) {
	stats, err := h.adminService.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

type statusRequest struct {
	Status string `json:"status" form:"status"`
}

// PutStatus handles PUT /api/v1/admin/submissions/:id/status
func (h *AdminHandlers) PutStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	id := c.Param("id")
	admin := middleware.CurrentUser(c)
	status, err := h.adminService.UpdateStatus(c.Request.Context(), admin.Email, id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, lead.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, lead.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": status})
}

// GetFeed handles GET /api/v1/admin/feed, upgrading to a websocket that
// receives lead_created and status_updated events.
func (h *AdminHandlers) GetFeed(c *gin.Context) {
	admin := middleware.CurrentUser(c)
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Realtime().Warn("Feed upgrade failed", "error", err.Error())
		return
	}

	send := h.broadcaster.AddClient(admin.Email)
	metrics.FeedClients.Inc()
	defer metrics.FeedClients.Dec()

	done := make(chan struct{})
	go h.readPump(conn, done)
	h.writePump(conn, send, done)

	h.broadcaster.RemoveClient(send)
	_ = conn.Close()
}

// readPump discards client messages and closes done when the peer goes away.
func (h *AdminHandlers) readPump(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(feedPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(feedPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *AdminHandlers) writePump(conn *websocket.Conn, send chan []byte, done chan struct{}) {
	ticker := time.NewTicker(feedPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
