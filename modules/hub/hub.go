package hub

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// 이벤트 타입
const (
	EventSession = "session" // 연결 직후 세션 ID 안내
	EventState   = "state"   // 상태 기계 전이
	EventResult  = "result"  // 뽑기 완료
	EventError   = "error"   // 뽑기 실패
)

// Event - 클라이언트로 보내는 메시지
type Event struct {
	Type         string      `json:"type"`
	SessionID    string      `json:"sessionId"`
	JobID        string      `json:"jobId,omitempty"`
	State        string      `json:"state,omitempty"`
	Busy         bool        `json:"busy,omitempty"`
	Result       interface{} `json:"result,omitempty"`
	ErrorKind    string      `json:"errorKind,omitempty"`
	ErrorMessage string      `json:"errorMessage,omitempty"`
	RawResponse  string      `json:"rawResponse,omitempty"`
}

// 연결된 클라이언트 정보
type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// 세션 - 같은 세션 ID를 구독하는 브라우저 탭들
type session struct {
	id           string
	clients      map[string]*client
	createdAt    time.Time
	lastActivity time.Time
}

// Metrics - 허브 상태
type Metrics struct {
	TotalSessions    int       `json:"totalSessions"`
	ActiveSessions   int       `json:"activeSessions"`
	TotalConnections int       `json:"totalConnections"`
	CurrentClients   int       `json:"currentClients"`
	StartTime        time.Time `json:"startTime"`
	Uptime           string    `json:"uptime"`
}

// Hub - 세션별 진행 이벤트 브로드캐스트
// 진행 상황만 전달하며 아무것도 저장하지 않는다
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*session
	metrics  Metrics
	upgrader websocket.Upgrader
}

// New - Hub 생성
func New() *Hub {
	return &Hub{
		sessions: make(map[string]*session),
		metrics:  Metrics{StartTime: time.Now()},
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// 같은 서버가 화면과 웹소켓을 모두 제공하므로 origin 제한 없음
				return true
			},
		},
	}
}

// ServeWS - GET /ws?session=<id>
// session이 없으면 새로 발급해서 첫 메시지로 알려준다
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ [Hub] WebSocket upgrade failed: %v", err)
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, 64),
	}
	h.addClient(sessionID, c)

	if msg, err := json.Marshal(Event{Type: EventSession, SessionID: sessionID}); err == nil {
		c.send <- msg
	}

	go h.writePump(c)
	go h.readPump(sessionID, c)
}

// Broadcast - 세션의 모든 클라이언트에게 전송, 전달한 클라이언트 수 반환
// 버퍼가 가득 찬 느린 클라이언트는 끊는다
func (h *Hub) Broadcast(sessionID string, ev Event) int {
	ev.SessionID = sessionID
	msg, err := json.Marshal(ev)
	if err != nil {
		log.Printf("❌ [Hub] Error marshaling event: %v", err)
		return 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[sessionID]
	if !ok {
		return 0
	}

	delivered := 0
	for id, c := range s.clients {
		select {
		case c.send <- msg:
			delivered++
		default:
			log.Printf("⚠️ [Hub] Dropping slow client %s in session %s", id, sessionID)
			h.removeLocked(s, c)
		}
	}
	s.lastActivity = time.Now()
	return delivered
}

// ClientCount - 세션에 연결된 클라이언트 수
func (h *Hub) ClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if s, ok := h.sessions[sessionID]; ok {
		return len(s.clients)
	}
	return 0
}

// Snapshot - 현재 메트릭
func (h *Hub) Snapshot() Metrics {
	h.mu.RLock()
	defer h.mu.RUnlock()

	m := h.metrics
	m.ActiveSessions = len(h.sessions)
	for _, s := range h.sessions {
		m.CurrentClients += len(s.clients)
	}
	m.Uptime = time.Since(m.StartTime).Round(time.Second).String()
	return m
}

// HandleMetrics - GET /api/hub/metrics
func (h *Hub) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.Snapshot())
}

// Close - 모든 연결 종료 (서버 종료 시)
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.sessions {
		for _, c := range s.clients {
			h.removeLocked(s, c)
		}
	}
}

// StartCleanup - 주기적으로 오래된 세션의 연결을 끊는다
func (h *Hub) StartCleanup(ctx context.Context, interval, maxAge time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				h.cleanupExpired(now, maxAge)
			}
		}
	}()
	log.Printf("🔄 [Hub] Started session cleanup routine (every %v, max age %v)", interval, maxAge)
}

// cleanupExpired - createdAt 기준 maxAge를 넘긴 세션 정리, 정리한 세션 수 반환
func (h *Hub) cleanupExpired(now time.Time, maxAge time.Duration) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	cleaned := 0
	for id, s := range h.sessions {
		if now.Sub(s.createdAt) <= maxAge {
			continue
		}
		for _, c := range s.clients {
			log.Printf("🔌 [Hub] Disconnecting client %s from expired session %s", c.id, id)
			h.removeLocked(s, c)
		}
		cleaned++
	}

	if cleaned > 0 {
		log.Printf("🧼 [Hub] Cleaned up %d expired sessions (Active: %d)", cleaned, len(h.sessions))
	}
	return cleaned
}

func (h *Hub) addClient(sessionID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[sessionID]
	if !ok {
		now := time.Now()
		s = &session{
			id:           sessionID,
			clients:      make(map[string]*client),
			createdAt:    now,
			lastActivity: now,
		}
		h.sessions[sessionID] = s
		h.metrics.TotalSessions++
	}
	s.clients[c.id] = c
	s.lastActivity = time.Now()
	h.metrics.TotalConnections++

	log.Printf("👤 [Hub] Client %s joined session %s (Clients: %d)", c.id, sessionID, len(s.clients))
}

func (h *Hub) removeClient(sessionID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.sessions[sessionID]; ok {
		h.removeLocked(s, c)
	}
}

// removeLocked - h.mu를 잡은 상태에서 호출, 빈 세션은 바로 정리
func (h *Hub) removeLocked(s *session, c *client) {
	if _, ok := s.clients[c.id]; !ok {
		return
	}
	delete(s.clients, c.id)
	close(c.send)
	log.Printf("👋 [Hub] Client %s left session %s (Remaining: %d)", c.id, s.id, len(s.clients))

	if len(s.clients) == 0 {
		delete(h.sessions, s.id)
		log.Printf("🧹 [Hub] Cleaned up empty session: %s (Age: %v)", s.id, time.Since(s.createdAt).Round(time.Second))
	}
}

// 클라이언트로부터 메시지 읽기 (연결 종료 감지용, 내용은 무시)
func (h *Hub) readPump(sessionID string, c *client) {
	defer func() {
		h.removeClient(sessionID, c)
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("⚠️ [Hub] WebSocket error: %v", err)
			}
			return
		}
	}
}

// 클라이언트로 메시지 쓰기
func (h *Hub) writePump(c *client) {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("⚠️ [Hub] WebSocket write error: %v", err)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
