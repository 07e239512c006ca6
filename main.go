package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"brandvision-server/modules/analysis"
	"brandvision-server/modules/archive"
	"brandvision-server/modules/common/config"
	generateimage "brandvision-server/modules/generate-image"
	"brandvision-server/modules/session"
)

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// 로컬 브라우저 프론트엔드 전용 - 모든 origin 허용
		return true
	},
}

// 진행 이벤트 구독 클라이언트
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// progressHub - 세션 진행 이벤트를 모든 구독자에게 브로드캐스트
type progressHub struct {
	mu      sync.Mutex
	clients map[*client]bool
}

func newProgressHub() *progressHub {
	return &progressHub{
		clients: make(map[*client]bool),
	}
}

// Broadcast - 이벤트 JSON을 모든 구독자에게 전송 (느린 구독자는 끊음)
func (h *progressHub) Broadcast(event session.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("❌ Failed to marshal progress event: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			close(c.send)
			delete(h.clients, c)
			log.Printf("⚠️  Dropped slow progress subscriber (remaining: %d)", len(h.clients))
		}
	}
}

func (h *progressHub) add(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
	log.Printf("✅ Progress subscriber connected (total: %d)", len(h.clients))
}

func (h *progressHub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		log.Printf("👋 Progress subscriber disconnected (remaining: %d)", len(h.clients))
	}
}

// handleWebSocket - GET /ws
func (h *progressHub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ WebSocket upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 64)}
	h.add(c)

	go c.writePump()
	go c.readPump(h)
}

// readPump - 구독자는 메시지를 보내지 않음. 연결 종료 감지용.
func (c *client) readPump(h *progressHub) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump - 클라이언트로 이벤트 쓰기
func (c *client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// CORS 헤더 추가
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// 헬스 체크 엔드포인트
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "brandvision-engine",
	})
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	analyzer, err := analysis.NewService(context.Background())
	if err != nil {
		log.Fatalf("❌ Failed to create analysis service: %v", err)
	}
	images := generateimage.NewService()

	store := archive.NewStore(&archive.FileBackend{
		Path:     cfg.ArchivePath,
		MaxBytes: cfg.ArchiveMaxBytes,
	})

	hub := newProgressHub()
	ctrl := session.NewController(analyzer, images, store, hub.Broadcast)
	h := session.NewHandler(ctrl)

	r := mux.NewRouter()
	r.Use(enableCORS)

	r.HandleFunc("/", healthCheck).Methods("GET")
	r.HandleFunc("/health", healthCheck).Methods("GET")
	r.HandleFunc("/ws", hub.handleWebSocket)

	r.HandleFunc("/api/analyze", h.StartAnalysis).Methods("POST")
	r.HandleFunc("/api/session", h.GetSession).Methods("GET")
	r.HandleFunc("/api/session/keywords", h.AddKeyword).Methods("POST")
	r.HandleFunc("/api/session/keywords", h.RemoveKeyword).Methods("DELETE")
	r.HandleFunc("/api/session/images/{conceptId}", h.DownloadImage).Methods("GET")
	r.HandleFunc("/api/archive", h.ListArchive).Methods("GET")
	r.HandleFunc("/api/archive", h.ClearArchive).Methods("DELETE")
	r.HandleFunc("/api/archive/{id}/activate", h.ActivateSession).Methods("POST")
	r.HandleFunc("/api/archive/{id}", h.DeleteSession).Methods("DELETE")

	log.Printf("🚀 BrandVision Engine starting on port %s", cfg.Port)
	log.Printf("   Health: http://localhost:%s/health", cfg.Port)
	log.Printf("   Progress feed: ws://localhost:%s/ws", cfg.Port)

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
