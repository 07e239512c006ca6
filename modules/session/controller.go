package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"brandvision-server/modules/analysis"
	"brandvision-server/modules/archive"
	"brandvision-server/modules/common/cancel"
)

// Status - 세션 생명주기 상태
type Status string

const (
	StatusIdle           Status = "idle"
	StatusAnalyzing      Status = "analyzing"
	StatusAwaitingImages Status = "awaiting_images"
	StatusReady          Status = "ready"
	StatusFailed         Status = "failed"
)

// 진행 단계 표시 문구
const (
	StageAnalyzing  = "Analyzing brand DNA..."
	StageGenerating = "Generating platform visuals..."
)

var (
	ErrBusy            = errors.New("analysis already in progress")
	ErrNoActiveSession = errors.New("no active session")
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyKeyword    = errors.New("keyword is empty")
)

// Event - WebSocket으로 브로드캐스트되는 진행 이벤트
type Event struct {
	Type      string `json:"type"` // stage | analysis_complete | image_ready | image_failed | session_complete | session_failed
	SessionID string `json:"sessionId"`
	Stage     string `json:"stage,omitempty"`
	ConceptID string `json:"conceptId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Analyzer - 브랜드 분석 클라이언트
type Analyzer interface {
	Analyze(ctx context.Context, url, goal string, platforms []string) (*analysis.Response, error)
}

// ImageGenerator - 컨셉 이미지 생성 클라이언트
type ImageGenerator interface {
	Generate(ctx context.Context, concept analysis.ImageConcept) (string, error)
}

// Controller - 모든 세션/보관함 상태를 소유하는 단일 컨트롤러
// 상태 변경은 전부 mutex 아래에서 일어나고, 보관함 쓰기 경로도 여기 하나뿐이다.
type Controller struct {
	analyzer Analyzer
	images   ImageGenerator
	store    *archive.Store
	runs     *cancel.Registry
	notify   func(Event)

	mu       sync.Mutex
	sessions []archive.Session
	current  *archive.Session
	status   Status
	stage    string
	lastErr  string
}

// Snapshot - GET /api/session 응답 형태
type Snapshot struct {
	Status  Status           `json:"status"`
	Stage   string           `json:"stage,omitempty"`
	Error   string           `json:"error,omitempty"`
	Session *archive.Session `json:"session,omitempty"`
}

func NewController(analyzer Analyzer, images ImageGenerator, store *archive.Store, notify func(Event)) *Controller {
	if notify == nil {
		notify = func(Event) {}
	}

	c := &Controller{
		analyzer: analyzer,
		images:   images,
		store:    store,
		runs:     cancel.NewRegistry(),
		notify:   notify,
		sessions: store.LoadAll(),
		status:   StatusIdle,
	}

	log.Printf("✅ [Session] Controller initialized (%d archived sessions)", len(c.sessions))
	return c
}

// Start - 새 분석 시작. 세션 ID를 즉시 반환하고 run은 백그라운드로 돈다.
func (c *Controller) Start(ctx context.Context, url, goal string, platforms []string) (string, error) {
	sessionID, err := c.begin()
	if err != nil {
		return "", err
	}

	go c.run(ctx, sessionID, url, goal, platforms)
	return sessionID, nil
}

// begin - 상태 전이만 수행 (idle/ready/failed에서만 시작 가능)
func (c *Controller) begin() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == StatusAnalyzing || c.status == StatusAwaitingImages {
		return "", ErrBusy
	}

	sessionID := uuid.New().String()

	// 새 run이 유일한 활성 run이 된다. 이전 세션의 in-memory 상태는 버리되
	// 보관함 엔트리는 그대로 둔다.
	c.runs.Activate(sessionID)
	c.current = nil
	c.status = StatusAnalyzing
	c.stage = StageAnalyzing
	c.lastErr = ""

	log.Printf("🔍 [Session] Starting analysis run %s", sessionID)
	return sessionID, nil
}

// run - 분석 → 컨셉 순서대로 이미지 생성. Start의 고루틴에서 실행된다.
func (c *Controller) run(ctx context.Context, sessionID, url, goal string, platforms []string) {
	c.notify(Event{Type: "stage", SessionID: sessionID, Stage: StageAnalyzing})

	resp, err := c.analyzer.Analyze(ctx, url, goal, platforms)
	if err != nil {
		c.failRun(sessionID, err)
		return
	}

	if !c.completeAnalysis(sessionID, url, resp) {
		return // run이 이미 superseded
	}

	c.notify(Event{Type: "analysis_complete", SessionID: sessionID})
	c.notify(Event{Type: "stage", SessionID: sessionID, Stage: StageGenerating})

	// 컨셉 순서 그대로, 한 번에 하나씩 생성한다.
	// 컨셉 하나가 실패해도 나머지는 계속 진행.
	for _, concept := range resp.Concepts {
		if !c.runs.IsActive(sessionID) {
			log.Printf("🛑 [Session] Run %s superseded, stopping image generation", sessionID)
			return
		}

		c.notify(Event{Type: "stage", SessionID: sessionID, Stage: fmt.Sprintf("Creating for %s...", concept.Platform)})

		imageURL, err := c.images.Generate(ctx, concept)
		if err != nil {
			log.Printf("⚠️  [Session] Image generation failed for concept %s: %v", concept.ID, err)
			c.notify(Event{Type: "image_failed", SessionID: sessionID, ConceptID: concept.ID, Error: err.Error()})
			continue
		}

		if c.mergeImage(sessionID, concept.ID, imageURL) {
			c.notify(Event{Type: "image_ready", SessionID: sessionID, ConceptID: concept.ID})
		}
	}

	if c.finishRun(sessionID) {
		c.notify(Event{Type: "session_complete", SessionID: sessionID})
	}
}

// failRun - 분석 실패 처리. 보관함에는 아무것도 남기지 않는다.
func (c *Controller) failRun(sessionID string, err error) {
	c.mu.Lock()
	active := c.runs.IsActive(sessionID)
	if active {
		c.status = StatusFailed
		c.stage = ""
		c.lastErr = err.Error()
	}
	c.mu.Unlock()

	if active {
		log.Printf("❌ [Session] Analysis run %s failed: %v", sessionID, err)
		c.notify(Event{Type: "session_failed", SessionID: sessionID, Error: err.Error()})
	}
}

// completeAnalysis - 분석 성공 직후 stub 세션을 즉시 보관
// 이미지 생성이 전부 실패해도 분석 결과는 이미 안전하다.
func (c *Controller) completeAnalysis(sessionID, url string, resp *analysis.Response) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.runs.IsActive(sessionID) {
		log.Printf("🛑 [Session] Dropping analysis result for superseded run %s", sessionID)
		return false
	}

	sess := archive.Session{
		ID:        sessionID,
		Timestamp: nowMillis(),
		URL:       url,
		Data:      *resp,
		Images:    map[string]string{},
	}

	c.current = &sess
	c.status = StatusAwaitingImages
	c.stage = StageGenerating
	c.upsertCurrentLocked()

	log.Printf("✅ [Session] Analysis complete for %s: %d concepts", sessionID, len(resp.Concepts))
	return true
}

// mergeImage - 생성된 이미지를 세션에 병합하고 재보관
// (sessionID, conceptID)는 요청 시점 기준. 세션이 더 이상 활성이 아니면 폐기.
func (c *Controller) mergeImage(sessionID, conceptID, imageURL string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.runs.IsActive(sessionID) || c.current == nil || c.current.ID != sessionID {
		log.Printf("🛑 [Session] Dropping late image for superseded run %s (concept %s)", sessionID, conceptID)
		return false
	}

	c.current.Images[conceptID] = imageURL
	c.current.Timestamp = nowMillis()
	c.upsertCurrentLocked()

	log.Printf("🖼️  [Session] Image merged for concept %s (%d/%d)", conceptID, len(c.current.Images), len(c.current.Data.Concepts))
	return true
}

// finishRun - 이미지 루프 종료 후 ready 전이
func (c *Controller) finishRun(sessionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.runs.IsActive(sessionID) || c.status != StatusAwaitingImages {
		return false
	}

	c.status = StatusReady
	c.stage = ""

	log.Printf("🏁 [Session] Run %s complete (%d images)", sessionID, len(c.current.Images))
	return true
}

// AddKeyword - 활성 세션에 키워드 추가
// 앞의 '#'는 제거, 공백 트림. 대소문자 구분 중복은 no-op.
func (c *Controller) AddKeyword(raw string) error {
	keyword := normalizeKeyword(raw)
	if keyword == "" {
		return ErrEmptyKeyword
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return ErrNoActiveSession
	}

	for _, existing := range c.current.Data.Analysis.Keywords {
		if existing == keyword {
			return nil
		}
	}

	c.current.Data.Analysis.Keywords = append(c.current.Data.Analysis.Keywords, keyword)
	c.current.Timestamp = nowMillis()
	c.upsertCurrentLocked()
	return nil
}

// RemoveKeyword - 활성 세션에서 키워드 제거 (없으면 no-op)
func (c *Controller) RemoveKeyword(raw string) error {
	keyword := normalizeKeyword(raw)
	if keyword == "" {
		return ErrEmptyKeyword
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return ErrNoActiveSession
	}

	keywords := c.current.Data.Analysis.Keywords
	filtered := make([]string, 0, len(keywords))
	for _, existing := range keywords {
		if existing != keyword {
			filtered = append(filtered, existing)
		}
	}
	if len(filtered) == len(keywords) {
		return nil
	}

	c.current.Data.Analysis.Keywords = filtered
	c.current.Timestamp = nowMillis()
	c.upsertCurrentLocked()
	return nil
}

// Activate - 보관된 세션을 활성 세션으로 불러오기
// 네트워크 호출 없이 바로 ready가 되고, 진행 중이던 run은 무효화된다.
func (c *Controller) Activate(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var found *archive.Session
	for i := range c.sessions {
		if c.sessions[i].ID == id {
			found = &c.sessions[i]
			break
		}
	}
	if found == nil {
		return ErrSessionNotFound
	}

	c.runs.Activate(id)
	sess := found.Clone()
	c.current = &sess
	c.status = StatusReady
	c.stage = ""
	c.lastErr = ""

	log.Printf("📂 [Session] Activated archived session %s (%s)", id, sess.URL)
	return nil
}

// Delete - 보관함에서 세션 제거
// 활성 세션을 지우면 컨트롤러는 idle로 돌아간다.
func (c *Controller) Delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := len(c.sessions)
	c.sessions = archive.RemoveOne(c.sessions, id)
	if len(c.sessions) == before {
		return ErrSessionNotFound
	}

	if c.current != nil && c.current.ID == id {
		c.runs.Deactivate(id)
		c.current = nil
		c.status = StatusIdle
		c.stage = ""
		c.lastErr = ""
	}

	_, c.sessions = c.store.Persist(c.sessions)
	log.Printf("🗑️  [Session] Deleted archived session %s", id)
	return nil
}

// ClearArchive - 보관함 전체 비우기 (활성 세션 포함, idle로 복귀)
func (c *Controller) ClearArchive() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sessions = []archive.Session{}
	if c.current != nil {
		c.runs.Deactivate(c.current.ID)
	}
	c.current = nil
	c.status = StatusIdle
	c.stage = ""
	c.lastErr = ""

	if err := c.store.ClearAll(); err != nil {
		return fmt.Errorf("failed to clear archive slot: %w", err)
	}

	log.Printf("🗑️  [Session] Archive cleared")
	return nil
}

// Snapshot - 현재 상태의 사본
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Status: c.status,
		Stage:  c.stage,
		Error:  c.lastErr,
	}
	if c.current != nil {
		sess := c.current.Clone()
		snap.Session = &sess
	}
	return snap
}

// ListArchive - 보관함 사본 (최근 갱신 순)
func (c *Controller) ListArchive() []archive.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]archive.Session, 0, len(c.sessions))
	for _, sess := range c.sessions {
		out = append(out, sess.Clone())
	}
	return out
}

// Image - 활성 세션에서 컨셉 이미지 data URL 조회
func (c *Controller) Image(conceptID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return "", false
	}
	imageURL, ok := c.current.Images[conceptID]
	return imageURL, ok
}

// upsertCurrentLocked - 활성 세션을 보관함 맨 앞으로 올리고 저장
// 호출자가 잠금을 쥐고 있어야 한다. Persist 실패는 in-memory 상태를 해치지 않는다.
func (c *Controller) upsertCurrentLocked() {
	c.sessions = archive.Upsert(c.sessions, c.current.Clone())
	_, c.sessions = c.store.Persist(c.sessions)
}

func normalizeKeyword(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "#")
	return strings.TrimSpace(raw)
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
