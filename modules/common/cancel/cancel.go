package cancel

import "sync"

// Registry - 진행 중인 세션 run의 유효성 추적
// 새 분석이 시작되거나 보관된 세션이 활성화되면 이전 run은 무효화된다.
// run 자체를 중단시키지는 않고, 늦게 도착한 결과를 병합 시점에 폐기한다.
type Registry struct {
	mu     sync.Mutex
	active string
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Activate - 해당 세션을 유일한 활성 run으로 지정
func (r *Registry) Activate(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = sessionID
}

// Deactivate - 해당 세션이 아직 활성이면 비움 (다른 세션이 이미 활성이면 no-op)
func (r *Registry) Deactivate(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == sessionID {
		r.active = ""
	}
}

// IsActive - 해당 세션의 결과를 아직 받아도 되는지 확인
func (r *Registry) IsActive(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return sessionID != "" && r.active == sessionID
}
