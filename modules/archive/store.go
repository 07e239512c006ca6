package archive

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
)

// ErrQuotaExceeded - 저장 공간 예산 초과
var ErrQuotaExceeded = errors.New("archive: storage quota exceeded")

// Backend - 보관함 blob 저장소
// Load는 슬롯이 비어 있으면 os.ErrNotExist를 반환한다.
// Save는 예산 초과 시 ErrQuotaExceeded를 반환한다.
type Backend interface {
	Load() ([]byte, error)
	Save(data []byte) error
	Clear() error
}

// FileBackend - 단일 JSON 파일 슬롯 (바이트 예산 지원)
type FileBackend struct {
	Path     string
	MaxBytes int64 // 0이면 무제한
}

func (b *FileBackend) Load() ([]byte, error) {
	return os.ReadFile(b.Path)
}

func (b *FileBackend) Save(data []byte) error {
	if b.MaxBytes > 0 && int64(len(data)) > b.MaxBytes {
		return ErrQuotaExceeded
	}
	if dir := filepath.Dir(b.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(b.Path, data, 0o644)
}

func (b *FileBackend) Clear() error {
	err := os.Remove(b.Path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Store - 보관함 전체를 하나의 JSON blob으로 읽고 쓰는 저장소
type Store struct {
	backend Backend
}

func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// LoadAll - 보관함 전체 로드
// 슬롯이 없거나 내용이 깨져 있으면 빈 보관함으로 시작 (절대 실패하지 않음)
func (s *Store) LoadAll() []Session {
	data, err := s.backend.Load()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("⚠️  [Archive] Failed to read archive slot: %v", err)
		}
		return []Session{}
	}

	var sessions []Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		log.Printf("⚠️  [Archive] Corrupt archive discarded: %v", err)
		return []Session{}
	}
	if sessions == nil {
		sessions = []Session{}
	}
	return sessions
}

// Upsert - 세션을 맨 앞으로 추가/이동하고 최대 개수로 자름
// 같은 ID가 있으면 교체, 없으면 새로 추가. 순수 함수.
func Upsert(sessions []Session, sess Session) []Session {
	out := make([]Session, 0, len(sessions)+1)
	out = append(out, sess)
	for _, existing := range sessions {
		if existing.ID != sess.ID {
			out = append(out, existing)
		}
	}
	if len(out) > MaxEntries {
		out = out[:MaxEntries]
	}
	return out
}

// RemoveOne - ID로 세션 제거 (없으면 no-op)
func RemoveOne(sessions []Session, id string) []Session {
	out := make([]Session, 0, len(sessions))
	for _, existing := range sessions {
		if existing.ID != id {
			out = append(out, existing)
		}
	}
	return out
}

// Persist - 보관함 저장. 에러를 반환하지 않는다.
// 예산 초과 시 오래된 엔트리부터 이미지를 비우고 재시도,
// 전부 비워도 안 되면 오래된 엔트리를 통째로 버리고 재시도한다.
// 실제로 저장된 (줄어들었을 수 있는) 보관함과 성공 여부를 반환한다.
// 끝까지 실패하면 호출자의 보관함을 그대로 돌려준다.
func (s *Store) Persist(sessions []Session) (bool, []Session) {
	work := append([]Session(nil), sessions...)
	if work == nil {
		work = []Session{}
	}

	for {
		data, err := json.Marshal(work)
		if err != nil {
			log.Printf("❌ [Archive] Failed to marshal archive: %v", err)
			return false, sessions
		}

		err = s.backend.Save(data)
		if err == nil {
			if len(work) < len(sessions) {
				log.Printf("⚠️  [Archive] Persisted degraded archive: %d → %d entries", len(sessions), len(work))
			}
			return true, work
		}

		if !errors.Is(err, ErrQuotaExceeded) {
			log.Printf("❌ [Archive] Persist failed: %v", err)
			return false, sessions
		}

		// 뒤쪽(가장 오래 전에 갱신된) 엔트리부터 이미지 제거
		stripped := false
		for i := len(work) - 1; i >= 0; i-- {
			if len(work[i].Images) > 0 {
				log.Printf("⚠️  [Archive] Quota exceeded, stripping images from entry %s", work[i].ID)
				work[i].Images = map[string]string{}
				stripped = true
				break
			}
		}
		if stripped {
			continue
		}

		// 이미지를 전부 비워도 부족하면 가장 오래된 엔트리 제거
		if len(work) > 0 {
			log.Printf("⚠️  [Archive] Quota exceeded, dropping oldest entry %s", work[len(work)-1].ID)
			work = work[:len(work)-1]
			continue
		}

		log.Printf("❌ [Archive] Quota exceeded even with empty archive, giving up")
		return false, sessions
	}
}

// ClearAll - 보관함 슬롯 비우기
func (s *Store) ClearAll() error {
	return s.backend.Clear()
}
