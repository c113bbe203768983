package api

import (
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// preparedExport 已生成、等待下载的导出文件
type preparedExport struct {
	path     string
	filename string
	deadline time.Time
}

// exportDownloadStore 导出文件的一次性下载凭据。
// 文件在被取走或过期后由这里负责删除，取走的文件由调用方在发送后删除。
type exportDownloadStore struct {
	mu      sync.Mutex
	now     func() time.Time
	pending map[string]preparedExport
}

func newExportDownloadStore(now func() time.Time) *exportDownloadStore {
	if now == nil {
		now = time.Now
	}
	return &exportDownloadStore{now: now, pending: map[string]preparedExport{}}
}

// put 登记文件并返回下载 token
func (s *exportDownloadStore) put(path, filename string, ttl time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked()

	token := uuid.NewString()
	s.pending[token] = preparedExport{path: path, filename: filename, deadline: s.now().Add(ttl)}
	return token
}

// take 取出 token 对应的文件，同一 token 只能取一次
func (s *exportDownloadStore) take(token string) (preparedExport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked()

	item, ok := s.pending[token]
	if ok {
		delete(s.pending, token)
	}
	return item, ok
}

func (s *exportDownloadStore) expireLocked() {
	now := s.now()
	for token, item := range s.pending {
		if !now.After(item.deadline) {
			continue
		}
		delete(s.pending, token)
		_ = os.Remove(item.path)
	}
}
