package repository

import (
	"context"
	"sync"
)

// MemoryDocumentStore はプロセス内メモリを使用したドキュメントストア。
// 開発とテスト用で、プロセス終了時に内容は失われる。
type MemoryDocumentStore struct {
	mu   sync.RWMutex
	docs map[Key][]byte
}

// NewMemoryDocumentStore はMemoryDocumentStoreを生成する。
func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{docs: make(map[Key][]byte)}
}

// Get は指定キーのドキュメントのコピーを返す。存在しない場合はnilを返す。
func (s *MemoryDocumentStore) Get(_ context.Context, key Key) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	body, ok := s.docs[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), body...), nil
}

// Put は指定キーのドキュメントを上書き保存する。
func (s *MemoryDocumentStore) Put(_ context.Context, key Key, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[key] = append([]byte(nil), body...)
	return nil
}

// Delete は指定キーのドキュメントを削除する。
func (s *MemoryDocumentStore) Delete(_ context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, key)
	return nil
}

// compile-time interface check
var _ DocumentStore = (*MemoryDocumentStore)(nil)
