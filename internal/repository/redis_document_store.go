package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// defaultRedisPrefix はRedisキーの接頭辞。
const defaultRedisPrefix = "careportal:"

// RedisDocumentStore はRedisを使用したドキュメントストア。
// キーは "careportal:" + Key.String() で、有効期限は設定しない。
type RedisDocumentStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisDocumentStore はRedisDocumentStoreを生成する。
func NewRedisDocumentStore(client redis.UniversalClient) *RedisDocumentStore {
	return &RedisDocumentStore{client: client, prefix: defaultRedisPrefix}
}

func (s *RedisDocumentStore) redisKey(key Key) string {
	return s.prefix + key.String()
}

// Get は指定キーのドキュメントを返す。存在しない場合はnilを返す。
func (s *RedisDocumentStore) Get(ctx context.Context, key Key) ([]byte, error) {
	body, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapStoreErr("get", key, err)
	}
	return body, nil
}

// Put は指定キーのドキュメントを上書き保存する。
func (s *RedisDocumentStore) Put(ctx context.Context, key Key, body []byte) error {
	if err := s.client.Set(ctx, s.redisKey(key), body, 0).Err(); err != nil {
		return wrapStoreErr("put", key, err)
	}
	return nil
}

// Delete は指定キーのドキュメントを削除する。
func (s *RedisDocumentStore) Delete(ctx context.Context, key Key) error {
	if err := s.client.Del(ctx, s.redisKey(key)).Err(); err != nil {
		return wrapStoreErr("delete", key, err)
	}
	return nil
}

// compile-time interface check
var _ DocumentStore = (*RedisDocumentStore)(nil)
