package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PostgresDocumentStore はPostgreSQLのdocumentsテーブルを使用したドキュメントストア。
// 書き込みは無条件のUPSERTで、versionは書き込みのたびに加算される（最後の書き込みが勝つ）。
type PostgresDocumentStore struct {
	db *sql.DB
}

// NewPostgresDocumentStore はPostgresDocumentStoreを生成する。
func NewPostgresDocumentStore(db *sql.DB) *PostgresDocumentStore {
	return &PostgresDocumentStore{db: db}
}

// Get は指定キーのドキュメントを返す。存在しない場合はnilを返す。
func (s *PostgresDocumentStore) Get(ctx context.Context, key Key) ([]byte, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE collection = $1 AND owner_id = $2`,
		key.Collection, key.Owner,
	).Scan(&body)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapStoreErr("get", key, err)
	}
	return body, nil
}

// Put は指定キーのドキュメントを上書き保存する。
// bodyは有効なJSONでなければならない（jsonb列に格納するため）。
func (s *PostgresDocumentStore) Put(ctx context.Context, key Key, body []byte) error {
	if !json.Valid(body) {
		return fmt.Errorf("document %s is not valid JSON", key)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, owner_id, body, version, updated_at)
		 VALUES ($1, $2, $3, 1, now())
		 ON CONFLICT (collection, owner_id)
		 DO UPDATE SET body = EXCLUDED.body,
		               version = documents.version + 1,
		               updated_at = now()`,
		key.Collection, key.Owner, body,
	)
	if err != nil {
		return wrapStoreErr("put", key, err)
	}
	return nil
}

// Delete は指定キーのドキュメントを削除する。
func (s *PostgresDocumentStore) Delete(ctx context.Context, key Key) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = $1 AND owner_id = $2`,
		key.Collection, key.Owner,
	)
	if err != nil {
		return wrapStoreErr("delete", key, err)
	}
	return nil
}

// compile-time interface check
var _ DocumentStore = (*PostgresDocumentStore)(nil)
