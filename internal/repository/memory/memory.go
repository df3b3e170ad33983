// Package memory はrepositoryインターフェースのインメモリ実装を提供する。
// ローカル実行（STORAGE=memory）とテストで使用する。
// 各メソッドはミューテックスの内側で完結し、Postgres実装の1文単位の原子性と同じ粒度を持つ。
package memory

import "errors"

// ErrDuplicateID は既に存在するIDで作成しようとした場合のエラー。
var ErrDuplicateID = errors.New("memory: duplicate id")

// ErrDuplicateUsername は既に使われているユーザー名で作成・更新しようとした場合のエラー。
var ErrDuplicateUsername = errors.New("memory: duplicate username")
