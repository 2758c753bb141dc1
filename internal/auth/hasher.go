package auth

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// DefaultBcryptCost はbcryptのデフォルトのコストファクター。
const DefaultBcryptCost = 10

// maxBcryptInputBytes はbcryptが参照する入力の上限バイト数。
const maxBcryptInputBytes = 72

// PasswordHasher はパスワードのハッシュ化と検証を提供する。
type PasswordHasher interface {
	// Hash はソルト付きのパスワードハッシュを生成する。
	Hash(ctx context.Context, password string) (string, error)

	// Verify はパスワードがハッシュと一致するかを検証する。
	// 一致すれば(true, nil)、不一致なら(false, nil)、ハッシュが不正な場合はエラーを返す。
	Verify(ctx context.Context, password, hash string) (bool, error)
}

// BcryptHasher はbcryptを使用したPasswordHasherの実装。
// bcryptはCPUバウンドなため、同時計算数をセマフォで制限する。
type BcryptHasher struct {
	cost int
	sem  *semaphore.Weighted
}

// NewBcryptHasher はBcryptHasherを生成する。
// costはbcrypt.MinCostからbcrypt.MaxCostの範囲に丸める。
// maxConcurrentが0以下の場合はGOMAXPROCSを使用する。
func NewBcryptHasher(cost, maxConcurrent int) *BcryptHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	if maxConcurrent <= 0 {
		maxConcurrent = runtime.GOMAXPROCS(0)
	}

	return &BcryptHasher{
		cost: cost,
		sem:  semaphore.NewWeighted(int64(maxConcurrent)),
	}
}

// Cost は使用しているコストファクターを返す。
func (h *BcryptHasher) Cost() int {
	return h.cost
}

// Hash はbcryptでパスワードハッシュを生成する。
// ソルトはbcryptが内部で生成しハッシュ文字列に含める。
func (h *BcryptHasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("failed to acquire hashing slot: %w", err)
	}
	defer h.sem.Release(1)

	hash, err := bcrypt.GenerateFromPassword(bcryptInput(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to generate password hash: %w", err)
	}
	return string(hash), nil
}

// Verify はパスワードとbcryptハッシュを比較する。
func (h *BcryptHasher) Verify(ctx context.Context, password, hash string) (bool, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, fmt.Errorf("failed to acquire hashing slot: %w", err)
	}
	defer h.sem.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to compare password hash: %w", err)
	}
	return true, nil
}

// bcryptInput はパスワードを先頭72バイトに切り詰める。
// 72バイトを超える部分はbcryptのハッシュに影響しないため、HashとVerifyで同じ切り詰めを行う。
func bcryptInput(password string) []byte {
	b := []byte(password)
	if len(b) > maxBcryptInputBytes {
		b = b[:maxBcryptInputBytes]
	}
	return b
}

// compile-time interface check
var _ PasswordHasher = (*BcryptHasher)(nil)
