// Package password 封装凭证哈希与校验，业务层只接触不透明的哈希字符串。
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrMismatch 明文与哈希不匹配
	ErrMismatch = errors.New("密码不匹配")
	// ErrTooLong 明文超过 bcrypt 的 72 字节上限
	ErrTooLong = errors.New("密码长度超过 72 字节")
)

// Hasher 生成凭证哈希
type Hasher interface {
	Hash(plain string) (string, error)
}

// Verifier 校验明文是否与哈希一致
type Verifier interface {
	Verify(hash, plain string) error
}

// HashVerifier 同时具备哈希与校验能力
type HashVerifier interface {
	Hasher
	Verifier
}

// Bcrypt 基于 bcrypt 的实现
type Bcrypt struct {
	cost int
}

// NewBcrypt 创建 bcrypt 哈希器，cost 非法时回退到默认值
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), b.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrTooLong
		}
		return "", err
	}
	return string(h), nil
}

func (b *Bcrypt) Verify(hash, plain string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
		return ErrMismatch
	}
	return nil
}
