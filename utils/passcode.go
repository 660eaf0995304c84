package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrPasscodeNotConfigured = errors.New("settings passcode chưa được cấu hình")

// PasscodeVerifier so khớp passcode với bcrypt hash lưu ở server
type PasscodeVerifier struct {
	hash []byte
}

// NewPasscodeVerifier ưu tiên hash có sẵn; nếu chỉ có passcode thô thì hash lúc khởi động
func NewPasscodeVerifier(plain, hash string) (*PasscodeVerifier, error) {
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, err
		}
		return &PasscodeVerifier{hash: []byte(hash)}, nil
	}
	if plain == "" {
		return &PasscodeVerifier{}, nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &PasscodeVerifier{hash: hashed}, nil
}

func (v *PasscodeVerifier) Configured() bool {
	return v != nil && len(v.hash) > 0
}

func (v *PasscodeVerifier) Verify(passcode string) error {
	if !v.Configured() {
		return ErrPasscodeNotConfigured
	}
	return bcrypt.CompareHashAndPassword(v.hash, []byte(passcode))
}
