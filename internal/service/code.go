package service

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/sirupsen/logrus"
)

const (
	codeCharset  = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeLength   = 8
	codeAttempts = 10
)

// generateCode 用 crypto/rand 生成一个固定长度的推荐码
func generateCode() (string, error) {
	b := make([]byte, codeLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	for i := range b {
		b[i] = codeCharset[int(b[i])%len(codeCharset)]
	}
	return string(b), nil
}

// generateUniqueCode 生成一个当前未被占用的推荐码。
// 碰撞时重试，达到 codeAttempts 次仍碰撞则返回错误。
func (s *GiveawayService) generateUniqueCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code, err := generateCode()
		if err != nil {
			return "", err
		}

		exists, err := s.giveawayRepo.IsCodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("database error checking referral code: %w", err)
		}
		if !exists {
			return code, nil
		}
		logrus.WithField("code", code).Warnf("Generated referral code already exists, retrying (attempt %d)...", attempt+1)
	}
	return "", fmt.Errorf("failed to generate a unique referral code after %d attempts", codeAttempts)
}
