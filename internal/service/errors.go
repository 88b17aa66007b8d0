package service

import (
	"context"
	"errors"
	"time"
)

var (
	ErrValidation           = errors.New("invalid or missing input")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrRegistrationFailed   = errors.New("registration failed: username already exists")
	ErrGiveawayNotFound     = errors.New("giveaway not found")
	ErrForbidden            = errors.New("forbidden: not the giveaway owner")
	ErrInternalServer       = errors.New("internal server error")
)

// storageTimeout 是单次存储调用允许的最长时间
const storageTimeout = 5 * time.Second

// withStorageTimeout 给存储调用加上限时，任何存储操作都不允许无限阻塞
func withStorageTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, storageTimeout)
}
