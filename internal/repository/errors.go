package repository

import "errors"

// 通用的存储库错误
var (
	// ErrNotFound 表示请求的记录未找到
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEntry 表示尝试插入或更新的数据违反了唯一约束
	ErrDuplicateEntry = errors.New("repository: duplicate entry")
	// ErrUnavailable 表示后端暂时不可用 (连接中断/死锁/锁等待超时)，调用方可重试
	ErrUnavailable = errors.New("repository: storage temporarily unavailable")
)

// 特定资源的错误 (基于通用错误创建)
var (
	ErrUserNotFound     = ErrNotFound
	ErrGiveawayNotFound = ErrNotFound
)
