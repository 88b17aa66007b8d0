package gormpersistence

import (
	"context"
	"database/sql/driver"
	"errors"

	"github.com/go-sql-driver/mysql"

	"giveaway-rooms/internal/repository"
)

// MySQL 服务端错误码
const (
	mysqlErrDuplicateEntry  = 1062
	mysqlErrLockWaitTimeout = 1205
	mysqlErrDeadlock        = 1213
)

// mapError 把 GORM / 驱动层错误映射为仓库层的哨兵错误。
// 无法识别的错误原样返回，由调用方包装。
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlErrDuplicateEntry:
			return repository.ErrDuplicateEntry
		case mysqlErrLockWaitTimeout, mysqlErrDeadlock:
			return repository.ErrUnavailable
		}
	}

	// 连接层故障对调用方来说是可重试的
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, context.DeadlineExceeded) {
		return repository.ErrUnavailable
	}

	return err
}
