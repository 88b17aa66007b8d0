package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"giveaway-rooms/internal/domain"
)

// MigrateDB handles all database migrations using the provided GORM DB instance.
// users 和 giveaways/referrals 表用自定义 SQL 创建，保证索引长度和外键级联正确。
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	if err := migrateTable(db, "users", createUsersTable, &domain.User{}); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	if err := migrateTable(db, "giveaways", createGiveawaysTable, &domain.Giveaway{}); err != nil {
		return fmt.Errorf("failed to migrate giveaways table: %w", err)
	}
	if err := migrateTable(db, "referrals", createReferralsTable, &domain.Referral{}); err != nil {
		return fmt.Errorf("failed to migrate referrals table: %w", err)
	}

	logrus.Info("Database migration completed successfully")
	return nil
}

// migrateTable 在表不存在时执行自定义建表 SQL，已存在时用 AutoMigrate 补齐列和索引
func migrateTable(db *gorm.DB, tableName string, create func(*gorm.DB) error, model interface{}) error {
	var count int64
	db.Raw("SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?", tableName).Count(&count)

	if count == 0 {
		return create(db)
	}
	if err := db.AutoMigrate(model); err != nil {
		logrus.Errorf("Failed to auto-migrate %s table: %v", tableName, err)
		return fmt.Errorf("failed to auto-migrate %s table: %w", tableName, err)
	}
	logrus.Infof("%s table schema checked/updated successfully", tableName)
	return nil
}

func createUsersTable(db *gorm.DB) error {
	sql := `
	CREATE TABLE users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(191) NOT NULL,
		password TEXT NOT NULL,
		created_at DATETIME(3),
		updated_at DATETIME(3),
		UNIQUE INDEX idx_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_general_ci;
	`
	if err := db.Exec(sql).Error; err != nil {
		logrus.Errorf("Failed to create users table: %v", err)
		return fmt.Errorf("failed to create users table: %w", err)
	}
	logrus.Info("Users table created successfully")
	return nil
}

func createGiveawaysTable(db *gorm.DB) error {
	sql := `
	CREATE TABLE giveaways (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		owner_id BIGINT UNSIGNED NOT NULL,
		room_name VARCHAR(191) NOT NULL,
		channel_link VARCHAR(512) NOT NULL,
		code VARCHAR(191) NOT NULL,
		referral_count BIGINT UNSIGNED NOT NULL DEFAULT 0,
		created_at DATETIME(3),
		updated_at DATETIME(3),
		INDEX idx_owner_id (owner_id),
		UNIQUE INDEX idx_code (code),
		CONSTRAINT fk_giveaways_owner FOREIGN KEY (owner_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_general_ci;
	`
	if err := db.Exec(sql).Error; err != nil {
		logrus.Errorf("Failed to create giveaways table: %v", err)
		return fmt.Errorf("failed to create giveaways table: %w", err)
	}
	logrus.Info("Giveaways table created successfully")
	return nil
}

func createReferralsTable(db *gorm.DB) error {
	// referrals 随所属 giveaway 级联删除
	sql := `
	CREATE TABLE referrals (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		giveaway_id BIGINT UNSIGNED NOT NULL,
		referrer_name VARCHAR(191) NOT NULL,
		created_at DATETIME(3),
		INDEX idx_giveaway_id (giveaway_id),
		INDEX idx_created_at (created_at),
		CONSTRAINT fk_referrals_giveaway FOREIGN KEY (giveaway_id) REFERENCES giveaways (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_general_ci;
	`
	if err := db.Exec(sql).Error; err != nil {
		logrus.Errorf("Failed to create referrals table: %v", err)
		return fmt.Errorf("failed to create referrals table: %w", err)
	}
	logrus.Info("Referrals table created successfully")
	return nil
}
