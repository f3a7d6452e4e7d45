package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 是一个全局的数据库连接实例
var DB *gorm.DB

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Models 返回需要自动迁移的全部模型，测试也复用该列表。
func Models() []interface{} {
	return []interface{}{
		&User{},
		&Fund{},
		&FundPrice{},
		&FundReport{},
		&MoneyMarketSnapshot{},
		&EquitySnapshot{},
		&TeamMember{},
		&Branch{},
		&ContactMessage{},
		&SystemSetting{},
		&NewsPost{},
		&NewsImage{},
	}
}

// Open 根据驱动名称建立 gorm 连接，但不做迁移。
func Open(driver, dsn string, log logger.Interface) (*gorm.DB, error) {
	cfg := &gorm.Config{TranslateError: true}
	if log != nil {
		cfg.Logger = log
	}

	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverSQLite:
		path := strings.TrimSpace(dsn)
		if path == "" {
			path = "fundhouse.db"
		}
		if !strings.HasPrefix(path, "file:") {
			if err := ensureParentDir(path); err != nil {
				return nil, err
			}
		}
		return gorm.Open(sqlite.Open(path), cfg)
	case DriverPostgres:
		return gorm.Open(postgres.Open(dsn), cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Init 初始化数据库连接并执行自动迁移。
func Init(driver, dsn string, log logger.Interface) error {
	conn, err := Open(driver, dsn, log)
	if err != nil {
		return err
	}

	if err := Migrate(conn); err != nil {
		return err
	}

	DB = conn
	return nil
}

// Migrate 为核心模型创建或更新表结构。
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
