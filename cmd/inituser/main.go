package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fundhouse/internal/config"
	"github.com/fundhouse/internal/db"
	"github.com/fundhouse/internal/logging"
	"go.uber.org/zap"
)

func main() {
	username := flag.String("username", "", "admin username (defaults to SUPER_ROOT_USER_NAME)")
	password := flag.String("password", "", "admin password (defaults to SUPER_ROOT_PASSWORD)")
	reset := flag.Bool("reset", false, "overwrite the password of an existing account")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)
	defer logger.Sync() //nolint:errcheck

	// 初始化数据库
	if err := db.Init(cfg.DatabaseDriver, cfg.DatabaseDSN, logging.Gorm(logger, cfg.LogLevel)); err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}

	name := *username
	if name == "" {
		name = cfg.SuperRootUserName
	}
	secret := *password
	if secret == "" {
		secret = cfg.SuperRootPassword
	}

	if !*reset {
		if name == "" || secret == "" {
			logger.Fatal("username and password are required")
		}
		if err := db.EnsureUser(db.DB, name, secret); err != nil {
			logger.Fatal("failed to create admin user", zap.Error(err))
		}
		logger.Info("admin user ready", zap.String("username", name))
		return
	}

	created, err := db.ResetUserPassword(db.DB, name, secret)
	if err != nil {
		logger.Fatal("failed to reset admin password", zap.Error(err))
	}
	logger.Info("admin password set", zap.String("username", name), zap.Bool("created", created))
}
