package handler

import (
	"github.com/fundhouse/internal/service"
	"github.com/fundhouse/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	logger    *zap.Logger
	store     *storage.FileStore
	auth      *service.AuthService
	funds     *service.FundService
	prices    *service.FundPriceService
	reports   *service.FundReportService
	snapshots *service.SnapshotService
	team      *service.TeamService
	branches  *service.BranchService
	contact   *service.ContactService
	news      *service.NewsService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, store *storage.FileStore, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &API{
		db:        db,
		logger:    logger,
		store:     store,
		auth:      service.NewAuthService(db),
		funds:     service.NewFundService(db),
		prices:    service.NewFundPriceService(db),
		reports:   service.NewFundReportService(db, store),
		snapshots: service.NewSnapshotService(db),
		team:      service.NewTeamService(db),
		branches:  service.NewBranchService(db),
		contact:   service.NewContactService(db),
		news:      service.NewNewsService(db, store),
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}
