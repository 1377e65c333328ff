package cardbot

import (
	"context"

	"github.com/gdcards/cardbot/cardbot/database"
	"github.com/gdcards/cardbot/cardbot/database/repositories"
	"github.com/gdcards/cardbot/cardbot/game"
	"github.com/gdcards/cardbot/cardbot/logger"
	"github.com/gdcards/cardbot/cardbot/services"
)

func New(cfg Config, version string, commit string) *App {
	return &App{
		Cfg:     cfg,
		Version: version,
		Commit:  commit,
	}
}

// App holds every wired component of the card game service.
type App struct {
	Cfg     Config
	Version string
	Commit  string

	DB                 *database.DB
	UserRepository     repositories.UserRepository
	CardRepository     repositories.CardRepository
	UserCardRepository repositories.UserCardRepository
	PromoRepository    repositories.PromoRepository

	Locks      *game.LockManager
	Draw       *game.DrawEngine
	Promos     *game.PromoLedger
	Ranking    *game.RankingEngine
	Collection *game.CollectionEngine
	Catalog    *services.CatalogService
	Search     *services.SearchService
}

// Setup connects storage and wires the engines in dependency order.
func (a *App) Setup(ctx context.Context) error {
	db, err := database.New(ctx, database.Config{
		Driver:   a.Cfg.DB.Driver,
		Host:     a.Cfg.DB.Host,
		Port:     a.Cfg.DB.Port,
		User:     a.Cfg.DB.User,
		Password: a.Cfg.DB.Password,
		Database: a.Cfg.DB.Database,
		PoolSize: a.Cfg.DB.PoolSize,
		Path:     a.Cfg.DB.Path,
	})
	if err != nil {
		return err
	}
	if err := db.InitializeSchema(ctx); err != nil {
		db.Close()
		return err
	}
	a.DB = db

	a.UserRepository = repositories.NewUserRepository(db.BunDB())
	a.CardRepository = repositories.NewCardRepository(db.BunDB())
	a.UserCardRepository = repositories.NewUserCardRepository(db.BunDB())
	a.PromoRepository = repositories.NewPromoRepository(db.BunDB())

	gameCfg := a.Cfg.GameSettings()
	a.Locks = game.NewLockManager()
	a.Draw = game.NewDrawEngine(a.UserRepository, a.CardRepository, a.UserCardRepository, a.Locks, gameCfg, nil)
	a.Promos = game.NewPromoLedger(a.UserRepository, a.PromoRepository, a.Locks)
	a.Ranking = game.NewRankingEngine(a.UserCardRepository, gameCfg)
	a.Collection = game.NewCollectionEngine(a.UserRepository, a.CardRepository, a.UserCardRepository, a.Ranking, gameCfg)
	a.Catalog = services.NewCatalogService(a.CardRepository, a.UserRepository)
	a.Search = services.NewSearchService(a.CardRepository)

	if code := gameCfg.StandingPromoCode; code != "" {
		if err := a.Promos.EnsureStandingCode(ctx, code); err != nil {
			logger.LogError("Failed to seed standing promo code", err)
		}
	}

	return nil
}

func (a *App) Close() {
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			logger.LogError("Failed to close database", err)
		}
	}
}
