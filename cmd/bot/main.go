package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/soren-hale/albumchain/internal/cache"
	"github.com/soren-hale/albumchain/internal/catalog"
	"github.com/soren-hale/albumchain/internal/config"
	"github.com/soren-hale/albumchain/internal/discord"
	"github.com/soren-hale/albumchain/internal/game"
	"github.com/soren-hale/albumchain/internal/storage"
)

// repository is the union of what the engine and the command layer need;
// both adapters implement it.
type repository interface {
	game.Repository
	discord.Store
}

func main() {
	log := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("configuration error")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	ctx := context.Background()

	cat, err := catalog.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load catalog")
	}
	log.WithField("stages", cat.Len()).Info("catalog loaded")

	var repo repository
	if cfg.DatabaseURL != "" {
		pg, err := storage.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to postgres")
		}
		defer pg.Close()
		if err := pg.InitSchema(ctx); err != nil {
			log.WithError(err).Fatal("failed to initialize schema")
		}
		repo = pg
	} else {
		log.Warn("DATABASE_URL not set, game state lives in memory only")
		repo = storage.NewMemory()
	}

	eng := game.New(repo, cat, cfg.SimilarityThreshold)

	var board *cache.Leaderboard
	if cfg.RedisAddr != "" {
		board = cache.NewLeaderboard(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := board.Ping(ctx); err != nil {
			log.WithError(err).Warn("redis unavailable, leaderboard disabled")
			board = nil
		} else {
			defer board.Close()
		}
	}
	if board != nil {
		eng.OnHighScore = func(channelID string, score int) {
			if err := board.SetHighScore(context.Background(), channelID, score); err != nil {
				log.WithError(err).WithField("channel", channelID).Warn("failed to record high score")
			}
		}
	}

	bot, err := discord.New(cfg.DiscordToken, eng, repo, cat, board, log)
	if err != nil {
		log.WithError(err).Fatal("failed to create bot")
	}
	if err := bot.Open(); err != nil {
		log.WithError(err).Fatal("failed to connect to discord")
	}
	defer bot.Close()

	log.Info("album chain bot is running, press ctrl+c to exit")
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info("shutting down")
}
