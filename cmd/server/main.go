package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mklnz/offer-relay/internal/adapter/handler"
	"github.com/mklnz/offer-relay/internal/adapter/messaging/discord"
	"github.com/mklnz/offer-relay/internal/adapter/storage/recordstore"
	"github.com/mklnz/offer-relay/internal/adapter/storage/redisguard"
	"github.com/mklnz/offer-relay/internal/config"
	"github.com/mklnz/offer-relay/internal/core/service"
	"github.com/mklnz/offer-relay/internal/port"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Record store
	store, err := recordstore.New(cfg.Store.BaseURL, cfg.Store.Token, cfg.Store.Schema)
	if err != nil {
		log.Fatal("record store", zap.Error(err))
	}

	// Discord session
	session, err := discordgo.New("Bot " + cfg.Discord.BotToken)
	if err != nil {
		log.Fatal("discord session", zap.Error(err))
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages
	if err := session.Open(); err != nil {
		log.Fatal("discord connect", zap.Error(err))
	}
	log.Info("connected to discord", zap.String("guildId", cfg.Discord.GuildID))

	messenger := discord.New(session, cfg.Discord.GuildID, log)

	// Optional cross-replica confirmation lease
	var lease port.Guard
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("redis connect", zap.Error(err))
		}
		lease = redisguard.New(rdb, cfg.Redis.LeaseTTL)
		log.Info("confirmation lease enabled", zap.String("addr", cfg.Redis.Addr))
	}

	// Core services
	channels := service.NewChannelResolver(messenger, service.ChannelResolverConfig{
		FixedChannelID: cfg.Discord.FixedChannelID,
		AutoCreate:     cfg.Discord.AutoCreate,
	}, log)
	dispatcher := service.NewDispatcher(store, messenger, channels, log)
	resolver := service.NewResolver(store, messenger, lease, log)

	// Click intake from the gateway
	unsubscribe := discord.SubscribeClicks(session, resolver, log)

	// HTTP API
	httpHandler := handler.NewHTTPHandler(dispatcher, resolver, log)
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpHandler.Router(),
	}

	go func() {
		log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Error("http server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}

	unsubscribe()
	if err := session.Close(); err != nil {
		log.Warn("discord close", zap.Error(err))
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Warn("redis close", zap.Error(err))
		}
	}

	log.Info("stopped")
}
