package bot

import (
	"context"
	"log"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/daoforge/bounty-board/src/BBBot/components"
)

type Config struct {
	Token          string
	GuildID        string
	ReviewerRoleID string
	DB             *gorm.DB
	Redis          *redis.Client
}

type Bot struct {
	session    *discordgo.Session
	db         *gorm.DB
	rdb        *redis.Client
	config     Config
	poster     *components.Poster
	commands   *components.Handler
	reconciler *components.Reconciler
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

func New(config Config) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	bot := &Bot{
		session: dg,
		db:      config.DB,
		rdb:     config.Redis,
		config:  config,
		ctx:     ctx,
		cancel:  cancel,
	}

	bot.initializeComponents()
	bot.registerHandlers()

	dg.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent |
		discordgo.IntentsGuilds

	return bot, nil
}

func (b *Bot) initializeComponents() {
	b.poster = &components.Poster{
		DB:      b.db,
		Rdb:     b.rdb,
		Session: b.session,
	}

	b.commands = components.NewHandler(components.Config{
		DB:             b.db,
		Redis:          b.rdb,
		Poster:         b.poster,
		ReviewerRoleID: b.config.ReviewerRoleID,
		GuildID:        b.config.GuildID,
	})

	b.reconciler = components.NewReconciler(b.db, b.poster)
}

func (b *Bot) registerHandlers() {
	b.session.AddHandler(b.handleReady)
	b.session.AddHandler(b.commands.HandleMessage)
}

func (b *Bot) Start() error {
	return b.session.Open()
}

func (b *Bot) Stop() {
	b.cancel()
	b.reconciler.Stop()
	b.wg.Wait()
	b.session.Close()
}

func (b *Bot) handleReady(s *discordgo.Session, event *discordgo.Ready) {
	log.Printf("Discord bot logged in as %s", event.User.Username)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.poster.Run(b.ctx)
	}()

	if err := b.reconciler.Start(); err != nil {
		log.Printf("Failed to start reconcile job: %v", err)
	}
}
