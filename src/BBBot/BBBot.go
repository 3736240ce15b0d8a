package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/daoforge/bounty-board/src/BBBot/bot"
	"github.com/daoforge/bounty-board/src/BBBot/config"
	"github.com/daoforge/bounty-board/src/shared/data"
)

func main() {
	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		mysqlDSN = "bountyboard:bountyboard@tcp(127.0.0.1:3306)/bountyboard?parseTime=true"
	}

	db := data.MustMySQL(mysqlDSN)

	cfg := config.Load(db)

	rdb := data.MustRedis(cfg.RedisURL)

	b, err := bot.New(bot.Config{
		Token:          cfg.Token,
		GuildID:        cfg.GuildID,
		ReviewerRoleID: cfg.ReviewerRoleID,
		DB:             db,
		Redis:          rdb,
	})
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	if err := b.Start(); err != nil {
		log.Fatalf("Failed to start bot: %v", err)
	}

	log.Println("Bounty bot is running. Press CTRL-C to exit.")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	b.Stop()
	log.Println("Bounty bot stopped gracefully")
}
