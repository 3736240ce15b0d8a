package webserver

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/daoforge/bounty-board/src/BBApi/config"
)

func attachRoutes(r *gin.Engine, cfg config.Config, db *gorm.DB, rdb *redis.Client) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Edit-Key"},
		AllowCredentials: true,
	}))

	bountyH := NewBounties(db, rdb)

	v1 := r.Group("/v1")
	{
		v1.GET("/bounties", bountyH.List)
		v1.POST("/bounties", bountyH.Create)
		v1.GET("/bounties/:id", bountyH.Get)
		v1.PATCH("/bounties/:id", bountyH.Update)
		v1.DELETE("/bounties/:id", bountyH.Delete)
	}

	admin := v1.Group("/admin")
	admin.Use(JWTMiddleware([]byte(cfg.JWTSecret)))
	{
		adminH := NewAdmin(db)
		admin.POST("/customers/channel", adminH.SetBountyChannel)
		admin.POST("/settings/refresh", adminH.RefreshSettings)
	}
}
