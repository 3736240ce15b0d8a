package webserver

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/daoforge/bounty-board/src/shared/data"
	"github.com/daoforge/bounty-board/src/shared/types"
)

type Admin struct {
	db *gorm.DB
}

func NewAdmin(db *gorm.DB) Admin {
	return Admin{db: db}
}

// SetBountyChannel points a customer's bounty feed at a different Discord
// channel. The bot picks the new channel up on its next post.
func (a Admin) SetBountyChannel(c *gin.Context) {
	var req struct {
		CustomerID string `json:"customerId" binding:"required,min=1,max=64"`
		ChannelID  string `json:"channelId" binding:"required,min=10,max=30"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	// Discord channel IDs are numeric snowflakes
	if _, err := strconv.ParseUint(req.ChannelID, 10, 64); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "invalid Discord channel ID"})
		return
	}

	var customer types.Customer
	if err := a.db.First(&customer, "customer_id = ?", req.CustomerID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "customer not found"})
		return
	}

	log.Printf("Admin %v updating bounty channel for customer %s to %s",
		c.GetString("admin"), req.CustomerID, req.ChannelID)

	if err := a.db.Model(&types.Customer{}).Where("customer_id = ?", req.CustomerID).
		Update("bounty_channel_id", req.ChannelID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RefreshSettings reloads the settings cache from the database.
func (a Admin) RefreshSettings(c *gin.Context) {
	if err := data.RefreshSettings(a.db); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
