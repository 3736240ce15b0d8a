package webserver

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/daoforge/bounty-board/src/shared/bounty"
	"github.com/daoforge/bounty-board/src/shared/data"
	"github.com/daoforge/bounty-board/src/shared/types"
)

type Bounties struct {
	db        *gorm.DB
	rdb       *redis.Client
	authz     bounty.Authorizer
	sanitizer *bluemonday.Policy
}

func NewBounties(db *gorm.DB, rdb *redis.Client) Bounties {
	// Bounty text renders as plain markdown in Discord and the frontend, so
	// strip every HTML element outright.
	return Bounties{
		db:        db,
		rdb:       rdb,
		authz:     bounty.KeyAuthorizer{},
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (h Bounties) List(c *gin.Context) {
	q := h.db.Order("created_at desc")

	if s := c.Query("status"); s != "" {
		if !bounty.ValidStatus(s) {
			c.JSON(http.StatusBadRequest, gin.H{"err": "invalid status filter"})
			return
		}
		q = q.Where("status = ?", s)
	}
	if cid := c.Query("customerId"); cid != "" {
		q = q.Where("customer_id = ?", cid)
	}

	// Pagination is opt-in: both params absent returns the full list.
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"err": "limit must be between 1 and 100"})
			return
		}
		q = q.Limit(n)
	}
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"err": "invalid offset"})
			return
		}
		q = q.Offset(n)
	}

	bounties := []types.Bounty{}
	if err := q.Find(&bounties).Error; err != nil {
		log.Printf("list bounties: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "storage failure"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": bounties})
}

func (h Bounties) Create(c *gin.Context) {
	raw, err := decodeBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "invalid JSON body"})
		return
	}

	now := time.Now().UTC()
	b, err := bounty.ValidateCreate(raw, now)
	if err != nil {
		respondValidation(c, err)
		return
	}

	b.Title = h.sanitizer.Sanitize(b.Title)
	b.Description = h.sanitizer.Sanitize(b.Description)
	b.Criteria = h.sanitizer.Sanitize(b.Criteria)

	if b.EditKey == "" {
		key, err := bounty.NewEditKey()
		if err != nil {
			log.Printf("generate edit key: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"err": "storage failure"})
			return
		}
		b.EditKey = key
	}

	bounty.RecordActivity(b, bounty.ActivityCreate, bounty.ClientBoard, now)

	if err := h.db.Create(b).Error; err != nil {
		log.Printf("create bounty: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "storage failure"})
		return
	}

	h.publish(c, bounty.ActivityCreate, b)

	// The only place the edit key ever leaves the system: the creator needs
	// it once, response bodies never carry it.
	c.Header("X-Edit-Key", b.EditKey)
	c.JSON(http.StatusOK, gin.H{"data": b})
}

func (h Bounties) Get(c *gin.Context) {
	b, ok := h.loadBounty(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": b})
}

func (h Bounties) Update(c *gin.Context) {
	b, ok := h.loadBounty(c)
	if !ok {
		return
	}

	if !h.authz.Authorize(b, c.Query("key")) {
		c.JSON(http.StatusBadRequest, gin.H{"err": "missing or invalid edit key"})
		return
	}

	raw, err := decodeBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "invalid JSON body"})
		return
	}

	p, err := bounty.ValidateUpdate(raw)
	if err != nil {
		respondValidation(c, err)
		return
	}

	now := time.Now().UTC()
	changed := false

	if p.Status != nil && *p.Status != b.Status {
		// API-side transitions act for the edit-key holder, i.e. the creator.
		if err := bounty.Transition(b, *p.Status, b.CreatedBy, bounty.ClientBoard, now); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"err": "invalid status transition"})
			return
		}
		changed = true
	}

	setText := func(dst *string, src *string) {
		if src == nil {
			return
		}
		clean := h.sanitizer.Sanitize(*src)
		if *dst != clean {
			*dst = clean
			changed = true
		}
	}
	setText(&b.Title, p.Title)
	setText(&b.Description, p.Description)
	setText(&b.Criteria, p.Criteria)
	setText(&b.SubmissionNotes, p.SubmissionNotes)

	// URLs are not prose; escaping & in a query string would corrupt the
	// link, so the validator vets the field instead.
	if p.SubmissionURL != nil && *p.SubmissionURL != b.SubmissionURL {
		b.SubmissionURL = *p.SubmissionURL
		changed = true
	}

	if p.Reward != nil && *p.Reward != b.Reward {
		b.Reward = *p.Reward
		changed = true
	}
	if p.DueAt != nil && !p.DueAt.Equal(b.DueAt) {
		b.DueAt = *p.DueAt
		changed = true
	}

	// An identical repeat of a previous patch writes nothing, so replaying
	// an update is safe.
	if !changed {
		c.JSON(http.StatusOK, gin.H{"data": b})
		return
	}

	bounty.RecordActivity(b, bounty.ActivityUpdate, bounty.ClientBoard, now)

	if err := h.db.Save(b).Error; err != nil {
		log.Printf("update bounty %s: %v", b.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "storage failure"})
		return
	}

	h.publish(c, bounty.ActivityUpdate, b)

	c.JSON(http.StatusOK, gin.H{"data": b})
}

func (h Bounties) Delete(c *gin.Context) {
	b, ok := h.loadBounty(c)
	if !ok {
		return
	}

	// Delete requires the same capability as update; an unauthenticated
	// hard delete would let anyone clear the board.
	if !h.authz.Authorize(b, c.Query("key")) {
		c.JSON(http.StatusBadRequest, gin.H{"err": "missing or invalid edit key"})
		return
	}

	if err := h.db.Delete(&types.Bounty{}, "id = ?", b.ID).Error; err != nil {
		log.Printf("delete bounty %s: %v", b.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "storage failure"})
		return
	}

	h.publish(c, bounty.ActivityDelete, b)

	c.Status(http.StatusNoContent)
}

// loadBounty resolves the :id param. A malformed identifier is
// indistinguishable from an unknown one: both are 404.
func (h Bounties) loadBounty(c *gin.Context) (*types.Bounty, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "bounty not found"})
		return nil, false
	}

	var b types.Bounty
	if err := h.db.First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"err": "bounty not found"})
		} else {
			log.Printf("load bounty %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"err": "storage failure"})
		}
		return nil, false
	}
	return &b, true
}

func (h Bounties) publish(ctx context.Context, activity string, b *types.Bounty) {
	if h.rdb == nil {
		return
	}
	if err := data.PublishActivity(ctx, h.rdb, map[string]any{
		"id":               b.ID,
		"activity":         activity,
		"status":           b.Status,
		"customerId":       b.CustomerID,
		"discordMessageId": b.DiscordMessageID,
		"time":             time.Now().Unix(),
	}); err != nil {
		log.Printf("publish %s for bounty %s: %v", activity, b.ID, err)
	}
}

// decodeBody reads the request body preserving numbers as their original
// decimal strings, which the reward encoding depends on.
func decodeBody(c *gin.Context) (map[string]any, error) {
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func respondValidation(c *gin.Context, err error) {
	var verr *bounty.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"err": verr.Error(), "fields": verr.Fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
}
