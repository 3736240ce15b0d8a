package components

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"

	"github.com/daoforge/bounty-board/src/shared/bounty"
	"github.com/daoforge/bounty-board/src/shared/types"
)

// Reconciler periodically posts bounties that never made it to Discord,
// covering events lost while the bot was down.
type Reconciler struct {
	db        *gorm.DB
	poster    *Poster
	scheduler gocron.Scheduler
}

func NewReconciler(db *gorm.DB, poster *Poster) *Reconciler {
	return &Reconciler{db: db, poster: poster}
}

func (r *Reconciler) Start() error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	r.scheduler = sched

	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(r.run),
	)
	if err != nil {
		return err
	}

	sched.Start()
	return nil
}

func (r *Reconciler) Stop() {
	if r.scheduler != nil {
		_ = r.scheduler.Shutdown()
	}
}

func (r *Reconciler) run() {
	bounties, err := staleBounties(r.db)
	if err != nil {
		log.Printf("Reconcile query: %v", err)
		return
	}

	for i := range bounties {
		if err := r.poster.PostOrUpdate(&bounties[i]); err != nil {
			log.Printf("Reconcile bounty %s: %v", bounties[i].ID, err)
		}
	}
}

// staleBounties finds published bounties with no Discord message.
func staleBounties(db *gorm.DB) ([]types.Bounty, error) {
	var bounties []types.Bounty
	err := db.Where("status <> ? AND discord_message_id = ?", bounty.StatusDraft, "").
		Find(&bounties).Error
	return bounties, err
}
