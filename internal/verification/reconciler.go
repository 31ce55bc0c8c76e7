package verification

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"optic-gov/oracle-backend/internal/projects"
)

// Reconciler periodically reports milestones stuck in payment_failed:
// money that should have moved but did not. It never retries on its own;
// retries go through the explicit retry endpoint.
type Reconciler struct {
	store Store
	cron  *cron.Cron
}

func NewReconciler(store Store) *Reconciler {
	return &Reconciler{
		store: store,
		cron:  cron.New(),
	}
}

func (r *Reconciler) Start() error {
	if _, err := r.cron.AddFunc("@every 10m", r.report); err != nil {
		return err
	}
	r.cron.Start()
	return nil
}

func (r *Reconciler) Stop() {
	r.cron.Stop()
}

func (r *Reconciler) report() {
	milestones, err := r.store.ListMilestonesByStatus(context.Background(), projects.StatusPaymentFailed)
	if err != nil {
		log.Printf("reconciler: failed to list payment_failed milestones: %v", err)
		return
	}
	for _, m := range milestones {
		log.Printf("reconciler: milestone %d (project %d, amount %.2f) stuck in payment_failed since %s; settlement retry required",
			m.ID, m.ProjectID, m.Amount(), m.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
}
