package verification

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"optic-gov/oracle-backend/internal/projects"
	"optic-gov/oracle-backend/pkg/oracle"
)

// The settlement gate: an AI verdict authorizes an irreversible fund
// release only at or above this confidence.
const confidenceThreshold = 95

// OracleClient judges video evidence against a milestone description.
type OracleClient interface {
	VerifyEvidence(ctx context.Context, videoURL, criteria string) (*oracle.Verdict, error)
}

// SettlementClient submits a fund-release instruction and returns a
// transaction hash. Avoiding a double release is this package's job, not
// the client's.
type SettlementClient interface {
	Release(ctx context.Context, projectID uint) (string, error)
}

// Service is the verification orchestrator: it turns an oracle verdict into
// at most one settlement per milestone.
type Service struct {
	store      Store
	oracle     OracleClient
	settlement SettlementClient
	machine    *projects.StateMachine
	inflight   *inflightGuard

	oracleTimeout     time.Duration
	settlementTimeout time.Duration
}

func NewService(store Store, oracleClient OracleClient, settlementClient SettlementClient, oracleTimeout, settlementTimeout time.Duration) *Service {
	return &Service{
		store:             store,
		oracle:            oracleClient,
		settlement:        settlementClient,
		machine:           projects.NewStateMachine(),
		inflight:          newInflightGuard(),
		oracleTimeout:     oracleTimeout,
		settlementTimeout: settlementTimeout,
	}
}

// Verify runs one verification attempt for the milestone. The returned
// verdict is always the oracle's judgment verbatim; the settlement outcome
// only changes the milestone status, observable separately.
func (s *Service) Verify(ctx context.Context, milestoneID uint, evidenceURL, criteria string) (*oracle.Verdict, error) {
	if !s.inflight.tryAcquire(milestoneID) {
		return nil, ErrConcurrentVerification
	}
	defer s.inflight.release(milestoneID)

	milestone, err := s.store.GetMilestone(ctx, milestoneID)
	if err != nil {
		return nil, err
	}
	if milestone.Status == projects.StatusPaid {
		return nil, ErrAlreadySettled
	}
	if !s.machine.CanTransition(milestone.Status, projects.StatusSubmitted) {
		return nil, ErrAwaitingSettlement
	}

	octx, cancel := context.WithTimeout(ctx, s.oracleTimeout)
	defer cancel()

	verdict, err := s.oracle.VerifyEvidence(octx, evidenceURL, criteria)
	if err != nil {
		return nil, &OracleUnavailableError{Err: err}
	}

	s.recordAttempt(ctx, milestoneID, evidenceURL, verdict)

	if !gatePasses(verdict) {
		if err := s.store.UpdateMilestoneStatus(ctx, milestoneID, milestone.Status, projects.StatusRejected); err != nil {
			log.Printf("milestone %d: failed to record rejection: %v", milestoneID, err)
		}
		return verdict, nil
	}

	// Compare-and-transition: the conditional update is the durable guard
	// against settling a milestone whose status moved underneath us.
	if err := s.store.UpdateMilestoneStatus(ctx, milestoneID, milestone.Status, projects.StatusVerified); err != nil {
		log.Printf("milestone %d: passed gate but status moved, skipping settlement: %v", milestoneID, err)
		return verdict, nil
	}

	s.settle(ctx, milestone.ID, milestone.ProjectID, projects.StatusVerified)

	return verdict, nil
}

// RetrySettlement re-runs only the settlement step for a payment_failed
// milestone. The oracle is never re-invoked here.
func (s *Service) RetrySettlement(ctx context.Context, milestoneID uint) (*projects.Milestone, error) {
	if !s.inflight.tryAcquire(milestoneID) {
		return nil, ErrConcurrentVerification
	}
	defer s.inflight.release(milestoneID)

	milestone, err := s.store.GetMilestone(ctx, milestoneID)
	if err != nil {
		return nil, err
	}
	if milestone.Status == projects.StatusPaid {
		return nil, ErrAlreadySettled
	}
	if milestone.Status != projects.StatusPaymentFailed {
		return nil, ErrNotRetryable
	}

	s.settle(ctx, milestone.ID, milestone.ProjectID, projects.StatusPaymentFailed)

	return s.store.GetMilestone(ctx, milestoneID)
}

// settle issues the fund release and records the outcome. A timeout is
// ambiguous (the network may have accepted the transaction), so it lands
// in payment_failed for manual reconciliation rather than being assumed
// either way.
func (s *Service) settle(ctx context.Context, milestoneID, projectID uint, from projects.MilestoneStatus) {
	sctx, cancel := context.WithTimeout(ctx, s.settlementTimeout)
	defer cancel()

	txHash, err := s.settlement.Release(sctx, projectID)
	if err != nil {
		log.Printf("milestone %d: fund release failed, needs operator follow-up: %v", milestoneID, err)
		if uerr := s.store.UpdateMilestoneStatus(ctx, milestoneID, from, projects.StatusPaymentFailed); uerr != nil {
			log.Printf("milestone %d: failed to record payment failure: %v", milestoneID, uerr)
		}
		return
	}

	if err := s.store.MarkMilestonePaid(ctx, milestoneID, from, txHash); err != nil {
		log.Printf("milestone %d: settled as %s but failed to record: %v", milestoneID, txHash, err)
		return
	}
	log.Printf("milestone %d: funds released, tx %s", milestoneID, txHash)
}

func (s *Service) recordAttempt(ctx context.Context, milestoneID uint, evidenceURL string, verdict *oracle.Verdict) {
	attempt := &VerificationAttempt{
		ID:              uuid.New(),
		MilestoneID:     milestoneID,
		EvidenceURL:     evidenceURL,
		Verified:        verdict.Verified,
		ConfidenceScore: verdict.ConfidenceScore,
		Reasoning:       verdict.Reasoning,
		RawVerdict:      datatypes.JSON(verdict.Raw),
	}
	if err := s.store.CreateAttempt(ctx, attempt); err != nil {
		log.Printf("milestone %d: failed to record verification attempt: %v", milestoneID, err)
	}
}

func gatePasses(verdict *oracle.Verdict) bool {
	return verdict.Verified && verdict.ConfidenceScore >= confidenceThreshold
}
