package verification

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"optic-gov/oracle-backend/internal/auth"
	"optic-gov/oracle-backend/internal/projects"
	"optic-gov/oracle-backend/pkg/storage"
)

type Handler struct {
	Service  *Service
	Store    Store
	Evidence storage.EvidenceStore
}

func NewHandler(service *Service, store Store, evidence storage.EvidenceStore) *Handler {
	return &Handler{Service: service, Store: store, Evidence: evidence}
}

type verifyRequest struct {
	VideoURL          string `json:"video_url"`
	MilestoneCriteria string `json:"milestone_criteria"`
	ProjectID         uint   `json:"project_id"`
	MilestoneID       uint   `json:"milestone_id"`
}

type uploadURLRequest struct {
	ProjectID uint   `json:"project_id"`
	FileName  string `json:"file_name"`
}

func (h *Handler) VerifyMilestone(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.VideoURL == "" || req.MilestoneCriteria == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "video_url and milestone_criteria are required"})
		return
	}

	log.Printf("verification requested by %s for project %d", auth.CallerWallet(c), req.ProjectID)

	milestoneID := req.MilestoneID
	if milestoneID == 0 {
		id, err := h.nextVerifiableMilestone(c, req.ProjectID)
		if err != nil {
			writeError(c, err)
			return
		}
		milestoneID = id
	}

	verdict, err := h.Service.Verify(c.Request.Context(), milestoneID, req.VideoURL, req.MilestoneCriteria)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"verified":         verdict.Verified,
		"confidence_score": verdict.ConfidenceScore,
		"reasoning":        verdict.Reasoning,
	})
}

func (h *Handler) RetrySettlement(c *gin.Context) {
	milestoneID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid milestone id"})
		return
	}

	milestone, err := h.Service.RetrySettlement(c.Request.Context(), uint(milestoneID))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"milestone_id":       milestone.ID,
		"status":             milestone.Status,
		"settlement_tx_hash": milestone.SettlementTxHash,
	})
}

func (h *Handler) EvidenceUploadURL(c *gin.Context) {
	if h.Evidence == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "evidence storage not configured"})
		return
	}

	var req uploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.FileName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	key := fmt.Sprintf("evidence/%d/%s-%s", req.ProjectID, uuid.NewString(), req.FileName)
	uploadURL, err := h.Evidence.PresignUpload(c.Request.Context(), key, 15*time.Minute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to presign upload"})
		return
	}
	videoURL, err := h.Evidence.PresignDownload(c.Request.Context(), key, 2*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to presign download"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"upload_url": uploadURL, "video_url": videoURL})
}

// nextVerifiableMilestone picks the first milestone in order that can
// still accept a verification attempt, for callers that address the
// project rather than a specific milestone.
func (h *Handler) nextVerifiableMilestone(c *gin.Context, projectID uint) (uint, error) {
	milestones, err := h.Store.ListMilestones(c.Request.Context(), projectID)
	if err != nil {
		return 0, err
	}
	for _, m := range milestones {
		if m.Status == projects.StatusPending || m.Status == projects.StatusRejected {
			return m.ID, nil
		}
	}
	return 0, gorm.ErrRecordNotFound
}

func writeError(c *gin.Context, err error) {
	var oracleErr *OracleUnavailableError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, ErrAlreadySettled),
		errors.Is(err, ErrConcurrentVerification),
		errors.Is(err, ErrAwaitingSettlement),
		errors.Is(err, ErrNotRetryable),
		errors.Is(err, ErrStatusConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &oracleErr):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
