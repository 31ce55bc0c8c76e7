package projects

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	Service ProjectService
}

func NewHandler(s ProjectService) *Handler {
	return &Handler{Service: s}
}

type generateMilestonesRequest struct {
	ProjectDescription string  `json:"project_description"`
	TotalBudget        float64 `json:"total_budget"`
}

type createProjectRequest struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	TotalBudget      float64  `json:"total_budget"`
	ContractorWallet string   `json:"contractor_wallet"`
	UseAIMilestones  bool     `json:"use_ai_milestones"`
	ManualMilestones []string `json:"manual_milestones"`
}

type milestoneResponse struct {
	ID               uint    `json:"id"`
	ProjectID        uint    `json:"project_id"`
	Description      string  `json:"description"`
	Amount           float64 `json:"amount"`
	OrderIndex       int     `json:"order_index"`
	Status           string  `json:"status"`
	SettlementTxHash *string `json:"settlement_tx_hash,omitempty"`
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func (h *Handler) GenerateMilestones(c *gin.Context) {
	var req generateMilestonesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	milestones, err := h.Service.GenerateMilestones(c.Request.Context(), req.ProjectDescription, toCents(req.TotalBudget))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"milestones": milestones})
}

func (h *Handler) CreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	project, err := h.Service.CreateProject(c.Request.Context(), CreateProjectRequest{
		Name:             req.Name,
		Description:      req.Description,
		TotalBudgetCents: toCents(req.TotalBudget),
		ContractorWallet: req.ContractorWallet,
		UseAIMilestones:  req.UseAIMilestones,
		ManualMilestones: req.ManualMilestones,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project_id":         project.ID,
		"milestones_created": len(project.Milestones),
	})
}

func (h *Handler) ListMilestones(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	milestones, err := h.Service.ListMilestones(c.Request.Context(), uint(projectID))
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]milestoneResponse, len(milestones))
	for i, m := range milestones {
		resp[i] = milestoneResponse{
			ID:               m.ID,
			ProjectID:        m.ProjectID,
			Description:      m.Description,
			Amount:           m.Amount(),
			OrderIndex:       m.OrderIndex,
			Status:           string(m.Status),
			SettlementTxHash: m.SettlementTxHash,
		}
	}
	c.JSON(http.StatusOK, gin.H{"milestones": resp})
}

func writeError(c *gin.Context, err error) {
	var malformed *MalformedPlanError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, ErrEmptyPlan),
		errors.Is(err, ErrBudgetNotPositive),
		errors.Is(err, ErrDescriptionRequired),
		errors.As(err, &malformed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
