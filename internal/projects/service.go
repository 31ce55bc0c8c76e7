package projects

import (
	"context"
	"errors"

	"optic-gov/oracle-backend/internal/contractors"
)

// CreateProjectRequest carries everything needed to create a project with
// its milestone batch.
type CreateProjectRequest struct {
	Name             string
	Description      string
	TotalBudgetCents int64
	ContractorWallet string
	UseAIMilestones  bool
	ManualMilestones []string
}

// ContractorDirectory resolves a wallet address to a contractor record.
type ContractorDirectory interface {
	GetByWallet(ctx context.Context, walletAddress string) (*contractors.Contractor, error)
}

// Service interface
type ProjectService interface {
	GenerateMilestones(ctx context.Context, description string, budgetCents int64) ([]string, error)
	CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error)
	GetProject(ctx context.Context, id uint) (*Project, error)
	ListMilestones(ctx context.Context, projectID uint) ([]Milestone, error)
}

type projectService struct {
	repo        Repository
	contractors ContractorDirectory
	planner     *Planner
}

func NewService(repo Repository, directory ContractorDirectory, planner *Planner) ProjectService {
	return &projectService{
		repo:        repo,
		contractors: directory,
		planner:     planner,
	}
}

// GenerateMilestones previews a generated plan without creating anything.
func (s *projectService) GenerateMilestones(ctx context.Context, description string, budgetCents int64) ([]string, error) {
	items, err := s.planner.PlanGenerated(ctx, description, budgetCents)
	if err != nil {
		return nil, err
	}
	descriptions := make([]string, len(items))
	for i, item := range items {
		descriptions[i] = item.Description
	}
	return descriptions, nil
}

func (s *projectService) CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	if req.Name == "" {
		return nil, errors.New("name is required")
	}

	contractor, err := s.contractors.GetByWallet(ctx, req.ContractorWallet)
	if err != nil {
		return nil, err
	}

	var items []PlanItem
	if req.UseAIMilestones {
		items, err = s.planner.PlanGenerated(ctx, req.Description, req.TotalBudgetCents)
	} else {
		items, err = s.planner.PlanManual(req.Description, req.TotalBudgetCents, req.ManualMilestones)
	}
	if err != nil {
		return nil, err
	}

	project := &Project{
		Name:             req.Name,
		Description:      req.Description,
		TotalBudgetCents: req.TotalBudgetCents,
		ContractorID:     contractor.ID,
		AIGenerated:      req.UseAIMilestones,
	}
	for i, item := range items {
		project.Milestones = append(project.Milestones, Milestone{
			Description: item.Description,
			AmountCents: item.AmountCents,
			OrderIndex:  i + 1,
			Status:      StatusPending,
		})
	}

	if err := s.repo.CreateProject(ctx, project); err != nil {
		return nil, err
	}

	return project, nil
}

func (s *projectService) GetProject(ctx context.Context, id uint) (*Project, error) {
	return s.repo.GetProject(ctx, id)
}

func (s *projectService) ListMilestones(ctx context.Context, projectID uint) ([]Milestone, error) {
	if _, err := s.repo.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	return s.repo.ListMilestones(ctx, projectID)
}
