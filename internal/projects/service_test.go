package projects

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"optic-gov/oracle-backend/internal/contractors"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateProject(ctx context.Context, project *Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockRepository) GetProject(ctx context.Context, id uint) (*Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Project), args.Error(1)
}

func (m *MockRepository) ListMilestones(ctx context.Context, projectID uint) ([]Milestone, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]Milestone), args.Error(1)
}

type fakeDirectory struct {
	contractor *contractors.Contractor
	err        error
}

func (f *fakeDirectory) GetByWallet(ctx context.Context, walletAddress string) (*contractors.Contractor, error) {
	return f.contractor, f.err
}

func TestCreateProjectManualMilestones(t *testing.T) {
	repo := new(MockRepository)
	directory := &fakeDirectory{contractor: &contractors.Contractor{ID: 12, WalletAddress: "0xDEADBEEF"}}
	service := NewService(repo, directory, NewPlanner(nil))
	ctx := context.Background()

	repo.On("CreateProject", ctx, mock.AnythingOfType("*projects.Project")).Return(nil)

	project, err := service.CreateProject(ctx, CreateProjectRequest{
		Name:             "Warehouse",
		Description:      "Steel-frame warehouse build",
		TotalBudgetCents: 1000000,
		ContractorWallet: "0xDEADBEEF",
		ManualMilestones: []string{"foundation", "framing", "roofing", "finishing"},
	})

	assert.NoError(t, err)
	assert.Equal(t, uint(12), project.ContractorID)
	assert.Len(t, project.Milestones, 4)

	var total int64
	for i, m := range project.Milestones {
		assert.Equal(t, i+1, m.OrderIndex)
		assert.Equal(t, StatusPending, m.Status)
		assert.Equal(t, int64(250000), m.AmountCents)
		total += m.AmountCents
	}
	assert.Equal(t, project.TotalBudgetCents, total)
	repo.AssertExpectations(t)
}

func TestCreateProjectGeneratedMilestones(t *testing.T) {
	repo := new(MockRepository)
	directory := &fakeDirectory{contractor: &contractors.Contractor{ID: 12}}
	generator := &fakeGenerator{milestones: []string{"site prep", "foundation", "framing", "roofing"}}
	service := NewService(repo, directory, NewPlanner(generator))
	ctx := context.Background()

	repo.On("CreateProject", ctx, mock.AnythingOfType("*projects.Project")).Return(nil)

	project, err := service.CreateProject(ctx, CreateProjectRequest{
		Name:             "Warehouse",
		Description:      "Steel-frame warehouse build",
		TotalBudgetCents: 999999,
		ContractorWallet: "0xDEADBEEF",
		UseAIMilestones:  true,
	})

	assert.NoError(t, err)
	assert.True(t, project.AIGenerated)
	assert.Len(t, project.Milestones, 4)

	var total int64
	for _, m := range project.Milestones {
		total += m.AmountCents
	}
	assert.Equal(t, int64(999999), total)
}

func TestCreateProjectEmptyManualPlan(t *testing.T) {
	repo := new(MockRepository)
	directory := &fakeDirectory{contractor: &contractors.Contractor{ID: 12}}
	service := NewService(repo, directory, NewPlanner(nil))

	_, err := service.CreateProject(context.Background(), CreateProjectRequest{
		Name:             "Warehouse",
		Description:      "Steel-frame warehouse build",
		TotalBudgetCents: 1000000,
		ContractorWallet: "0xDEADBEEF",
	})

	assert.ErrorIs(t, err, ErrEmptyPlan)
	repo.AssertNotCalled(t, "CreateProject", mock.Anything, mock.Anything)
}
