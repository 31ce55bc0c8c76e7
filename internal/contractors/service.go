package contractors

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrEmailTaken means the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials means the email/password pair does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type RegisterRequest struct {
	WalletAddress string `json:"wallet_address"`
	CompanyName   string `json:"company_name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
}

// Service handles contractor registration and login
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Contractor, error)
	Login(ctx context.Context, email, password string) (*Contractor, error)
}

type contractorService struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &contractorService{repo: repo}
}

func (s *contractorService) Register(ctx context.Context, req RegisterRequest) (*Contractor, error) {
	if req.WalletAddress == "" {
		return nil, errors.New("wallet_address is required")
	}
	if req.Email == "" {
		return nil, errors.New("email is required")
	}
	if req.Password == "" {
		return nil, errors.New("password is required")
	}

	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	contractor := &Contractor{
		WalletAddress: req.WalletAddress,
		CompanyName:   req.CompanyName,
		Email:         req.Email,
		PasswordHash:  string(hash),
	}
	if err := s.repo.Create(ctx, contractor); err != nil {
		return nil, err
	}

	return contractor, nil
}

func (s *contractorService) Login(ctx context.Context, email, password string) (*Contractor, error) {
	contractor, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(contractor.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return contractor, nil
}
