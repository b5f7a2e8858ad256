package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/identity"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateUserRequest registers a back-office or field user
type CreateUserRequest struct {
	Name string `json:"name" binding:"required"`
	Role string `json:"role" binding:"required"`
}

// CreateOutletRequest registers a retail outlet
type CreateOutletRequest struct {
	Name         string           `json:"name" binding:"required"`
	Address      string           `json:"address"`
	Contact      string           `json:"contact"`
	TaxInfo      string           `json:"tax_info"`
	PaymentModes []string         `json:"payment_modes"`
	CreditLimit  *decimal.Decimal `json:"credit_limit"`
}

// UserResponse is the user view
type UserResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Role string    `json:"role"`
}

// OutletResponse is the outlet view
type OutletResponse struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Address      string          `json:"address"`
	Contact      string          `json:"contact"`
	TaxInfo      string          `json:"tax_info"`
	PaymentModes []string        `json:"payment_modes"`
	CreditLimit  decimal.Decimal `json:"credit_limit"`
}

// ToUserResponse converts a user to its response DTO
func ToUserResponse(user *identity.User) UserResponse {
	return UserResponse{ID: user.ID, Name: user.Name, Role: user.Role.String()}
}

// ToOutletResponse converts an outlet to its response DTO
func ToOutletResponse(outlet *identity.Outlet) OutletResponse {
	return OutletResponse{
		ID:           outlet.ID,
		Name:         outlet.Name,
		Address:      outlet.Address,
		Contact:      outlet.Contact,
		TaxInfo:      outlet.TaxInfo,
		PaymentModes: outlet.PaymentModes,
		CreditLimit:  outlet.CreditLimit,
	}
}

// IdentityService manages users and outlets
type IdentityService struct {
	userRepo   identity.UserRepository
	outletRepo identity.OutletRepository
	logger     *zap.Logger
}

// NewIdentityService creates a new IdentityService
func NewIdentityService(userRepo identity.UserRepository, outletRepo identity.OutletRepository, logger *zap.Logger) *IdentityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentityService{
		userRepo:   userRepo,
		outletRepo: outletRepo,
		logger:     logger,
	}
}

// CreateUser registers a new user
func (s *IdentityService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	user, err := identity.NewUser(req.Name, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user created", zap.String("user_id", user.ID.String()), zap.String("role", user.Role.String()))
	resp := ToUserResponse(user)
	return &resp, nil
}

// ListUsers returns all users
func (s *IdentityService) ListUsers(ctx context.Context) ([]UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	resp := make([]UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, ToUserResponse(&users[i]))
	}
	return resp, nil
}

// CreateOutlet registers a new outlet
func (s *IdentityService) CreateOutlet(ctx context.Context, req CreateOutletRequest) (*OutletResponse, error) {
	outlet, err := identity.NewOutlet(req.Name, req.Address, req.Contact)
	if err != nil {
		return nil, err
	}
	outlet.TaxInfo = req.TaxInfo
	if len(req.PaymentModes) > 0 {
		outlet.PaymentModes = req.PaymentModes
	}
	if req.CreditLimit != nil {
		outlet.CreditLimit = *req.CreditLimit
	}
	if err := s.outletRepo.Save(ctx, outlet); err != nil {
		return nil, err
	}
	s.logger.Info("outlet created", zap.String("outlet_id", outlet.ID.String()), zap.String("name", outlet.Name))
	resp := ToOutletResponse(outlet)
	return &resp, nil
}

// ListOutlets returns all outlets
func (s *IdentityService) ListOutlets(ctx context.Context) ([]OutletResponse, error) {
	outlets, err := s.outletRepo.FindAll(ctx, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	resp := make([]OutletResponse, 0, len(outlets))
	for i := range outlets {
		resp = append(resp, ToOutletResponse(&outlets[i]))
	}
	return resp, nil
}
