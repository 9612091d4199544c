package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/uniflow/uniflow-api/internal/models"
	appErrors "github.com/uniflow/uniflow-api/pkg/errors"
)

type accessRepo interface {
	EnsureRoles(ctx context.Context, table map[models.UserRole][]models.Capability) error
}

// AccessService seeds the role and capability tables at startup. The seed is
// idempotent so repeated boots leave existing rows untouched.
type AccessService struct {
	access accessRepo
	logger *zap.Logger
}

// NewAccessService constructs an AccessService.
func NewAccessService(access accessRepo, logger *zap.Logger) *AccessService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccessService{access: access, logger: logger}
}

// Bootstrap writes the static role-to-capability table into the database.
func (s *AccessService) Bootstrap(ctx context.Context) error {
	if err := s.access.EnsureRoles(ctx, models.RoleCapabilities); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed roles")
	}
	s.logger.Info("role capabilities seeded", zap.Int("roles", len(models.RoleCapabilities)))
	return nil
}
