package auth

import (
	"fmt"
	"strconv"

	"github.com/casbin/casbin/v2"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
)

// CasbinService implements domain.AccessService. Policies live in the
// database through the GORM adapter; the configured admin chat identities
// are seeded into the admin role on startup.
type CasbinService struct{ E *casbin.Enforcer }

func NewCasbinService(db *gorm.DB, modelPath string, adminChatIDs []int64) (*CasbinService, error) {
	adp, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(modelPath, adp)
	if err != nil {
		return nil, err
	}
	if err := e.LoadPolicy(); err != nil {
		return nil, err
	}

	if _, err := e.AddPolicy("role_admin", "admin", "access"); err != nil {
		return nil, fmt.Errorf("failed to seed admin policy: %w", err)
	}
	for _, id := range adminChatIDs {
		if _, err := e.AddGroupingPolicy(subject(id), "role_admin"); err != nil {
			return nil, fmt.Errorf("failed to seed admin role for %d: %w", id, err)
		}
	}
	if err := e.SavePolicy(); err != nil {
		return nil, err
	}

	return &CasbinService{E: e}, nil
}

// IsAdmin implements domain.AccessService
func (s *CasbinService) IsAdmin(chatID int64) bool {
	ok, err := s.E.Enforce(subject(chatID), "admin", "access")
	return err == nil && ok
}

func subject(chatID int64) string { return strconv.FormatInt(chatID, 10) }

var _ domain.AccessService = (*CasbinService)(nil)
