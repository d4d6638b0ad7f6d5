// internal/app/features/members/handler.go
package members

import (
	"net/http"

	uierrors "github.com/dalemusser/pujahub/internal/app/features/errors"
	memberstore "github.com/dalemusser/pujahub/internal/app/store/members"
	"github.com/dalemusser/pujahub/internal/app/system/auditlog"
	"github.com/dalemusser/pujahub/internal/app/system/authz"
	"github.com/dalemusser/pujahub/internal/domain/models"
	"go.uber.org/zap"
)

// Handler is the feature-level handler for Members.
type Handler struct {
	Members *memberstore.Store
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
	Audit   *auditlog.Logger
}

func NewHandler(members *memberstore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Members: members, ErrLog: errLog, Log: logger}
}

// clubFor pins a write to the caller's club. Only the platform admin may
// name another club.
func clubFor(r *http.Request, requested string) string {
	if authz.IsPlatformAdmin(r) && requested != "" {
		return requested
	}
	return authz.UserClubID(r)
}

func redact(list []models.Member) []models.Member {
	out := make([]models.Member, len(list))
	for i, m := range list {
		out[i] = m.Redacted()
	}
	return out
}
