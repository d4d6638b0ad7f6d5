// internal/app/features/status/handler.go
package status

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/pujahub/internal/app/docstore"
	uierrors "github.com/dalemusser/pujahub/internal/app/features/errors"
	pujastore "github.com/dalemusser/pujahub/internal/app/store/pujas"
	"github.com/dalemusser/pujahub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ConfigItem is one displayed setting. Secrets arrive already masked.
type ConfigItem struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ConfigGroup groups settings under a heading.
type ConfigGroup struct {
	Name  string       `json:"name"`
	Items []ConfigItem `json:"items"`
}

type Handler struct {
	Store   docstore.Store
	Pujas   *pujastore.Store
	Backend string
	Config  []ConfigGroup
	Started time.Time
	Log     *zap.Logger

	now func() time.Time
}

func NewHandler(ds docstore.Store, pujas *pujastore.Store, backend string, config []ConfigGroup, started time.Time, logger *zap.Logger) *Handler {
	return &Handler{
		Store:   ds,
		Pujas:   pujas,
		Backend: backend,
		Config:  config,
		Started: started,
		Log:     logger,
		now:     time.Now,
	}
}

type orphanView struct {
	Collection string `json:"collection"`
	PujaID     string `json:"pujaId"`
}

type statusResponse struct {
	Backend     string        `json:"backend"`
	Database    string        `json:"database"`
	Error       string        `json:"error,omitempty"`
	Uptime      string        `json:"uptime"`
	Collections int           `json:"collections"`
	Orphans     []orphanView  `json:"orphans"`
	Config      []ConfigGroup `json:"config"`
}

// Serve handles GET /admin/status. A store failure is reported in the body
// rather than as an error status so the page still shows the config.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Backend:  h.Backend,
		Database: "connected",
		Uptime:   h.now().Sub(h.Started).Round(time.Second).String(),
		Orphans:  []orphanView{},
		Config:   h.Config,
	}

	pingCtx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()
	if err := h.Store.Ping(pingCtx); err != nil {
		h.Log.Warn("status: store ping failed", zap.Error(err))
		resp.Database = "disconnected"
		resp.Error = err.Error()
		uierrors.WriteJSON(w, http.StatusOK, resp)
		return
	}

	ctx, cancelLong := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "status scan")
	defer cancelLong()
	if names, err := h.Store.Collections(ctx); err == nil {
		resp.Collections = len(names)
	} else {
		h.Log.Warn("status: list collections failed", zap.Error(err))
	}
	if orphans, err := h.Pujas.Orphans(ctx); err == nil {
		for _, o := range orphans {
			resp.Orphans = append(resp.Orphans, orphanView{Collection: o.Collection, PujaID: o.PujaID})
		}
	} else {
		h.Log.Warn("status: orphan scan failed", zap.Error(err))
	}
	uierrors.WriteJSON(w, http.StatusOK, resp)
}
