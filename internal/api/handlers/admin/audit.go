package admin

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/5w1tchy/oku-storefront/internal/store/ledger"
	"github.com/5w1tchy/oku-storefront/internal/web"
)

// GET /admin/audit?action=&page=&size=
func (h *Handler) AuditLog(w http.ResponseWriter, r *http.Request) {
	page, size := web.PageParams(r, 20)
	action := strings.TrimSpace(r.URL.Query().Get("action"))

	events, total, err := h.Ledger.ListAudit(r.Context(), ledger.AuditFilter{Action: action, Page: page, Size: size})
	if err != nil {
		h.Views.Fail(w, r, fmt.Errorf("list audit: %w", err))
		return
	}
	pages := (total + size - 1) / size
	h.Views.Render(w, r, http.StatusOK, "audit", web.AuditPage{
		Events: events,
		Action: action,
		Pager:  web.NewPager(r, page, size, pages),
	})
}
