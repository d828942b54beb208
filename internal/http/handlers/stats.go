package handlers

import (
	"net/http"

	"patungan/internal/sqlinline"
)

func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	row := a.SQL.QueryRow(r.Context(), sqlinline.QStatsSummary)
	var donations, amountTotal, donations24, campaignsFunded int64
	if err := row.Scan(&donations, &amountTotal, &donations24, &campaignsFunded); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load stats")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"donations":        donations,
		"amount_total":     amountTotal,
		"donations_24h":    donations24,
		"campaigns_funded": campaignsFunded,
	})
}
