package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"patungan/internal/sqlinline"
)

// CampaignProgress returns the public funding progress for a campaign,
// including its current payability so the page can hide the pay button the
// moment sharing is revoked or the window lapses.
func (a *App) CampaignProgress(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "campaign_id")
	if campaignID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "campaign_id required")
		return
	}

	pay, err := a.Guard.IsPayable(r.Context(), campaignID)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load campaign")
		return
	}

	row := a.SQL.QueryRow(r.Context(), sqlinline.QCampaignProgress, campaignID)
	var raised, count int64
	if err := row.Scan(&raised, &count); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load progress")
		return
	}

	resp := map[string]any{
		"campaign_id": campaignID,
		"raised":      raised,
		"donations":   count,
		"payable":     pay.Payable,
	}
	if !pay.Payable {
		resp["reason"] = string(pay.Reason)
	}
	a.json(w, http.StatusOK, resp)
}

// CampaignDonations lists recent donations for public display.
func (a *App) CampaignDonations(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "campaign_id")
	if campaignID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "campaign_id required")
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	rows, err := a.SQL.Query(r.Context(), sqlinline.QListCampaignDonations, campaignID, limit)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load donations")
		return
	}
	defer rows.Close()

	items := []map[string]any{}
	for rows.Next() {
		var id, donorName, message string
		var amount int64
		var createdAt time.Time
		if err := rows.Scan(&id, &donorName, &message, &amount, &createdAt); err != nil {
			continue
		}
		items = append(items, map[string]any{
			"id":         id,
			"donor_name": donorName,
			"message":    message,
			"amount":     amount,
			"created_at": createdAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
