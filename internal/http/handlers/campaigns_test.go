package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func progressRow(raised, count int64) SimpleRow {
	return NewSimpleRow(func(dest ...any) error {
		*dest[0].(*int64) = raised
		*dest[1].(*int64) = count
		return nil
	})
}

func TestCampaignProgress(t *testing.T) {
	app, _ := newTestApp()
	app.SQL = &fakeSQL{rows: []SimpleRow{progressRow(125000, 4)}}

	req := httptest.NewRequest(http.MethodGet, "/v1/campaigns/camp-1/progress", nil)
	rec := httptest.NewRecorder()
	app.CampaignProgress(rec, withCampaignParam(req, "camp-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		CampaignID string `json:"campaign_id"`
		Raised     int64  `json:"raised"`
		Donations  int64  `json:"donations"`
		Payable    bool   `json:"payable"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Raised != 125000 || resp.Donations != 4 {
		t.Errorf("progress = %d/%d, want 125000/4", resp.Raised, resp.Donations)
	}
	if !resp.Payable {
		t.Error("public campaign reported not payable")
	}
}

func TestCampaignProgressNotShared(t *testing.T) {
	app, _ := newTestApp()
	app.Campaigns.(*fakeCampaignStore).link.Visibility = "private"
	app.SQL = &fakeSQL{rows: []SimpleRow{progressRow(0, 0)}}

	req := httptest.NewRequest(http.MethodGet, "/v1/campaigns/camp-1/progress", nil)
	rec := httptest.NewRecorder()
	app.CampaignProgress(rec, withCampaignParam(req, "camp-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Payable bool   `json:"payable"`
		Reason  string `json:"reason"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Payable {
		t.Error("private campaign reported payable")
	}
	if resp.Reason != "not-shared" {
		t.Errorf("reason = %q, want not-shared", resp.Reason)
	}
}

func TestCampaignProgressMissingParam(t *testing.T) {
	app, _ := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/v1/campaigns//progress", nil)
	rec := httptest.NewRecorder()
	app.CampaignProgress(rec, withCampaignParam(req, ""))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
