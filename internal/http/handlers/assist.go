package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"patungan/internal/domain"
	"patungan/internal/middleware"
	"patungan/internal/providers/image"
	"patungan/internal/providers/prompt"
	"patungan/internal/sqlinline"
)

type assistTextRequest struct {
	Prompt string `json:"prompt"`
}

type assistImageRequest struct {
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspect_ratio"`
}

// AssistText drafts pitch copy. The quota check runs strictly before the
// provider call: a denied request performs no downstream work.
func (a *App) AssistText(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req assistTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Prompt == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "prompt is required")
		return
	}

	decision, err := a.Quota.CheckAndIncrement(r.Context(), userID, domain.KindTextAssist)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "quota check failed")
		return
	}
	if !decision.Allowed {
		a.quotaExceeded(w, domain.KindTextAssist, decision.Ceiling)
		return
	}

	started := time.Now()
	result, err := a.Enhancer.Enhance(r.Context(), prompt.AssistRequest{
		Prompt: req.Prompt,
		Locale: middleware.LocaleFromContext(r.Context()),
	})
	a.logUsageEvent(r.Context(), userID, "TEXT_ASSIST", err == nil, time.Since(started))
	if err != nil {
		a.error(w, http.StatusBadGateway, "provider_failure", "text assist unavailable")
		return
	}

	a.json(w, http.StatusOK, map[string]any{
		"text":      result.Text,
		"remaining": decision.Remaining(),
	})
}

// AssistImage renders a pitch illustration under the image-generate budget,
// which is independent from the text-assist budget.
func (a *App) AssistImage(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req assistImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Prompt == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "prompt is required")
		return
	}
	if a.Images == nil {
		a.error(w, http.StatusServiceUnavailable, "provider_unavailable", "image generation is not configured")
		return
	}

	decision, err := a.Quota.CheckAndIncrement(r.Context(), userID, domain.KindImageGenerate)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "quota check failed")
		return
	}
	if !decision.Allowed {
		a.quotaExceeded(w, domain.KindImageGenerate, decision.Ceiling)
		return
	}

	started := time.Now()
	result, err := a.Images.Generate(r.Context(), image.GenerateRequest{
		Prompt:      req.Prompt,
		AspectRatio: req.AspectRatio,
	})
	a.logUsageEvent(r.Context(), userID, "IMAGE_GENERATE", err == nil, time.Since(started))
	if err != nil {
		a.error(w, http.StatusBadGateway, "provider_failure", "image generation unavailable")
		return
	}

	a.json(w, http.StatusOK, map[string]any{
		"mime_type": result.MimeType,
		"data":      base64.StdEncoding.EncodeToString(result.Data),
		"remaining": decision.Remaining(),
	})
}

func (a *App) quotaExceeded(w http.ResponseWriter, kind domain.ResourceKind, ceiling int) {
	a.error(w, http.StatusForbidden, "quota_exceeded",
		fmt.Sprintf("daily %s quota of %d reached, resets at midnight UTC", kind, ceiling))
}

// logUsageEvent appends to the usage audit log. Best effort; the assist
// response never waits on it failing.
func (a *App) logUsageEvent(ctx context.Context, userID, eventType string, success bool, latency time.Duration) {
	requestID := middleware.RequestIDFromContext(ctx)
	_, err := a.SQL.Exec(ctx, sqlinline.QInsertUsageEvent,
		userID, requestID, eventType, success, int(latency.Milliseconds()), json.RawMessage(`{}`))
	if err != nil {
		a.Logger.Warn().Err(err).Str("event_type", eventType).Msg("failed to log usage event")
	}
}
