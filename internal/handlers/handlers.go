package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"golang.org/x/crypto/bcrypt"

	"github.com/ledgerline/onboarding/internal/derive"
	"github.com/ledgerline/onboarding/internal/funds"
	"github.com/ledgerline/onboarding/internal/middleware"
	"github.com/ledgerline/onboarding/internal/models"
	"github.com/ledgerline/onboarding/internal/repository"
	"github.com/ledgerline/onboarding/internal/session"
	"github.com/ledgerline/onboarding/internal/snapshot"
)

type Handler struct {
	Repo      repository.Repository
	Builder   *snapshot.Builder
	Tracker   *session.Tracker
	JWTSecret string
}

func NewHandler(repo repository.Repository, builder *snapshot.Builder, tracker *session.Tracker, jwtSecret string) *Handler {
	return &Handler{
		Repo:      repo,
		Builder:   builder,
		Tracker:   tracker,
		JWTSecret: jwtSecret,
	}
}

func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	if req.Login == "" || req.Password == "" {
		http.Error(w, "Login and password are required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	existingUser, err := h.Repo.GetUserByLogin(ctx, req.Login)
	if err != nil {
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	if existingUser != nil {
		http.Error(w, "Login already taken", http.StatusConflict)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	userID, err := h.Repo.CreateUser(ctx, req.Login, string(hashedPassword))
	if err != nil {
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	token, err := middleware.GenerateToken(userID, h.JWTSecret)
	if err != nil {
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	middleware.SetAuthCookie(w, token)
	w.Header().Set("Authorization", "Bearer "+token)
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) LoginUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	if req.Login == "" || req.Password == "" {
		http.Error(w, "Login and password are required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	user, err := h.Repo.GetUserByLogin(ctx, req.Login)
	if err != nil {
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	if user == nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password))
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := middleware.GenerateToken(user.ID, h.JWTSecret)
	if err != nil {
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	middleware.SetAuthCookie(w, token)
	w.Header().Set("Authorization", "Bearer "+token)
	w.WriteHeader(http.StatusOK)
}

// viewerSnapshot is the base snapshot with the viewer's sticky session flag
// folded in.
func (h *Handler) viewerSnapshot(r *http.Request, userID int64) (models.SignalSnapshot, error) {
	localDone, err := h.Tracker.ValidationCompleted(r.Context(), userID)
	if err != nil {
		return models.SignalSnapshot{}, err
	}
	return h.Builder.Snapshot().WithLocalValidation(localDone), nil
}

func (h *Handler) GetCurrentStep(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	snap, err := h.viewerSnapshot(r, userID)
	if err != nil {
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	response := struct {
		Step                models.Step     `json:"step"`
		Resolved            models.Resolved `json:"resolved"`
		RestrictedViewer    bool            `json:"restricted_viewer"`
		RequirementsPending []string        `json:"requirements_pending"`
	}{
		Step:                derive.Step(snap),
		Resolved:            snap.Resolved,
		RestrictedViewer:    snap.IsRestrictedViewer,
		RequirementsPending: h.Builder.RequirementsPending(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (h *Handler) GetSteps(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	snap, err := h.viewerSnapshot(r, userID)
	if err != nil {
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	current := derive.Step(snap)

	type stepResponse struct {
		Step      models.Step `json:"step"`
		Current   bool        `json:"current"`
		Reachable bool        `json:"reachable"`
	}

	response := make([]stepResponse, 0, len(models.Steps))
	for _, step := range models.Steps {
		response = append(response, stepResponse{
			Step:      step,
			Current:   step == current,
			Reachable: derive.CanNavigateTo(step, snap),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (h *Handler) GetStepReachability(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	step, err := models.ParseStep(chi.URLParam(r, "step"))
	if err != nil {
		http.Error(w, "Unknown step", http.StatusBadRequest)
		return
	}

	snap, err := h.viewerSnapshot(r, userID)
	if err != nil {
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	response := struct {
		Step      models.Step `json:"step"`
		Reachable bool        `json:"reachable"`
	}{
		Step:      step,
		Reachable: derive.CanNavigateTo(step, snap),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (h *Handler) GetFundBuckets(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserID(r.Context()); !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	summary, resolved := h.Builder.FundSummary()

	response := struct {
		Buckets            []funds.Bucket   `json:"buckets"`
		Dominant           models.MoneyState `json:"dominant"`
		Resolved           bool              `json:"resolved"`
		Restrictions       []string          `json:"restrictions"`
		PendingExplanation string            `json:"pending_explanation,omitempty"`
		ReserveExplanation string            `json:"reserve_explanation,omitempty"`
		LastRecalculatedAt *time.Time        `json:"last_recalculated_at"`
	}{
		Buckets:  []funds.Bucket{},
		Dominant: h.Builder.Dominant(),
		Resolved: resolved,
	}

	if resolved {
		response.Buckets = funds.Classify(summary, h.Builder.CashBalance())
		response.Restrictions = summary.Restrictions
		response.PendingExplanation = summary.PendingExplanation
		response.ReserveExplanation = summary.ReserveExplanation
		response.LastRecalculatedAt = summary.LastRecalculatedAt
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (h *Handler) GetAccountHealth(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserID(r.Context()); !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var status models.FinancialAccountStatus
	account, _ := h.Builder.FinancialAccount()
	if account != nil {
		status = account.Status
	}

	summary, fundResolved := h.Builder.FundSummary()
	var restrictions []string
	if fundResolved {
		restrictions = summary.Restrictions
	}
	hasFundData := fundResolved && summary.TotalAmount > 0

	response := struct {
		State models.OnboardingState `json:"state"`
	}{
		State: funds.Health(status, restrictions, hasFundData),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// requireWriter authorizes a session mutation: restricted viewers can read
// everything but change nothing.
func (h *Handler) requireWriter(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return 0, false
	}

	if h.Builder.Snapshot().IsRestrictedViewer {
		http.Error(w, "Restricted viewer", http.StatusForbidden)
		return 0, false
	}

	return userID, true
}

func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireWriter(w, r)
	if !ok {
		return
	}

	sess, err := h.Tracker.Start(r.Context(), userID)
	if err != nil {
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sess)
}

func (h *Handler) RecordStepEntered(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireWriter(w, r)
	if !ok {
		return
	}

	step, err := models.ParseStep(chi.URLParam(r, "step"))
	if err != nil {
		http.Error(w, "Unknown step", http.StatusBadRequest)
		return
	}

	sess, err := h.Tracker.RecordStepEntered(r.Context(), userID, step)
	if err != nil {
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sess)
}

func (h *Handler) RecordStepCompleted(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireWriter(w, r)
	if !ok {
		return
	}

	step, err := models.ParseStep(chi.URLParam(r, "step"))
	if err != nil {
		http.Error(w, "Unknown step", http.StatusBadRequest)
		return
	}

	sess, err := h.Tracker.RecordStepCompleted(r.Context(), userID, step)
	if err != nil {
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	if sess == nil {
		// Terminal completion destroyed the session.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sess)
}

func (h *Handler) ClearSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireWriter(w, r)
	if !ok {
		return
	}

	if err := h.Tracker.Clear(r.Context(), userID); err != nil {
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
