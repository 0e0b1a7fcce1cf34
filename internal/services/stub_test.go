package services

import (
	"context"
	"sync"
	"testing"

	"alphaDash/internal/models"
	"alphaDash/internal/platform"
	"alphaDash/internal/session"
)

// stubPlatform implements every platform interface; unset funcs return zero values.
type stubPlatform struct {
	sendOTP            func(ctx context.Context, phone, collegeID string) (string, error)
	verifyOTP          func(ctx context.Context, phone, collegeID, otp string) (platform.LoginResult, error)
	profile            func(ctx context.Context, token string) (models.Alpha, error)
	updateSkills       func(ctx context.Context, token string, skills []string) (models.Alpha, bool, error)
	uploadAvatar       func(ctx context.Context, token string, upload platform.AvatarUpload) (string, error)
	assignments        func(ctx context.Context, token, status string) ([]models.Assignment, error)
	acceptAssignment   func(ctx context.Context, token, id string) error
	completeAssignment func(ctx context.Context, token, id string) error
	earnings           func(ctx context.Context, token string) (models.EarningsReport, error)
	updateBankDetails  func(ctx context.Context, token string, details models.BankDetails) error
	snacks             func(ctx context.Context, token string) ([]models.Snack, error)
	vendors            func(ctx context.Context, token string, openOnly bool) ([]models.Vendor, error)
	placeSnackOrder    func(ctx context.Context, token string, order models.SnackOrderRequest) (models.SnackOrder, error)
}

func (p *stubPlatform) SendOTP(ctx context.Context, phone, collegeID string) (string, error) {
	if p.sendOTP == nil {
		return "", nil
	}
	return p.sendOTP(ctx, phone, collegeID)
}

func (p *stubPlatform) VerifyOTP(ctx context.Context, phone, collegeID, otp string) (platform.LoginResult, error) {
	if p.verifyOTP == nil {
		return platform.LoginResult{}, nil
	}
	return p.verifyOTP(ctx, phone, collegeID, otp)
}

func (p *stubPlatform) Profile(ctx context.Context, token string) (models.Alpha, error) {
	if p.profile == nil {
		return models.Alpha{}, nil
	}
	return p.profile(ctx, token)
}

func (p *stubPlatform) UpdateSkills(ctx context.Context, token string, skills []string) (models.Alpha, bool, error) {
	if p.updateSkills == nil {
		return models.Alpha{}, false, nil
	}
	return p.updateSkills(ctx, token, skills)
}

func (p *stubPlatform) UploadAvatar(ctx context.Context, token string, upload platform.AvatarUpload) (string, error) {
	if p.uploadAvatar == nil {
		return "", nil
	}
	return p.uploadAvatar(ctx, token, upload)
}

func (p *stubPlatform) Assignments(ctx context.Context, token, status string) ([]models.Assignment, error) {
	if p.assignments == nil {
		return nil, nil
	}
	return p.assignments(ctx, token, status)
}

func (p *stubPlatform) AcceptAssignment(ctx context.Context, token, id string) error {
	if p.acceptAssignment == nil {
		return nil
	}
	return p.acceptAssignment(ctx, token, id)
}

func (p *stubPlatform) CompleteAssignment(ctx context.Context, token, id string) error {
	if p.completeAssignment == nil {
		return nil
	}
	return p.completeAssignment(ctx, token, id)
}

func (p *stubPlatform) Earnings(ctx context.Context, token string) (models.EarningsReport, error) {
	if p.earnings == nil {
		return models.EarningsReport{}, nil
	}
	return p.earnings(ctx, token)
}

func (p *stubPlatform) UpdateBankDetails(ctx context.Context, token string, details models.BankDetails) error {
	if p.updateBankDetails == nil {
		return nil
	}
	return p.updateBankDetails(ctx, token, details)
}

func (p *stubPlatform) Snacks(ctx context.Context, token string) ([]models.Snack, error) {
	if p.snacks == nil {
		return nil, nil
	}
	return p.snacks(ctx, token)
}

func (p *stubPlatform) Vendors(ctx context.Context, token string, openOnly bool) ([]models.Vendor, error) {
	if p.vendors == nil {
		return nil, nil
	}
	return p.vendors(ctx, token, openOnly)
}

func (p *stubPlatform) PlaceSnackOrder(ctx context.Context, token string, order models.SnackOrderRequest) (models.SnackOrder, error) {
	if p.placeSnackOrder == nil {
		return models.SnackOrder{}, nil
	}
	return p.placeSnackOrder(ctx, token, order)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events map[string][]Event
}

func (r *recordingPublisher) Publish(sessionID string, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.events == nil {
		r.events = make(map[string][]Event)
	}
	r.events[sessionID] = append(r.events[sessionID], event)
}

func (r *recordingPublisher) types(sessionID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events[sessionID] {
		out = append(out, e.Type)
	}
	return out
}

// loggedIn returns an authenticated session backed by a memory store.
func loggedIn(t *testing.T, alpha models.Alpha) *session.Session {
	t.Helper()
	sess := session.New("sid-"+t.Name(), session.NewMemoryStore())
	if err := sess.Login(context.Background(), alpha, models.Tokens{AccessToken: "acc", RefreshToken: "ref"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	return sess
}
