package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"alphaDash/internal/assignments"
	"alphaDash/internal/cart"
	"alphaDash/internal/models"
	"alphaDash/internal/platform"
	"alphaDash/internal/session"
)

type AuthPlatform interface {
	SendOTP(ctx context.Context, phone, collegeID string) (string, error)
	VerifyOTP(ctx context.Context, phone, collegeID, otp string) (platform.LoginResult, error)
}

type AuthService struct {
	Platform AuthPlatform
	Store    session.Store
	Carts    *cart.Registry
	Boards   *assignments.Registry
	Events   Publisher
	Logger   Logger
}

// SendOTP asks the platform for a code. The dev code is returned when the
// platform echoes one.
func (s *AuthService) SendOTP(ctx context.Context, phone, collegeID string) (string, error) {
	phone, collegeID, err := credentials(phone, collegeID)
	if err != nil {
		return "", err
	}
	devOTP, err := s.Platform.SendOTP(ctx, phone, collegeID)
	if err != nil {
		loggerOrNop(s.Logger).Errorf("send otp for %s: %v", phone, err)
		return "", err
	}
	return devOTP, nil
}

// VerifyOTP logs in and returns a new persisted session.
func (s *AuthService) VerifyOTP(ctx context.Context, phone, collegeID, otp string) (*session.Session, error) {
	phone, collegeID, err := credentials(phone, collegeID)
	if err != nil {
		return nil, err
	}
	otp = strings.TrimSpace(otp)
	if otp == "" {
		return nil, models.NewValidationError("otp is required")
	}

	res, err := s.Platform.VerifyOTP(ctx, phone, collegeID, otp)
	if err != nil {
		loggerOrNop(s.Logger).Errorf("verify otp for %s: %v", phone, err)
		return nil, err
	}

	sess := session.New(uuid.NewString(), s.Store)
	if err := sess.Login(ctx, res.User, res.Tokens); err != nil {
		return nil, err
	}
	loggerOrNop(s.Logger).Infof("alpha %s signed in, session %s", res.User.ID, sess.ID())
	return sess, nil
}

// Restore loads the session behind a verified handle.
func (s *AuthService) Restore(ctx context.Context, sessionID string) (*session.Session, error) {
	return session.Restore(ctx, s.Store, sessionID)
}

// Logout clears the persisted session and every in-memory per-session state.
func (s *AuthService) Logout(ctx context.Context, sess *session.Session) error {
	if sess == nil {
		return nil
	}
	if s.Carts != nil {
		s.Carts.Drop(sess.ID())
	}
	if s.Boards != nil {
		s.Boards.Drop(sess.ID())
	}
	err := sess.Logout(ctx)
	if err != nil {
		loggerOrNop(s.Logger).Errorf("logout session %s: %v", sess.ID(), err)
	}
	publish(s.Events, sess.ID(), Event{Type: EventLoggedOut})
	return err
}

func credentials(phone, collegeID string) (string, string, error) {
	phone = strings.TrimSpace(phone)
	collegeID = strings.TrimSpace(collegeID)
	if phone == "" {
		return "", "", models.NewValidationError("phone is required")
	}
	if collegeID == "" {
		return "", "", models.NewValidationError("collegeId is required")
	}
	return phone, collegeID, nil
}
