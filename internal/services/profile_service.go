package services

import (
	"context"
	"net/http"
	"strings"

	"alphaDash/internal/models"
	"alphaDash/internal/platform"
	"alphaDash/internal/session"
)

// MaxAvatarSize is the largest avatar accepted, 5 MB.
const MaxAvatarSize = 5 << 20

type ProfilePlatform interface {
	Profile(ctx context.Context, token string) (models.Alpha, error)
	UpdateSkills(ctx context.Context, token string, skills []string) (models.Alpha, bool, error)
	UploadAvatar(ctx context.Context, token string, upload platform.AvatarUpload) (string, error)
}

type ProfileService struct {
	Platform ProfilePlatform
	Logger   Logger
}

// Dashboard is the welcome page summary built from the cached profile.
type Dashboard struct {
	Name                 string          `json:"name"`
	Earnings             models.Earnings `json:"earnings"`
	CompletedAssignments int             `json:"completedAssignments"`
	Rating               float64         `json:"rating"`
	TotalRatings         int             `json:"totalRatings"`
	Status               string          `json:"status"`
	IsAvailable          bool            `json:"isAvailable"`
}

func (s *ProfileService) Dashboard(sess *session.Session) (Dashboard, error) {
	alpha, ok := sess.Alpha()
	if !ok {
		return Dashboard{}, models.ErrNotAuthenticated
	}
	d := Dashboard{
		Name:                 alpha.UserName,
		Earnings:             alpha.Earnings,
		CompletedAssignments: alpha.CompletedAssignments,
		Rating:               alpha.Rating,
		TotalRatings:         alpha.TotalRatings,
		Status:               alpha.Status,
		IsAvailable:          alpha.IsAvailable,
	}
	if d.Name == "" {
		d.Name = "Alpha"
	}
	if d.Status == "" {
		d.Status = "unknown"
	}
	return d, nil
}

// Profile refetches the profile and refreshes the session copy.
func (s *ProfileService) Profile(ctx context.Context, sess *session.Session) (models.Alpha, error) {
	token, err := accessToken(sess)
	if err != nil {
		return models.Alpha{}, err
	}
	alpha, err := s.Platform.Profile(ctx, token)
	if err != nil {
		return models.Alpha{}, err
	}
	if err := sess.UpdateAlpha(ctx, alpha); err != nil {
		loggerOrNop(s.Logger).Errorf("cache profile for session %s: %v", sess.ID(), err)
	}
	return alpha, nil
}

func (s *ProfileService) UpdateSkills(ctx context.Context, sess *session.Session, skills []string) (models.Alpha, error) {
	token, err := accessToken(sess)
	if err != nil {
		return models.Alpha{}, err
	}
	skills = NormalizeSkills(skills)

	updated, ok, err := s.Platform.UpdateSkills(ctx, token, skills)
	if err != nil {
		return models.Alpha{}, err
	}
	if !ok {
		updated, _ = sess.Alpha()
		updated.Skills = skills
	}
	if err := sess.UpdateAlpha(ctx, updated); err != nil {
		loggerOrNop(s.Logger).Errorf("cache profile for session %s: %v", sess.ID(), err)
	}
	return updated, nil
}

// UploadAvatar validates the image and forwards it. It returns the new avatar URL.
func (s *ProfileService) UploadAvatar(ctx context.Context, sess *session.Session, fileName string, data []byte) (string, error) {
	token, err := accessToken(sess)
	if err != nil {
		return "", err
	}
	contentType, err := ValidateAvatar(data)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(fileName) == "" {
		fileName = "avatar"
	}

	url, err := s.Platform.UploadAvatar(ctx, token, platform.AvatarUpload{
		FileName:    fileName,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		return "", err
	}
	if url != "" {
		alpha, _ := sess.Alpha()
		alpha.UserAvatar = url
		if err := sess.UpdateAlpha(ctx, alpha); err != nil {
			loggerOrNop(s.Logger).Errorf("cache avatar for session %s: %v", sess.ID(), err)
		}
	}
	return url, nil
}

// ValidateAvatar checks size and sniffs the content type, which must be image/*.
func ValidateAvatar(data []byte) (string, error) {
	if len(data) == 0 {
		return "", models.NewValidationError("avatar file is required")
	}
	if len(data) > MaxAvatarSize {
		return "", models.NewValidationError("avatar must be at most 5MB")
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", models.NewValidationError("avatar must be an image")
	}
	return contentType, nil
}

// NormalizeSkills trims every skill and drops empty ones.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, skill := range skills {
		if skill = strings.TrimSpace(skill); skill != "" {
			out = append(out, skill)
		}
	}
	return out
}
