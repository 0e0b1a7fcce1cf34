package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"

	"alphaDash/internal/models"
)

func (c *Client) Profile(ctx context.Context, token string) (models.Alpha, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/alphas/profile", nil, token, nil, &raw); err != nil {
		return models.Alpha{}, err
	}
	var alpha models.Alpha
	if err := unwrap(raw, &alpha); err != nil {
		return models.Alpha{}, fmt.Errorf("decode profile: %w", err)
	}
	return alpha, nil
}

// UpdateSkills replaces the skill list. The platform answers with the updated
// profile; a body without one yields a zero Alpha and ok=false.
func (c *Client) UpdateSkills(ctx context.Context, token string, skills []string) (alpha models.Alpha, ok bool, err error) {
	var raw json.RawMessage
	req := models.UpdateSkillsRequest{Skills: skills}
	if err := c.doJSON(ctx, http.MethodPut, "/alphas/profile", nil, token, req, &raw); err != nil {
		return models.Alpha{}, false, err
	}
	if len(raw) == 0 {
		return models.Alpha{}, false, nil
	}
	if err := unwrap(raw, &alpha); err != nil || alpha.ID == "" {
		return models.Alpha{}, false, nil
	}
	return alpha, true, nil
}

// AvatarUpload is an already validated image.
type AvatarUpload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// UploadAvatar sends the image as multipart field "avatar" and returns the new
// avatar URL when the platform reports one.
func (c *Client) UploadAvatar(ctx context.Context, token string, upload AvatarUpload) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="avatar"; filename=%q`, upload.FileName))
	header.Set("Content-Type", upload.ContentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("create avatar part: %w", err)
	}
	if _, err := part.Write(upload.Data); err != nil {
		return "", fmt.Errorf("write avatar part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart: %w", err)
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPut, "/alphas/avatar", nil, token, mw.FormDataContentType(), &buf, &raw); err != nil {
		return "", err
	}
	if len(raw) == 0 {
		return "", nil
	}
	var body struct {
		UserAvatar string `json:"userAvatar"`
		AvatarURL  string `json:"avatarUrl"`
	}
	if err := unwrap(raw, &body); err != nil {
		return "", nil
	}
	if body.UserAvatar != "" {
		return body.UserAvatar, nil
	}
	return body.AvatarURL, nil
}

// Assignments lists the Alpha's assignments, optionally narrowed to one status.
func (c *Client) Assignments(ctx context.Context, token, status string) ([]models.Assignment, error) {
	var query url.Values
	if status != "" {
		query = url.Values{"status": {status}}
	}
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/alphas/assignments", query, token, nil, &raw); err != nil {
		return nil, err
	}
	list := []models.Assignment{}
	if len(raw) == 0 {
		return list, nil
	}
	if err := unwrap(raw, &list); err != nil {
		return nil, fmt.Errorf("decode assignments: %w", err)
	}
	if list == nil {
		list = []models.Assignment{}
	}
	return list, nil
}

// AcceptAssignment moves an assignment from assigned to in_progress.
func (c *Client) AcceptAssignment(ctx context.Context, token, id string) error {
	return c.doJSON(ctx, http.MethodPost, "/alphas/assignments/"+url.PathEscape(id)+"/accept", nil, token, nil, nil)
}

// CompleteAssignment moves an assignment from in_progress to completed.
func (c *Client) CompleteAssignment(ctx context.Context, token, id string) error {
	return c.doJSON(ctx, http.MethodPost, "/alphas/assignments/"+url.PathEscape(id)+"/complete", nil, token, nil, nil)
}

type earningsData struct {
	Summary              models.Earnings  `json:"summary"`
	CompletedAssignments int              `json:"completedAssignments"`
	Rating               float64          `json:"rating"`
	RecentPayments       []models.Payment `json:"recentPayments"`
}

// Earnings returns the summary block and the payment history. The platform puts
// recentPayments next to data rather than inside it; both places are read.
func (c *Client) Earnings(ctx context.Context, token string) (models.EarningsReport, error) {
	var body struct {
		earningsData
		Data *earningsData `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/alphas/earnings", nil, token, nil, &body); err != nil {
		return models.EarningsReport{}, err
	}

	src := body.earningsData
	if body.Data != nil {
		src.Summary = body.Data.Summary
		src.CompletedAssignments = body.Data.CompletedAssignments
		src.Rating = body.Data.Rating
		if src.RecentPayments == nil {
			src.RecentPayments = body.Data.RecentPayments
		}
	}
	report := models.EarningsReport{
		Summary:              src.Summary,
		CompletedAssignments: src.CompletedAssignments,
		Rating:               src.Rating,
		RecentPayments:       src.RecentPayments,
	}
	if report.RecentPayments == nil {
		report.RecentPayments = []models.Payment{}
	}
	return report, nil
}

func (c *Client) UpdateBankDetails(ctx context.Context, token string, details models.BankDetails) error {
	payload := models.BankDetails{
		AccountNumber:     details.AccountNumber,
		IFSCCode:          details.IFSCCode,
		BankName:          details.BankName,
		AccountHolderName: details.AccountHolderName,
	}
	return c.doJSON(ctx, http.MethodPut, "/alphas/bank-details", nil, token, payload, nil)
}
