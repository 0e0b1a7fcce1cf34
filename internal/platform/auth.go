package platform

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"alphaDash/internal/models"
)

// ErrIncompleteLogin is returned when OTP verification succeeds but the body
// lacks the user or the token pair.
var ErrIncompleteLogin = errors.New("invalid response from server")

// SendOTP asks the platform to text a one-time password. Outside production the
// platform echoes the code back; it is returned as devOTP, empty otherwise.
func (c *Client) SendOTP(ctx context.Context, phone, collegeID string) (string, error) {
	var raw json.RawMessage
	req := models.OTPRequest{Phone: phone, CollegeID: collegeID}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/otp/send", nil, "", req, &raw); err != nil {
		return "", err
	}
	if len(raw) == 0 {
		return "", nil
	}

	var resp struct {
		OTP  string `json:"otp"`
		Data *struct {
			OTP string `json:"otp"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", nil
	}
	if resp.OTP != "" {
		return resp.OTP, nil
	}
	if resp.Data != nil {
		return resp.Data.OTP, nil
	}
	return "", nil
}

type LoginResult struct {
	User   models.Alpha
	Tokens models.Tokens
}

// VerifyOTP exchanges the code for the worker profile and a token pair.
func (c *Client) VerifyOTP(ctx context.Context, phone, collegeID, otp string) (LoginResult, error) {
	var raw json.RawMessage
	req := models.OTPRequest{Phone: phone, CollegeID: collegeID, OTP: otp}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/otp/verify", nil, "", req, &raw); err != nil {
		return LoginResult{}, err
	}

	var body struct {
		User   *models.Alpha  `json:"user"`
		Tokens *models.Tokens `json:"tokens"`
	}
	if len(raw) == 0 {
		return LoginResult{}, ErrIncompleteLogin
	}
	if err := unwrap(raw, &body); err != nil {
		return LoginResult{}, ErrIncompleteLogin
	}
	if body.User == nil || body.Tokens == nil || body.Tokens.AccessToken == "" {
		return LoginResult{}, ErrIncompleteLogin
	}
	return LoginResult{User: *body.User, Tokens: *body.Tokens}, nil
}
