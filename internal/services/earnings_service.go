package services

import (
	"context"
	"regexp"
	"strings"

	"alphaDash/internal/models"
	"alphaDash/internal/session"
)

var ifscPattern = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)

type EarningsPlatform interface {
	Earnings(ctx context.Context, token string) (models.EarningsReport, error)
	UpdateBankDetails(ctx context.Context, token string, details models.BankDetails) error
}

type EarningsService struct {
	Platform EarningsPlatform
	Logger   Logger
}

func (s *EarningsService) Earnings(ctx context.Context, sess *session.Session) (models.EarningsReport, error) {
	token, err := accessToken(sess)
	if err != nil {
		return models.EarningsReport{}, err
	}
	return s.Platform.Earnings(ctx, token)
}

// UpdateBankDetails validates and submits the payout account, then keeps the
// session copy of the profile in step.
func (s *EarningsService) UpdateBankDetails(ctx context.Context, sess *session.Session, details models.BankDetails) (models.BankDetails, error) {
	token, err := accessToken(sess)
	if err != nil {
		return models.BankDetails{}, err
	}
	details, err = ValidateBankDetails(details)
	if err != nil {
		return models.BankDetails{}, err
	}
	if err := s.Platform.UpdateBankDetails(ctx, token, details); err != nil {
		return models.BankDetails{}, err
	}

	alpha, _ := sess.Alpha()
	stored := details
	alpha.BankDetails = &stored
	if err := sess.UpdateAlpha(ctx, alpha); err != nil {
		loggerOrNop(s.Logger).Errorf("cache bank details for session %s: %v", sess.ID(), err)
	}
	return details, nil
}

// ValidateBankDetails trims every field, upper-cases the IFSC code and checks
// that all four fields are present and the IFSC code is well formed.
func ValidateBankDetails(d models.BankDetails) (models.BankDetails, error) {
	out := models.BankDetails{
		AccountNumber:     strings.TrimSpace(d.AccountNumber),
		IFSCCode:          strings.ToUpper(strings.TrimSpace(d.IFSCCode)),
		BankName:          strings.TrimSpace(d.BankName),
		AccountHolderName: strings.TrimSpace(d.AccountHolderName),
	}
	switch {
	case out.AccountHolderName == "":
		return models.BankDetails{}, models.NewValidationError("account holder name is required")
	case out.AccountNumber == "":
		return models.BankDetails{}, models.NewValidationError("account number is required")
	case out.IFSCCode == "":
		return models.BankDetails{}, models.NewValidationError("ifsc code is required")
	case out.BankName == "":
		return models.BankDetails{}, models.NewValidationError("bank name is required")
	}
	if !ifscPattern.MatchString(out.IFSCCode) {
		return models.BankDetails{}, models.NewValidationError("invalid ifsc code %q", out.IFSCCode)
	}
	return out, nil
}
