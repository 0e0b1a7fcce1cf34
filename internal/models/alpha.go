package models

type Alpha struct {
	ID                   string       `json:"_id"`
	UserName             string       `json:"userName"`
	Phone                string       `json:"phone"`
	CollegeID            string       `json:"collegeId,omitempty"`
	UserAvatar           string       `json:"userAvatar,omitempty"`
	Skills               []string     `json:"skills"`
	Bio                  string       `json:"bio,omitempty"`
	MinBudget            float64      `json:"minBudget,omitempty"`
	Status               string       `json:"status"`
	IsAvailable          bool         `json:"isAvailable"`
	Earnings             Earnings     `json:"earnings"`
	CompletedAssignments int          `json:"completedAssignments"`
	Rating               float64      `json:"rating"`
	TotalRatings         int          `json:"totalRatings"`
	BankDetails          *BankDetails `json:"bankDetails,omitempty"`
}

// Earnings is the running total shown on the dashboard cards.
type Earnings struct {
	Total     float64 `json:"total"`
	Pending   float64 `json:"pending"`
	Withdrawn float64 `json:"withdrawn"`
}

type BankDetails struct {
	AccountNumber     string `json:"accountNumber"`
	IFSCCode          string `json:"ifscCode"`
	BankName          string `json:"bankName"`
	AccountHolderName string `json:"accountHolderName"`
	IsVerified        bool   `json:"isVerified,omitempty"`
}

type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type OTPRequest struct {
	Phone     string `json:"phone"`
	CollegeID string `json:"collegeId"`
	OTP       string `json:"otp,omitempty"`
}

type UpdateSkillsRequest struct {
	Skills []string `json:"skills"`
}
