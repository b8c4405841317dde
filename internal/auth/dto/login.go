package dto

type LoginInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Fingerprint string `json:"-"`
	IPAddress   string `json:"-"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LoginOutput struct {
	TokenResponse
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}
