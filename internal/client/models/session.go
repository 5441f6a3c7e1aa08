package models

// Session is what a successful POST /auth/login yields.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Username    string `json:"-"`
}

// APIError is the error body produced by the backend.
type APIError struct {
	Detail string `json:"detail"`
}
