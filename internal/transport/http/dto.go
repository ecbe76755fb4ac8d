package httptransport

type LoginData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenRefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type PasswordResetConfirm struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type OrganizationCreate struct {
	Name string `json:"name"`
}
