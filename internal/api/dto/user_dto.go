package dto

// UpdateUserRequest carries optional profile updates; absent fields stay
// unchanged.
type UpdateUserRequest struct {
	Name          *string `json:"name"`
	Email         *string `json:"email"`
	WalletAddress *string `json:"wallet_address"`
	ProfileImage  *string `json:"profile_image"`
}
