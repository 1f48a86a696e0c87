package profile

// UpdateProfileRequest updates the caller's profile.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" binding:"omitempty,max=100"`
	AvatarURL   *string `json:"avatar_url" binding:"omitempty,url"`
}

// AvatarResponse is returned after an avatar upload.
type AvatarResponse struct {
	AvatarURL string `json:"avatar_url"`
}
