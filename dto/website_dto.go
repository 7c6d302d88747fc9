package dto

type WebsiteProfileRequest struct {
	Name        *string            `json:"name"`
	Description *string            `json:"description"`
	LogoURL     *string            `json:"logoUrl"`
	Address     *string            `json:"address"`
	Phone       *string            `json:"phone"`
	Email       *string            `json:"email"`
	SocialLinks *map[string]string `json:"socialLinks"`
	Gallery     *[]string          `json:"gallery"`

	IsUserRegistrationEnabled *bool `json:"isUserRegistrationEnabled"`
	IsBlogEnabled             *bool `json:"isBlogEnabled"`
	IsProductEnabled          *bool `json:"isProductEnabled"`
	IsCommentEnabled          *bool `json:"isCommentEnabled"`
	IsLikeEnabled             *bool `json:"isLikeEnabled"`
	IsReviewEnabled           *bool `json:"isReviewEnabled"`
}

type UploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
