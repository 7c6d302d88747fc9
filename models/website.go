package models

import "time"

// WebsiteProfileID is the fixed key of the single website profile record.
const WebsiteProfileID = "default"

// WebsiteProfile is the company profile shown on the public site. At most one exists.
type WebsiteProfile struct {
	ID          string            `bson:"_id" json:"id"`
	Name        string            `bson:"name" json:"name"`
	Description string            `bson:"description" json:"description"`
	LogoURL     string            `bson:"logoUrl" json:"logoUrl"`
	Address     string            `bson:"address" json:"address"`
	Phone       string            `bson:"phone" json:"phone"`
	Email       string            `bson:"email" json:"email"`
	SocialLinks map[string]string `bson:"socialLinks" json:"socialLinks"`
	Gallery     []string          `bson:"gallery" json:"gallery"`

	IsUserRegistrationEnabled bool `bson:"isUserRegistrationEnabled" json:"isUserRegistrationEnabled"`
	IsBlogEnabled             bool `bson:"isBlogEnabled" json:"isBlogEnabled"`
	IsProductEnabled          bool `bson:"isProductEnabled" json:"isProductEnabled"`
	IsCommentEnabled          bool `bson:"isCommentEnabled" json:"isCommentEnabled"`
	IsLikeEnabled             bool `bson:"isLikeEnabled" json:"isLikeEnabled"`
	IsReviewEnabled           bool `bson:"isReviewEnabled" json:"isReviewEnabled"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// NewWebsiteProfile returns a profile with the default feature flags.
func NewWebsiteProfile(name string) *WebsiteProfile {
	return &WebsiteProfile{
		ID:                        WebsiteProfileID,
		Name:                      name,
		SocialLinks:               map[string]string{},
		Gallery:                   []string{},
		IsUserRegistrationEnabled: true,
		IsBlogEnabled:             true,
	}
}

type WebsiteProfileUpdate struct {
	Name        *string
	Description *string
	LogoURL     *string
	Address     *string
	Phone       *string
	Email       *string
	SocialLinks *map[string]string
	Gallery     *[]string

	IsUserRegistrationEnabled *bool
	IsBlogEnabled             *bool
	IsProductEnabled          *bool
	IsCommentEnabled          *bool
	IsLikeEnabled             *bool
	IsReviewEnabled           *bool
}
