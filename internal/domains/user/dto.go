package user

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type UpdateMeRequest struct {
	DisplayName   *string   `json:"display_name"`
	Bio           *string   `json:"bio"`
	Company       *string   `json:"company"`
	Location      *string   `json:"location"`
	ExpertiseTags *[]string `json:"expertise_tags"`
	Username      *string   `json:"username"`
}

func (r UpdateMeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DisplayName, validation.Length(0, 255)),
		validation.Field(&r.Bio, validation.Length(0, 2000)),
		validation.Field(&r.Company, validation.Length(0, 255)),
		validation.Field(&r.Location, validation.Length(0, 255)),
		validation.Field(&r.ExpertiseTags, validation.By(func(value interface{}) error {
			tags, ok := value.(*[]string)
			if !ok || tags == nil {
				return nil
			}
			if len(*tags) > MaxExpertiseTags {
				return validation.NewError("too_many_tags", "at most 10 expertise tags allowed")
			}
			return nil
		})),
	)
}

type CheckUsernameRequest struct {
	Username string `json:"username"`
}

func (r CheckUsernameRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required.Error("username is required")),
	)
}

type CheckUsernameResponse struct {
	Available  bool   `json:"available"`
	Normalized string `json:"normalized,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// PrivateProfile is the authenticated user's own profile, email included.
type PrivateProfile struct {
	ID               uuid.UUID  `json:"id"`
	Email            string     `json:"email"`
	Username         string     `json:"username"`
	DisplayName      *string    `json:"display_name"`
	GithubUsername   *string    `json:"github_username"`
	AvatarURL        *string    `json:"avatar_url"`
	Bio              *string    `json:"bio"`
	Company          *string    `json:"company"`
	Location         *string    `json:"location"`
	ExpertiseTags    []string   `json:"expertise_tags"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at"`
	UsernameEditable bool       `json:"username_editable"`
}

// PublicProfile omits the email and login metadata.
type PublicProfile struct {
	ID            uuid.UUID  `json:"id"`
	Username      string     `json:"username"`
	DisplayName   *string    `json:"display_name"`
	AvatarURL     *string    `json:"avatar_url"`
	Bio           *string    `json:"bio"`
	Company       *string    `json:"company"`
	Location      *string    `json:"location"`
	ExpertiseTags []string   `json:"expertise_tags"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
}

type ListFilter struct {
	Query  string
	Tag    string
	Limit  int
	Offset int
}

func ToPrivateProfile(u *User, usernameEditable bool) *PrivateProfile {
	return &PrivateProfile{
		ID:               u.ID,
		Email:            u.Email,
		Username:         u.Username,
		DisplayName:      u.DisplayName,
		GithubUsername:   u.GithubUsername,
		AvatarURL:        u.AvatarURL,
		Bio:              u.Bio,
		Company:          u.Company,
		Location:         u.Location,
		ExpertiseTags:    append([]string{}, u.ExpertiseTags...),
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
		UsernameEditable: usernameEditable,
	}
}

func ToPublicProfile(u *User) *PublicProfile {
	return &PublicProfile{
		ID:            u.ID,
		Username:      u.Username,
		DisplayName:   u.DisplayName,
		AvatarURL:     u.AvatarURL,
		Bio:           u.Bio,
		Company:       u.Company,
		Location:      u.Location,
		ExpertiseTags: append([]string{}, u.ExpertiseTags...),
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
