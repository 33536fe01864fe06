package roost

// Profile mirrors the payload returned by /api/v1/me.
type Profile struct {
	Realname         string            `json:"realname"`
	Email            string            `json:"email"`
	Username         string            `json:"username"`
	AvatarURL        string            `json:"avatarUrl"`
	URL              string            `json:"url"`
	StatusText       string            `json:"statusText"`
	StatusType       string            `json:"statusType"`
	Bio              string            `json:"bio"`
	CustomFields     map[string]string `json:"customFields"`
	HasLocalPassword bool              `json:"hasLocalPassword"`
}

// Settings mirrors the administrator settings bag returned by
// /api/v1/settings. The values are read-only from the client's point of
// view; administrators update them out of band.
type Settings struct {
	AllowRealnameChange      bool   `json:"allowRealnameChange"`
	AllowEmailChange         bool   `json:"allowEmailChange"`
	AllowPasswordChange      bool   `json:"allowPasswordChange"`
	AllowUsernameChange      bool   `json:"allowUsernameChange"`
	AllowAvatarChange        bool   `json:"allowAvatarChange"`
	AllowStatusMessageChange bool   `json:"allowStatusMessageChange"`
	AllowDeleteOwnAccount    bool   `json:"allowDeleteOwnAccount"`
	RequireName              bool   `json:"requireName"`
	DirectoryEnabled         bool   `json:"directoryEnabled"`
	UsernameValidation       string `json:"usernameValidation"`
}

// saveRequest is the wire shape for POST /api/v1/me.
type saveRequest struct {
	Data         map[string]any    `json:"data"`
	CustomFields map[string]string `json:"customFields"`
}

// avatarRequest is the wire shape for POST /api/v1/me/avatar.
type avatarRequest struct {
	Image string `json:"image"`
}

// deleteRequest is the wire shape for POST /api/v1/me/delete.
type deleteRequest struct {
	Password string `json:"password"`
	Force    bool   `json:"force,omitempty"`
}
