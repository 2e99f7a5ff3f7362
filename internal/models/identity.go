package models

// Identity 已登录用户在会话中的最小视图
type Identity struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

func (id Identity) IsZero() bool {
	return id.DisplayName == ""
}
