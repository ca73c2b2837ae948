package models

// Identity là người dùng hiện tại do identity provider cung cấp.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// Session là thông tin đăng nhập của một request. Session không có User
// nghĩa là chưa đăng nhập.
type Session struct {
	User    *Identity `json:"user"`
	IsAdmin bool      `json:"isAdmin"`
}

// AnonymousSession trả về session chưa đăng nhập
func AnonymousSession() Session {
	return Session{}
}

func NewSession(user Identity, isAdmin bool) Session {
	return Session{User: &user, IsAdmin: isAdmin}
}

func (s Session) SignedIn() bool {
	return s.User != nil && s.User.ID != ""
}

// SessionEventKind mô tả thay đổi trạng thái đăng nhập
type SessionEventKind string

const (
	SessionSignedIn       SessionEventKind = "signed_in"
	SessionSignedOut      SessionEventKind = "signed_out"
	SessionProfileUpdated SessionEventKind = "profile_updated"
)

type SessionEvent struct {
	UserID string           `json:"userId"`
	Kind   SessionEventKind `json:"kind"`
}
