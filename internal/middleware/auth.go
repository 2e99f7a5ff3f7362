package middleware

import (
	"net/http"

	"lostfound/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CurrentUserKey = "user"

const (
	sessionNameKey     = "display_name"
	sessionEmailKey    = "email"
	sessionReturnToKey = "return_to"
)

// LoginPath 未登录时跳转的认证入口
const LoginPath = "/auth/google"

// LogoutPath 登录后不能回到这里，否则刚登录就被登出
const LogoutPath = "/logout"

// LoadUser retrieves the identity from the session and sets it on the context
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := identityFromSession(sessions.Default(c)); ok {
			c.Set(CurrentUserKey, id)
		}
		c.Next()
	}
}

// AuthRequired ensures a user is logged in; otherwise remembers the path and
// redirects to the OAuth entry point.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); ok {
			c.Next()
			return
		}

		if c.Request.Method == http.MethodGet && c.Request.URL.Path != LogoutPath {
			session := sessions.Default(c)
			session.Set(sessionReturnToKey, c.Request.URL.RequestURI())
			_ = session.Save()
		}
		c.Redirect(http.StatusFound, LoginPath)
		c.Abort()
	}
}

// CurrentUser 返回当前请求的登录身份
func CurrentUser(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok && !id.IsZero()
}

// Login 把身份写入会话
func Login(c *gin.Context, id models.Identity) error {
	session := sessions.Default(c)
	session.Set(sessionNameKey, id.DisplayName)
	session.Set(sessionEmailKey, id.Email)
	c.Set(CurrentUserKey, id)
	return session.Save()
}

// Logout 清空会话
func Logout(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	return session.Save()
}

// PopReturnTo returns and forgets the path saved by AuthRequired, or "/".
func PopReturnTo(c *gin.Context) string {
	session := sessions.Default(c)
	to, _ := session.Get(sessionReturnToKey).(string)
	session.Delete(sessionReturnToKey)
	_ = session.Save()
	// 只允许站内相对路径
	if len(to) < 1 || to[0] != '/' || (len(to) > 1 && (to[1] == '/' || to[1] == '\\')) {
		return "/"
	}
	return to
}

func identityFromSession(session sessions.Session) (models.Identity, bool) {
	name, _ := session.Get(sessionNameKey).(string)
	if name == "" {
		return models.Identity{}, false
	}
	email, _ := session.Get(sessionEmailKey).(string)
	return models.Identity{DisplayName: name, Email: email}, true
}
