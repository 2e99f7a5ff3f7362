package handlers

import (
	"net/http"

	"lostfound/internal/middleware"
	"lostfound/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const oauthStateKey = "oauth_state"

type AuthHandler struct {
	provider services.IdentityProvider
	logger   *zap.SugaredLogger
}

func NewAuthHandler(provider services.IdentityProvider, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{provider: provider, logger: logger}
}

// GoogleLogin 发起 Google OAuth 登录
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state, err := services.GenerateStateToken()
	if err != nil {
		h.logger.Errorw("failed to generate oauth state", "error", err)
		RenderError(c, http.StatusInternalServerError, "Could not start sign-in, please try again.")
		return
	}

	// 将 state 存储到 session 中,用于验证回调
	session := sessions.Default(c)
	session.Set(oauthStateKey, state)
	if err := session.Save(); err != nil {
		h.logger.Errorw("failed to save session", "error", err)
		RenderError(c, http.StatusInternalServerError, "Could not start sign-in, please try again.")
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, h.provider.AuthCodeURL(state))
}

// GoogleCallback 处理 Google OAuth 回调
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	session := sessions.Default(c)
	savedState, _ := session.Get(oauthStateKey).(string)

	// 验证 state 参数
	if savedState == "" || c.Query("state") != savedState {
		RenderError(c, http.StatusBadRequest, "Invalid sign-in state, please try again.")
		return
	}

	// 清除 state
	session.Delete(oauthStateKey)
	_ = session.Save()

	code := c.Query("code")
	if code == "" {
		// 用户拒绝授权等情况
		c.Redirect(http.StatusFound, "/")
		return
	}

	id, err := h.provider.Exchange(c.Request.Context(), code)
	if err != nil {
		h.logger.Warnw("oauth exchange failed", "error", err)
		RenderError(c, http.StatusUnauthorized, "Sign-in failed, please try again.")
		return
	}

	if err := middleware.Login(c, id); err != nil {
		h.logger.Errorw("failed to save session", "error", err)
		RenderError(c, http.StatusInternalServerError, "Sign-in failed, please try again.")
		return
	}
	h.logger.Infow("user signed in", "user", id.DisplayName, "email", id.Email)

	c.Redirect(http.StatusFound, middleware.PopReturnTo(c))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := middleware.Logout(c); err != nil {
		h.logger.Warnw("failed to clear session", "error", err)
	}
	c.Redirect(http.StatusFound, "/")
}
