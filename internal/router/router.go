package router

import (
	"net/http"

	"lostfound/internal/handlers"
	"lostfound/internal/middleware"
	"lostfound/internal/services"
	"lostfound/web"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	SessionName = "lostfound_session"
	UploadsPath = "/uploads"
)

type Deps struct {
	Items         *services.ItemService
	Provider      services.IdentityProvider
	Logger        *zap.SugaredLogger
	SessionSecret string
	UploadDir     string
	MaxUpload     int64
	SecureCookie  bool
}

// New builds the engine: middleware, templates, static files and routes.
func New(d Deps) (*gin.Engine, error) {
	r := gin.New()
	// /account/:username 的用户名可能含转义后的 /
	r.UseRawPath = true
	r.Use(middleware.WithLogging(d.Logger), gin.Recovery())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	store := cookie.NewStore([]byte(d.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 3600,
		HttpOnly: true,
		Secure:   d.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(SessionName, store))

	renderer, err := LoadTemplates(web.TemplatesFS())
	if err != nil {
		return nil, err
	}
	r.HTMLRender = renderer

	// Static Assets
	r.StaticFS("/static", http.FS(web.StaticFS()))
	r.Static(UploadsPath, d.UploadDir)

	r.Use(middleware.LoadUser())
	RegisterRoutes(r, d)

	r.NoRoute(func(c *gin.Context) {
		handlers.RenderError(c, http.StatusNotFound, "Page not found.")
	})
	return r, nil
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	authHandler := handlers.NewAuthHandler(d.Provider, d.Logger)
	itemHandler := handlers.NewItemHandler(d.Items, d.MaxUpload, d.Logger)

	// 公共路由
	r.GET("/", itemHandler.Home)
	r.GET("/auth/google", authHandler.GoogleLogin)
	r.GET("/auth/google/callback", authHandler.GoogleCallback)

	// 受保护路由
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/report", itemHandler.ShowReport)
		authorized.POST("/report", itemHandler.Report)
		authorized.GET("/items", itemHandler.List)
		authorized.GET("/account", itemHandler.Mine)
		authorized.GET("/account/:username", itemHandler.ForUser)
		authorized.GET(middleware.LogoutPath, authHandler.Logout)
	}
}
