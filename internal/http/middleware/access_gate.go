package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ostrauer/briefshelf-backend/internal/clients/identity"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/ctxutil"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/envutil"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
	"github.com/ostrauer/briefshelf-backend/internal/services"
)

type GateConfig struct {
	// AllowPaths are reachable without a session (login page, auth endpoints,
	// health probe, static assets). Prefix match.
	AllowPaths []string

	LoginPath        string
	UnauthorizedPath string

	AccessCookie  string
	RefreshCookie string
	CookieDomain  string
	CookieSecure  bool
	CookieMaxAge  int
}

func GateConfigFromEnv() GateConfig {
	return GateConfig{
		AllowPaths: envutil.List("GATE_ALLOW_PATHS", []string{
			"/login", "/reset-password", "/unauthorized", "/auth/", "/healthz", "/assets/", "/favicon.ico",
		}),
		LoginPath:        envutil.String("GATE_LOGIN_PATH", "/login"),
		UnauthorizedPath: envutil.String("GATE_UNAUTHORIZED_PATH", "/unauthorized"),
		AccessCookie:     envutil.String("GATE_ACCESS_COOKIE", "bs-access-token"),
		RefreshCookie:    envutil.String("GATE_REFRESH_COOKIE", "bs-refresh-token"),
		CookieDomain:     envutil.String("GATE_COOKIE_DOMAIN", ""),
		CookieSecure:     envutil.Bool("GATE_COOKIE_SECURE", true),
		CookieMaxAge:     envutil.Int("GATE_COOKIE_MAX_AGE", 3600),
	}
}

// AccessGate keeps everyone but authenticated admins out of the dashboard.
// Page routes get redirects, API routes get JSON errors; both run the same
// session resolution and role check.
type AccessGate struct {
	log      *logger.Logger
	identity identity.Client
	cfg      GateConfig
}

func NewAccessGate(log *logger.Logger, identityClient identity.Client, cfg GateConfig) *AccessGate {
	return &AccessGate{
		log:      log.With("middleware", "AccessGate"),
		identity: identityClient,
		cfg:      cfg,
	}
}

// Gate protects the page routes. Order matters: allow-list first, then
// session resolution (including the silent refresh), then the admin check.
func (ag *AccessGate) Gate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ag.allowed(c.Request.URL.Path) {
			c.Next()
			return
		}

		user, token := ag.resolveSession(c)
		if user == nil {
			c.Redirect(http.StatusSeeOther, ag.cfg.LoginPath)
			c.Abort()
			return
		}
		if services.ResolveRole(token, user) != services.RoleAdmin {
			c.Redirect(http.StatusSeeOther, ag.cfg.UnauthorizedPath)
			c.Abort()
			return
		}

		ag.attach(c, user, token)
		c.Next()
	}
}

// RequireAdminAPI is the JSON twin of Gate for /api routes.
func (ag *AccessGate) RequireAdminAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, token := ag.resolveSession(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid session", "code": "UNAUTHORIZED"},
			})
			return
		}
		if services.ResolveRole(token, user) != services.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{"message": "admin role required", "code": "FORBIDDEN"},
			})
			return
		}
		ag.attach(c, user, token)
		c.Next()
	}
}

func (ag *AccessGate) allowed(path string) bool {
	for _, prefix := range ag.cfg.AllowPaths {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// resolveSession turns cookies or a bearer header into a verified user. A
// stale access token is refreshed transparently when a refresh cookie exists;
// the refreshed cookies are written before any authorization decision so a
// redirect never loses the new session. All failures collapse to (nil, "").
func (ag *AccessGate) resolveSession(c *gin.Context) (*identity.User, string) {
	ctx := c.Request.Context()
	token := ag.extractToken(c)

	if token != "" {
		user, err := ag.identity.GetUser(ctx, token)
		if err == nil {
			return user, token
		}
		ag.log.Debug("access token rejected", "error", err)
	}

	refreshToken, err := c.Cookie(ag.cfg.RefreshCookie)
	if err != nil || strings.TrimSpace(refreshToken) == "" {
		return nil, ""
	}
	session, err := ag.identity.RefreshSession(ctx, refreshToken)
	if err != nil {
		ag.log.Debug("session refresh failed", "error", err)
		return nil, ""
	}
	ag.SetSessionCookies(c, session)

	user := session.User
	if user == nil {
		user, err = ag.identity.GetUser(ctx, session.AccessToken)
		if err != nil {
			return nil, ""
		}
	}
	return user, session.AccessToken
}

func (ag *AccessGate) extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(ag.cfg.AccessCookie); err == nil && strings.TrimSpace(cookie) != "" {
		return strings.TrimSpace(cookie)
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}

func (ag *AccessGate) attach(c *gin.Context, user *identity.User, token string) {
	ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{
		UserID:      user.ID,
		Email:       user.Email,
		Role:        services.RoleAdmin,
		AccessToken: token,
	})
	c.Request = c.Request.WithContext(ctx)
}

// SetSessionCookies writes both session cookies. Shared with the login
// handler so the cookie attributes never drift apart.
func (ag *AccessGate) SetSessionCookies(c *gin.Context, session *identity.Session) {
	ag.setCookie(c, ag.cfg.AccessCookie, session.AccessToken, ag.cfg.CookieMaxAge)
	ag.setCookie(c, ag.cfg.RefreshCookie, session.RefreshToken, ag.cfg.CookieMaxAge*24)
}

// ClearSessionCookies expires both session cookies.
func (ag *AccessGate) ClearSessionCookies(c *gin.Context) {
	ag.setCookie(c, ag.cfg.AccessCookie, "", -1)
	ag.setCookie(c, ag.cfg.RefreshCookie, "", -1)
}

func (ag *AccessGate) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", ag.cfg.CookieDomain, ag.cfg.CookieSecure, true)
}
