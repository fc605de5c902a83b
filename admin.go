// admin.go - privacy-conscious visitor tracking and the admin dashboard
package main

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminSessionName = "folio-admin"
	adminKey         = "is_admin"
)

func newAdminStore(key []byte, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/admin",
		MaxAge:   3600 * 24,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Hash IP address for privacy compliance (consistent per IP while the
// process runs).
func (s *server) hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + s.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// checkAdmin validates credentials. A bcrypt hash takes precedence over a
// plain password; with neither set only debug mode accepts the dev default.
func (s *server) checkAdmin(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.AdminUsername)) == 1

	switch {
	case s.cfg.AdminPasswordHash != "":
		err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password))
		return userOK && err == nil
	case s.cfg.AdminPassword != "":
		return userOK && subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) == 1
	case gin.Mode() == gin.DebugMode:
		s.log.Warn("using default admin password; set ADMIN_PASSWORD or ADMIN_PASSWORD_HASH")
		return userOK && password == "admin123"
	}
	return false
}

// Middleware to check admin authentication
func (s *server) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, _ := s.adminSessions.Get(c.Request, adminSessionName)
		if ok, _ := sess.Values[adminKey].(bool); !ok {
			if c.GetHeader("HX-Request") == "true" {
				c.Header("HX-Redirect", "/admin/login")
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Privacy-conscious visitor tracking middleware. Only full page loads are
// counted; htmx fragment requests are not visits.
func (s *server) visitorTracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet ||
			isAssetPath(path) ||
			strings.HasPrefix(path, "/admin/") ||
			strings.HasPrefix(path, "/privacy") ||
			path == "/healthz" ||
			c.GetHeader("HX-Request") == "true" ||
			c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		hashed := s.hashIP(c.ClientIP())
		ua := c.GetHeader("User-Agent")
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.store.RecordVisit(ctx, hashed, ua, path); err != nil {
				s.log.Warn("record visitor", zap.Error(err))
			}
		}()
		c.Next()
	}
}

func isAssetPath(path string) bool {
	return strings.HasPrefix(path, "/static/") ||
		strings.HasPrefix(path, "/images/") ||
		strings.HasPrefix(path, "/favicon")
}

// cleanupVisitors removes visitor records older than the retention window.
func (s *server) cleanupVisitors(ctx context.Context) {
	n, err := s.store.DeleteVisitorsBefore(ctx, time.Now().Add(-s.cfg.VisitorRetention))
	if err != nil {
		s.log.Error("privacy cleanup", zap.Error(err))
		return
	}
	if n > 0 {
		s.log.Info("privacy cleanup removed old visitor records", zap.Int64("rows", n))
	}
}

func (s *server) setupAdminRoutes(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":     "Privacy Policy",
			"retention": s.cfg.VisitorRetention,
		})
	})

	public := r.Group("/admin", s.csrf)

	public.GET("/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title":     "Admin Login",
			"csrfField": csrf.TemplateField(c.Request),
		})
	})

	public.POST("/login", func(c *gin.Context) {
		if !s.checkAdmin(c.PostForm("username"), c.PostForm("password")) {
			s.log.Warn("failed admin login", zap.String("from", s.hashIP(c.ClientIP())))
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"title":     "Admin Login",
				"error":     "Invalid credentials",
				"csrfField": csrf.TemplateField(c.Request),
			})
			return
		}

		sess, _ := s.adminSessions.Get(c.Request, adminSessionName)
		sess.Values[adminKey] = true
		if err := sess.Save(c.Request, c.Writer); err != nil {
			s.log.Error("save admin session", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Could not start session",
			})
			return
		}
		s.log.Info("admin login", zap.String("from", s.hashIP(c.ClientIP())))
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	public.GET("/logout", func(c *gin.Context) {
		sess, _ := s.adminSessions.Get(c.Request, adminSessionName)
		delete(sess.Values, adminKey)
		sess.Options.MaxAge = -1
		if err := sess.Save(c.Request, c.Writer); err != nil {
			s.log.Warn("clear admin session", zap.Error(err))
		}
		s.log.Info("admin logout", zap.String("from", s.hashIP(c.ClientIP())))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := public.Group("", s.adminAuth())

	admin.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context())
		if err != nil {
			s.log.Error("load admin stats", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats":     stats,
			"galleries": s.galleries.Len(),
			"projects":  len(s.content.Projects()),
			"dropped":   s.content.Site().Dropped(),
			"csrfField": csrf.TemplateField(c.Request),
		})
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.GET("/visitors", func(c *gin.Context) {
		visitors, err := s.store.RecentVisitors(c.Request.Context(), 200)
		if err != nil {
			s.log.Error("load visitors", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	admin.POST("/privacy/cleanup", func(c *gin.Context) {
		go s.cleanupVisitors(context.Background())
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup initiated"})
	})

	admin.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		s.log.Info("admin stats exported", zap.String("by", s.hashIP(c.ClientIP())))
		c.JSON(http.StatusOK, stats)
	})
}
