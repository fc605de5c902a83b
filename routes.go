package main

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/content"
	"github.com/Zachkp/folio/gallery"
)

//go:embed templates/*.html
var templateFS embed.FS

// assetDirs maps URL prefixes to the directories served under them.
var assetDirs = map[string]string{
	"/images": "images",
	"/static": "static",
}

// localAsset maps a site-relative asset URL to the file that serves it.
func localAsset(ref string) (string, bool) {
	for prefix, dir := range assetDirs {
		if rest, ok := strings.CutPrefix(ref, prefix+"/"); ok && rest != "" {
			return filepath.Join(dir, filepath.FromSlash(path.Clean("/" + rest))), true
		}
	}
	return "", false
}

type server struct {
	cfg Config
	log *zap.Logger

	content   *content.Source
	galleries *gallery.Registry
	store     *Store
	mailer    Mailer

	cookies       *securecookie.SecureCookie
	adminSessions *sessions.CookieStore
	csrf          gin.HandlerFunc
	salt          string
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"pathEscape": url.PathEscape,
		"join":       strings.Join,
	}).ParseFS(templateFS, "templates/*.html")
}

func (s *server) router() (*gin.Engine, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.UseRawPath = true
	r.Use(recovery(s.log), requestLogger(s.log), s.visitorTracking())
	r.SetHTMLTemplate(tmpl)

	for prefix, dir := range assetDirs {
		r.Static(prefix, dir)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "projects": len(s.content.Projects())})
	})

	// Home page. A full page load starts a fresh gallery for the visitor.
	r.GET("/", func(c *gin.Context) {
		if old := s.galleryID(c); old != "" {
			s.galleries.Remove(old)
		}
		var view gallery.View
		id, _ := s.galleries.Open("", func(g *gallery.Gallery) error {
			view = g.View()
			return nil
		})
		s.setGalleryID(c, id)

		site := s.content.Site()
		c.HTML(http.StatusOK, "index.html", gin.H{
			"about":   site.About,
			"gallery": view,
		})
	})

	r.GET("/skills-content", func(c *gin.Context) {
		c.HTML(http.StatusOK, "skills-content.html", s.content.Site().Skills)
	})

	r.GET("/work-content", func(c *gin.Context) {
		c.HTML(http.StatusOK, "work-content.html", gin.H{
			"experience": s.content.Site().Experience,
		})
	})

	r.GET("/education-content", func(c *gin.Context) {
		c.HTML(http.StatusOK, "education-content.html", gin.H{
			"education": s.content.Site().Education,
		})
	})

	s.setupGalleryRoutes(r)
	s.setupContactRoutes(r)
	s.setupAdminRoutes(r)
	return r, nil
}
