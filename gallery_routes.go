package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/gallery"
)

const galleryCookie = "folio_gallery"

// galleryID returns the visitor's gallery session id, or "" when the cookie
// is missing or does not verify.
func (s *server) galleryID(c *gin.Context) string {
	raw, err := c.Cookie(galleryCookie)
	if err != nil {
		return ""
	}
	var id string
	if err := s.cookies.Decode(galleryCookie, raw, &id); err != nil {
		return ""
	}
	return id
}

func (s *server) setGalleryID(c *gin.Context, id string) {
	encoded, err := s.cookies.Encode(galleryCookie, id)
	if err != nil {
		s.log.Error("encode gallery cookie", zap.Error(err))
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(galleryCookie, encoded, 0, "/", "", gin.Mode() == gin.ReleaseMode, true)
}

// activate runs one activation against the visitor's gallery and returns
// the resulting view. On failure the error response is already written.
// Activations never create a gallery; a visitor without a live one is sent
// back to the home page, which opens a fresh gallery.
func (s *server) activate(c *gin.Context, a gallery.Activation) (gallery.Result, gallery.View, bool) {
	var (
		res  gallery.Result
		view gallery.View
	)
	err := s.galleries.With(s.galleryID(c), func(g *gallery.Gallery) error {
		var err error
		if res, err = g.Activate(a); err != nil {
			return err
		}
		view = g.View()
		return nil
	})

	switch {
	case err == nil:
		s.recordEvent(c, res)
		return res, view, true
	case errors.Is(err, gallery.ErrNoGallery):
		if c.GetHeader("HX-Request") == "true" {
			c.Header("HX-Refresh", "true")
			c.String(http.StatusGone, http.StatusText(http.StatusGone))
		} else {
			c.Redirect(http.StatusFound, "/#projects")
		}
		return res, view, false
	}

	status := http.StatusBadRequest
	if errors.Is(err, gallery.ErrUnknownProject) {
		status = http.StatusNotFound
	}
	s.log.Debug("gallery activation rejected",
		zap.Stringer("target", a.Target),
		zap.String("project", a.ProjectID),
		zap.Error(err))
	c.String(status, http.StatusText(status))
	return res, view, false
}

func (s *server) recordEvent(c *gin.Context, res gallery.Result) {
	switch res.Event {
	case gallery.EventSelect, gallery.EventPlay, gallery.EventDemo, gallery.EventGitHub:
	default:
		return
	}
	if err := s.store.RecordProjectEvent(c.Request.Context(), res.ProjectID, string(res.Event)); err != nil {
		s.log.Warn("record project event", zap.Error(err))
	}
}

func (s *server) renderGallery(c *gin.Context, a gallery.Activation) {
	if _, view, ok := s.activate(c, a); ok {
		c.HTML(http.StatusOK, "gallery.html", view)
	}
}

func (s *server) setupGalleryRoutes(r *gin.Engine) {
	r.GET("/gallery", func(c *gin.Context) {
		var view gallery.View
		id, _ := s.galleries.Open(s.galleryID(c), func(g *gallery.Gallery) error {
			view = g.View()
			return nil
		})
		s.setGalleryID(c, id)
		c.HTML(http.StatusOK, "gallery.html", view)
	})

	r.POST("/gallery/filter", func(c *gin.Context) {
		s.renderGallery(c, gallery.Activation{Target: gallery.FilterTag, Tag: c.PostForm("tag")})
	})

	r.POST("/gallery/detail/close", func(c *gin.Context) {
		target := gallery.DetailClose
		if c.Query("via") == "backdrop" {
			target = gallery.DetailBackdrop
		}
		s.renderGallery(c, gallery.Activation{Target: target})
	})

	r.POST("/gallery/video/close", func(c *gin.Context) {
		target := gallery.VideoClose
		if c.Query("via") == "backdrop" {
			target = gallery.VideoBackdrop
		}
		s.renderGallery(c, gallery.Activation{Target: target})
	})

	perProject := map[string]gallery.Target{
		"select": gallery.CardBody,
		"play":   gallery.PlayControl,
		"toggle": gallery.ReadToggle,
		"demo":   gallery.WatchDemo,
	}
	for action, target := range perProject {
		r.POST("/projects/:id/"+action, func(c *gin.Context) {
			s.renderGallery(c, gallery.Activation{Target: target, ProjectID: c.Param("id")})
		})
	}

	// The GitHub link is a real anchor opened in a new tab; this records
	// the click and redirects.
	r.GET("/projects/:id/github", func(c *gin.Context) {
		res, _, ok := s.activate(c, gallery.Activation{Target: gallery.GitHubLink, ProjectID: c.Param("id")})
		if !ok {
			return
		}
		if res.Outbound == "" {
			c.Redirect(http.StatusFound, "/#projects")
			return
		}
		c.Redirect(http.StatusFound, res.Outbound)
	})
}
