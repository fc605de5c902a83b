package main

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "CONTENT_DIR", "GALLERY_TTL", "GALLERY_MAX", "SMTP_HOST", "SMTP_USER", "SMTP_PASS"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "8080" || cfg.ContentDir != "data" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.GalleryTTL != 30*time.Minute || cfg.GalleryMax != 10000 {
		t.Errorf("GalleryTTL = %v GalleryMax = %d", cfg.GalleryTTL, cfg.GalleryMax)
	}
	if cfg.SMTP.Host != "smtp.gmail.com" || cfg.SMTP.Configured() {
		t.Errorf("SMTP = %+v", cfg.SMTP)
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("GALLERY_TTL", "5m")
	t.Setenv("CONTENT_WATCH", "true")
	t.Setenv("SMTP_USER", "me@example.com")
	t.Setenv("SMTP_PASS", "pw")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "9000" || cfg.GalleryTTL != 5*time.Minute || !cfg.ContentWatch {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.SMTP.Configured() {
		t.Error("SMTP should be configured")
	}
}

func TestLoadConfig_BadDuration(t *testing.T) {
	t.Setenv("GALLERY_TTL", "soon")
	if _, err := loadConfig(); err == nil {
		t.Error("expected parse error")
	}
}
