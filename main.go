package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/content"
	"github.com/Zachkp/folio/gallery"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "folio",
		Short:        "Portfolio site with an interactive project gallery",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
	root.AddCommand(serveCmd(), checkCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func checkCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Load the content directory and report what the gallery will show",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				dir = cfg.ContentDir
			}
			site, err := content.Load(dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d projects (%d dropped)\n", len(site.Projects), site.Dropped())
			missing := 0
			for _, p := range site.Projects {
				mark := " "
				if p.Featured {
					mark = "*"
				}
				fmt.Fprintf(out, "%s %-20s %-30s %s\n", mark, p.ID, p.Title, p.Image)
				for _, ref := range []string{p.Image, p.Video} {
					if file, ok := localAsset(ref); ok {
						if _, err := os.Stat(file); err != nil {
							fmt.Fprintf(out, "  missing asset %s\n", ref)
							missing++
						}
					}
				}
			}
			fmt.Fprintf(out, "%d experience entries, %d education entries\n", len(site.Experience), len(site.Education))
			if missing > 0 {
				return fmt.Errorf("%d missing assets", missing)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "content directory (default $CONTENT_DIR or data)")
	return cmd
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := newServer(cfg, log)
	if err != nil {
		return err
	}
	defer s.store.Close()

	r, err := s.router()
	if err != nil {
		return fmt.Errorf("templates: %w", err)
	}

	go s.galleries.Sweep(ctx, time.Minute, func(n int) {
		log.Debug("expired idle galleries", zap.Int("count", n))
	})
	go s.runCleanup(ctx)
	if cfg.ContentWatch {
		go func() {
			if err := s.content.Watch(ctx); err != nil {
				log.Error("content watch stopped", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr), zap.String("mode", gin.Mode()))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func newServer(cfg Config, log *zap.Logger) (*server, error) {
	src, err := content.NewSource(cfg.ContentDir, log)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}

	store, err := openStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	key := []byte(cfg.SessionKey)
	if len(key) < 32 {
		if cfg.SessionKey != "" {
			log.Warn("SESSION_KEY shorter than 32 bytes, generating a random key")
		} else if gin.Mode() == gin.ReleaseMode {
			log.Warn("SESSION_KEY not set; sessions will not survive a restart")
		}
		key = securecookie.GenerateRandomKey(32)
	}

	salt := make([]byte, 32)
	if _, err := rand.Read(salt); err != nil {
		store.Close()
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	s := &server{
		cfg:           cfg,
		log:           log,
		content:       src,
		galleries:     gallery.NewRegistry(src.Projects, cfg.GalleryTTL, cfg.GalleryMax),
		store:         store,
		mailer:        &smtpMailer{cfg: cfg.SMTP, log: log},
		cookies:       securecookie.New(key, nil),
		adminSessions: newAdminStore(key, gin.Mode() == gin.ReleaseMode),
		salt:          hex.EncodeToString(salt),
	}
	s.csrf = s.csrfProtect(csrfKey(key), gin.Mode() == gin.ReleaseMode)
	return s, nil
}

// runCleanup applies the visitor retention window at startup and daily.
func (s *server) runCleanup(ctx context.Context) {
	s.cleanupVisitors(ctx)
	t := time.NewTicker(24 * time.Hour)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.cleanupVisitors(ctx)
		}
	}
}
