// Package webapi provides http api for the spam classifier. It receives S3 / MinIO webhook notifications
// for stored email messages and classifies arbitrary text on request.
package webapi

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/didip/tollbooth/v8"
	"github.com/didip/tollbooth/v8/limiter"
	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/spamham/app/events"
	"github.com/umputun/spamham/lib/spamcheck"
)

//go:generate moq --out mocks/processor.go --pkg mocks --with-resets --skip-ensure . Processor

// Server is a web API server.
type Server struct {
	Config
}

// Config defines server parameters
type Config struct {
	Version    string        // version to show in /ping
	ListenAddr string        // listen address
	Processor  Processor     // message processor
	Dedup      *events.Dedup // optional, skips redelivered notifications
	AuthUser   string        // basic auth user
	AuthPasswd string        // basic auth password, no auth if empty
	RateLimit  float64       // max requests per second per ip, 0 means default

	// ProcessTimeout limits processing of a single webhook request, write timeout is set above it
	ProcessTimeout time.Duration
}

// Processor classifies text and handles stored messages
type Processor interface {
	Classify(ctx context.Context, text string) (spamcheck.Result, error)
	Handle(ctx context.Context, ref events.ObjectRef) error
}

// NewServer makes a new web API server
func NewServer(config Config) *Server {
	if config.AuthUser == "" {
		config.AuthUser = "spamham"
	}
	if config.RateLimit <= 0 {
		config.RateLimit = 50
	}
	if config.ProcessTimeout <= 0 {
		config.ProcessTimeout = 50 * time.Second
	}
	return &Server{Config: config}
}

// Run starts server and accepts requests until ctx is canceled, blocking call
func (s *Server) Run(ctx context.Context) error {
	if s.AuthPasswd != "" {
		log.Printf("[INFO] basic auth enabled for webapi server")
	} else {
		log.Printf("[WARN] basic auth disabled, access to webapi is not protected")
	}

	srv := &http.Server{Addr: s.ListenAddr, Handler: s.handler(), ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout: 10 * time.Second, WriteTimeout: s.ProcessTimeout + 10*time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] failed to shutdown webapi server: %v", err)
		} else {
			log.Printf("[INFO] webapi server stopped")
		}
	}()

	log.Printf("[INFO] start webapi server on %s", s.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to run server: %w", err)
	}
	return nil
}

// handler makes router with all middlewares and routes
func (s *Server) handler() http.Handler {
	lmt := tollbooth.NewLimiter(s.RateLimit, nil)
	lmt.SetIPLookup(limiter.IPLookup{Name: "RemoteAddr"})

	router := routegroup.New(http.NewServeMux())
	router.Use(rest.Recoverer(log.Default()))
	router.Use(rest.AppInfo("spamham", "umputun", s.Version), rest.Ping)
	router.Use(func(next http.Handler) http.Handler { return tollbooth.LimitHandler(lmt, next) })
	router.Use(rest.SizeLimit(1024 * 1024)) // 1M max request size

	router.Group().Route(func(api *routegroup.Bundle) {
		api.Use(s.authMiddleware(rest.BasicAuthWithUserPasswd(s.AuthUser, s.AuthPasswd)))
		api.HandleFunc("POST /event", s.eventHandler) // s3 / minio webhook
		api.HandleFunc("POST /check", s.checkHandler) // classify text
	})
	return router
}

// eventHandler handles POST /event request with bucket notification payload.
// Responds with 500 if any object failed, so the notification is redelivered.
func (s *Server) eventHandler(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "can't read request", "details": err.Error()})
		return
	}
	objs, err := events.Parse(data)
	if err != nil {
		log.Printf("[WARN] can't parse notification: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "can't parse notification", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.ProcessTimeout)
	defer cancel()
	statuses := events.Dispatch(ctx, s.Processor, s.Dedup, objs)
	for _, st := range statuses {
		if st.Error != "" {
			w.WriteHeader(http.StatusInternalServerError)
			break
		}
	}
	rest.RenderJSON(w, rest.JSON{"objects": statuses})
}

// checkHandler handles POST /check request with {"text": "..."} body and returns classification result
func (s *Server) checkHandler(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Text string `json:"text"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "can't decode request", "details": err.Error()})
		log.Printf("[WARN] can't decode request: %v", err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "text is required"})
		return
	}

	res, err := s.Processor.Classify(r.Context(), req.Text)
	if err != nil {
		log.Printf("[WARN] can't classify text: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		rest.RenderJSON(w, rest.JSON{"error": "can't classify", "details": err.Error()})
		return
	}
	rest.RenderJSON(w, rest.JSON{"label": res.Label, "probability": res.Probability, "confidence": res.Confidence()})
}

func (s *Server) authMiddleware(mw func(next http.Handler) http.Handler) func(next http.Handler) http.Handler {
	if s.AuthPasswd == "" {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return mw
}

// GenerateRandomPassword generates a random password of a given length
func GenerateRandomPassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()_+"

	var password strings.Builder
	charsetSize := big.NewInt(int64(len(charset)))

	for range length {
		randomNumber, err := rand.Int(rand.Reader, charsetSize)
		if err != nil {
			return "", err
		}
		password.WriteByte(charset[randomNumber.Int64()])
	}
	return password.String(), nil
}
