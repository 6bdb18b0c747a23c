package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sngm3741/qr-review/api/internal/config"
	dashboardapp "github.com/sngm3741/qr-review/api/internal/dashboard/application"
	"github.com/sngm3741/qr-review/api/internal/infrastructure/memory"
	mongodoc "github.com/sngm3741/qr-review/api/internal/infrastructure/mongo"
	commonhttp "github.com/sngm3741/qr-review/api/internal/interfaces/http/common"
	dashboardhttp "github.com/sngm3741/qr-review/api/internal/interfaces/http/dashboard"
	publichttp "github.com/sngm3741/qr-review/api/internal/interfaces/http/public"
	"github.com/sngm3741/qr-review/api/internal/media"
	"github.com/sngm3741/qr-review/api/internal/prompt"
	publicapp "github.com/sngm3741/qr-review/api/internal/public/application"
	"github.com/sngm3741/qr-review/api/internal/qrcode"
	"github.com/sngm3741/qr-review/api/internal/redirect"
)

// Server は HTTP サーバーのライフサイクルを管理し、Public/Dashboard の各ハンドラへ依存注入するコンポジションルート。
type Server struct {
	logger           *log.Logger
	client           *mongo.Client
	driver           string
	jwt              config.JWTConfig
	addr             string
	allowedOrigins   []string
	publicHandler    *publichttp.Handler
	dashboardHandler *dashboardhttp.Handler
}

type authenticatedUser = commonhttp.AuthenticatedUser

// profileStore と counterStore は Mongo とメモリ実装の共通ポート。
type profileStore interface {
	publicapp.ProfileReader
	dashboardapp.ProfileRepository
}

type counterStore interface {
	publicapp.VisitRecorder
	dashboardapp.CounterReader
}

// New は Config と Mongo クライアントを受け取り、アプリケーションサービスとハンドラを組み立てた Server を返す。
// client が nil の場合はメモリストアで動作する。
func New(cfg config.Config, client *mongo.Client) (*Server, error) {
	codec, err := qrcode.NewCodec(cfg.PublicOrigin, qrcode.Options{
		PixelSize:  cfg.QRPixelSize,
		Margin:     cfg.QRMargin,
		Foreground: qrcode.DefaultOptions().Foreground,
		Background: qrcode.DefaultOptions().Background,
	})
	if err != nil {
		return nil, fmt.Errorf("public origin: %w", err)
	}
	pool, err := prompt.NewPool(cfg.PromptPoolSize)
	if err != nil {
		return nil, err
	}
	sampler, err := newSampler(cfg.PromptSeed)
	if err != nil {
		return nil, err
	}

	var (
		profiles profileStore
		counters counterStore
		driver   = config.DriverMemory
	)
	if client != nil {
		db := client.Database(cfg.MongoDatabase)
		profiles = mongodoc.NewProfileRepository(db, cfg.ProfileCollection)
		counters = mongodoc.NewCounterRepository(db, cfg.CounterCollection)
		driver = config.DriverMongo
	} else {
		profiles = memory.NewProfileStore()
		counters = memory.NewCounterStore()
	}

	resolver := media.NewResolver(cfg.MediaBaseURL)
	resolution := publicapp.NewResolutionService(publicapp.Config{
		Profiles:      profiles,
		Counters:      counters,
		URLs:          codec,
		Sampler:       sampler,
		Pool:          pool,
		PromptCount:   cfg.PromptSampleSize,
		RedirectDelay: cfg.RedirectDelay,
		Media:         resolver,
		Logger:        cfg.ServerLog,
	})
	dashboard := dashboardapp.NewService(dashboardapp.Config{
		Profiles: profiles,
		Counters: counters,
		Codec:    codec,
		Logger:   cfg.ServerLog,
	})

	return &Server{
		logger:           cfg.ServerLog,
		client:           client,
		driver:           driver,
		jwt:              cfg.JWT,
		addr:             cfg.Addr,
		allowedOrigins:   append([]string(nil), cfg.AllowedOrigins...),
		publicHandler:    publichttp.NewHandler(publichttp.Config{Logger: cfg.ServerLog, Resolution: resolution}),
		dashboardHandler: dashboardhttp.NewHandler(dashboardhttp.Config{Logger: cfg.ServerLog, Dashboard: dashboard, Media: resolver}),
	}, nil
}

func newSampler(seed uint64) (redirect.Sampler, error) {
	if seed != 0 {
		return prompt.NewSeededSelector(seed), nil
	}
	return prompt.NewRandomSelector()
}

// Router はミドルウェアとルーティングを組み立てる。
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())
	s.publicHandler.Register(router)
	s.dashboardHandler.Register(router, s.authMiddleware)
	return router
}

// Run はHTTPサーバーを起動し、シグナル受信まで待機する。
func (s *Server) Run() error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("HTTP サーバー起動: http://%s (driver=%s)", s.addr, s.driver)
		errChan <- httpServer.ListenAndServe()
	}()

	waitForShutdown(httpServer, errChan, s)
	return nil
}

// withCORS は許可されたオリジン情報をもとに CORS ヘッダーを付与するミドルウェアを返す。
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
			w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// originAllowed は指定された Origin が許可リストに含まれるか判定する。
func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler はストアへの疎通確認を行う。メモリドライバでは常に ok。
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if s.client != nil {
			if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
				commonhttp.WriteJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
					"driver": s.driver,
					"error":  err.Error(),
				})
				return
			}
		}

		commonhttp.WriteJSON(s.logger, w, http.StatusOK, map[string]string{
			"status": "ok",
			"driver": s.driver,
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

// authMiddleware は Authorization ヘッダーから JWT を検証し、オーナーをコンテキストへ詰める。
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, "Bearer token required")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, "empty access token")
			return
		}

		claims, err := s.parseAuthToken(tokenString)
		if err != nil {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, err.Error())
			return
		}

		user := authenticatedUser{
			ID:   claims.Subject,
			Name: strings.TrimSpace(claims.Name),
		}

		ctx := commonhttp.ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// parseAuthToken は署名検証と Issuer/Audience/Subject の整合性を確認する。
func (s *Server) parseAuthToken(tokenString string) (*authClaims, error) {
	if len(s.jwt.Secret) == 0 {
		return nil, errors.New("authentication is not configured")
	}

	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return s.jwt.Secret, nil
	}, jwt.WithLeeway(30*time.Second))
	if err != nil || !token.Valid {
		return nil, errors.New("invalid access token")
	}

	if s.jwt.Issuer != "" && claims.Issuer != s.jwt.Issuer {
		return nil, errors.New("invalid access token")
	}
	if claims.Subject == "" {
		return nil, errors.New("invalid access token")
	}
	if s.jwt.Audience != "" && !slices.Contains(claims.Audience, s.jwt.Audience) {
		return nil, errors.New("invalid access token")
	}

	return claims, nil
}

type authClaims struct {
	jwt.RegisteredClaims
	Name string `json:"name,omitempty"`
}

// shutdown は MongoDB クライアントをタイムアウト付きで切断する。
func (s *Server) shutdown(ctx context.Context) {
	if s.client == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.Printf("MongoDB 切断時にエラー: %v", err)
	}
}

// waitForShutdown は ListenAndServe の終了と OS シグナルを監視し、graceful shutdown を実現する。
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.logger.Fatalf("サーバーが異常終了: %v", err)
		}
	case sig := <-sigChan:
		srv.logger.Printf("シグナル %s を受信。サーバー停止処理を開始します。", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Printf("サーバー停止時にエラー: %v", err)
		}
	}

	srv.shutdown(context.Background())
}
