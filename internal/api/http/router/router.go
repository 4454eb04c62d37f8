package router

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"github.com/smartblink/smartblink-server/internal/api/http/handler"
	"github.com/smartblink/smartblink-server/internal/api/http/middleware"
	"github.com/smartblink/smartblink-server/internal/logger"
	"github.com/smartblink/smartblink-server/internal/model"
	"github.com/smartblink/smartblink-server/internal/service"
)

// Router assembles the HTTP route tree and its middleware.
type Router struct {
	authService    *service.Auth
	profileService *service.Profile
	deviceService  *service.Device
	tokenService   *service.TokenService
	contextManager model.ContextManager
	rdb            *redis.Client
	logger         *logger.Logger
}

// New creates a Router from the application services.
func New(
	authService *service.Auth,
	profileService *service.Profile,
	deviceService *service.Device,
	tokenService *service.TokenService,
	contextManager model.ContextManager,
	rdb *redis.Client,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		profileService: profileService,
		deviceService:  deviceService,
		tokenService:   tokenService,
		contextManager: contextManager,
		rdb:            rdb,
		logger:         logger,
	}
}

// Register builds the chi handler: CORS and request logging globally, rate
// limiting on the auth endpoints, bearer authentication on everything else.
func (r *Router) Register() chi.Router {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.logger)

	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	mux.Use(logging.Handle)

	authHandler := handler.NewAuth(r.authService, r.tokenService, r.logger)
	profileHandler := handler.NewProfile(r.profileService, r.contextManager, r.logger)
	deviceHandler := handler.NewDevice(r.deviceService, r.contextManager, r.logger)

	mux.Route("/api/auth", func(ar chi.Router) {
		if r.rdb != nil {
			ratelimit := middleware.NewRateLimit(r.rdb, 20, time.Minute, 10*time.Minute, "auth", r.logger)
			ar.Use(ratelimit.Handle)
		}
		ar.Post("/signup", authHandler.SignUp)
		ar.Post("/signin", authHandler.SignIn)
		ar.Post("/refresh", authHandler.Refresh)
		ar.Post("/signout", authHandler.SignOut)
	})

	mux.Group(func(pr chi.Router) {
		pr.Use(authenticate.Handle)

		pr.Route("/api/profile", func(p chi.Router) {
			p.Get("/", profileHandler.Get)
			p.Patch("/", profileHandler.Update)
			p.Put("/device", profileHandler.SetDeviceURL)
			p.Put("/status", profileHandler.SetStatus)
			p.Put("/timer", profileHandler.SetTimer)
			p.Post("/avatar", profileHandler.UploadAvatar)
			p.Get("/avatar", profileHandler.DownloadAvatar)
			p.Delete("/avatar", profileHandler.DeleteAvatar)
		})

		pr.Route("/api/device", func(d chi.Router) {
			d.Post("/signals/{kind}/toggle", deviceHandler.ToggleSignal)
			d.Post("/timer", deviceHandler.SaveTimer)
		})
	})

	return mux
}
