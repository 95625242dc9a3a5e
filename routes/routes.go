package routes

import (
	"net/http"
	"os"

	"github.com/Ritu-90/c25077715-cmt120-cw2/app"
	"github.com/Ritu-90/c25077715-cmt120-cw2/internal/observability"
	"github.com/Ritu-90/c25077715-cmt120-cw2/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// UploadsPrefix is the URL prefix uploaded images are served under
const UploadsPrefix = "/uploads/"

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(deps.Config.Server.RequestTimeout))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoints
	r.Get("/healthz", deps.HealthHandler.HandleHealth)
	r.Get("/readyz", deps.HealthHandler.HandleReadiness)

	// Uploaded images
	files := http.StripPrefix(UploadsPrefix, http.FileServer(filesOnly{http.Dir(deps.Config.Upload.Dir)}))
	r.Get(UploadsPrefix+"*", files.ServeHTTP)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(deps.AuthMiddleware.LoadSession)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/admin/login", deps.AuthHandler.HandleAdminLogin)
			r.Post("/admin/logout", deps.AuthHandler.HandleAdminLogout)
			r.Post("/register", deps.AuthHandler.HandleRegister)
			r.Post("/login", deps.AuthHandler.HandleLogin)
			r.Post("/logout", deps.AuthHandler.HandleLogout)
			r.Get("/me", deps.AuthHandler.HandleMe)
		})

		contentRoutes(r, deps)
		projectRoutes(r, deps)
		contactRoutes(r, deps)
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "endpoint not found")
	})

	return r
}

func contentRoutes(r chi.Router, deps *app.Dependencies) {
	h := deps.ContentHandler
	admin := deps.AuthMiddleware.RequireAdmin

	r.Get("/home", h.HandleHome)

	r.Get("/about", h.HandleGetAbout)
	r.With(admin).Put("/about", h.HandleSaveAbout)

	r.Route("/social", func(r chi.Router) {
		r.Get("/", h.HandleListSocialLinks)
		r.With(admin).Post("/", h.HandleAddSocialLink)
		r.With(admin).Delete("/{id}", h.HandleDeleteSocialLink)
	})

	r.Route("/education", func(r chi.Router) {
		r.Get("/", h.HandleListEducation)
		r.Get("/{id}", h.HandleGetEducation)
		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Post("/", h.HandleCreateEducation)
			r.Put("/{id}", h.HandleUpdateEducation)
			r.Delete("/{id}", h.HandleDeleteEducation)
		})
	})

	r.Route("/experience", func(r chi.Router) {
		r.Get("/", h.HandleListExperience)
		r.Get("/{id}", h.HandleGetExperience)
		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Post("/", h.HandleCreateExperience)
			r.Put("/{id}", h.HandleUpdateExperience)
			r.Delete("/{id}", h.HandleDeleteExperience)
		})
	})

	r.Route("/skills", func(r chi.Router) {
		r.Get("/", h.HandleListSkills)
		r.With(admin).Post("/", h.HandleAddSkill)
		r.With(admin).Delete("/{id}", h.HandleDeleteSkill)
	})
}

func projectRoutes(r chi.Router, deps *app.Dependencies) {
	h := deps.ProjectHandler
	admin := deps.AuthMiddleware.RequireAdmin
	user := deps.AuthMiddleware.RequireUser

	r.Route("/projects", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.With(admin).Post("/", h.HandleCreate)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.With(admin).Put("/", h.HandleUpdate)
			r.With(admin).Delete("/", h.HandleDelete)
			r.With(user).Post("/comments", h.HandleAddComment)
			r.With(user).Put("/rating", h.HandleRate)
		})
	})

	// owner or admin, decided by the service
	r.Route("/comments/{id}", func(r chi.Router) {
		r.Put("/", h.HandleUpdateComment)
		r.Delete("/", h.HandleDeleteComment)
	})
}

func contactRoutes(r chi.Router, deps *app.Dependencies) {
	h := deps.ContactHandler
	admin := deps.AuthMiddleware.RequireAdmin

	r.Route("/messages", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)

		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", h.HandleUpdate)
			r.Delete("/", h.HandleDelete)
			r.With(admin).Put("/reply", h.HandleReply)
			r.With(admin).Delete("/reply", h.HandleDeleteReply)
		})
	})
}

// filesOnly hides directories so the file server never lists stored names
type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}
