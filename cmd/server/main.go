// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/algrissette/uvavine/internal/auth"
	"github.com/algrissette/uvavine/internal/config"
	"github.com/algrissette/uvavine/internal/database"
	"github.com/algrissette/uvavine/internal/engine"
	"github.com/algrissette/uvavine/internal/handlers"
	"github.com/algrissette/uvavine/internal/middleware"
	"github.com/algrissette/uvavine/internal/storage"
	"github.com/algrissette/uvavine/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/lmittmann/tint"
)

func main() {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") == "true" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	middleware.InitJWT(cfg.JWTSecret)

	ctx := context.Background()

	db, err := database.NewMongoDB(cfg.Database.URI, cfg.Database.Name)
	if err != nil {
		slog.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(ctx); err != nil {
			log.Printf("Error closing database connection: %v", err)
		}
	}()

	if err := db.EnsureIndexes(ctx); err != nil {
		slog.Error("failed to ensure indexes", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to MongoDB", "database", cfg.Database.Name)

	signer, err := newUploadSigner(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize upload signer", "error", err)
		os.Exit(1)
	}

	metrics := utils.NewMetricsCollector()
	system := actor.NewActorSystem()
	eng := engine.NewEngine(system, db, metrics)

	server := handlers.NewServer(system, eng, db, metrics, signer, auth.NewGoogleVerifier())

	mux := http.NewServeMux()
	registerRoutes(mux, server)

	corsConfig := middleware.DefaultCORSConfig(cfg.AllowedOrigins)
	handler := middleware.CORSMiddleware(corsConfig)(mux)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	slog.Info("server listening", "addr", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newUploadSigner(ctx context.Context, cfg *config.Config) (storage.UploadSigner, error) {
	expiry := time.Duration(cfg.Storage.URLExpiry) * time.Second
	return storage.NewS3Signer(ctx, cfg.Storage.Region, cfg.Storage.Bucket, expiry)
}

// registerRoutes wires every endpoint through the JWT middleware, which
// passes the public routes through untouched.
func registerRoutes(mux *http.ServeMux, server *handlers.Server) {
	routes := map[string]http.HandlerFunc{
		"/health": server.HandleHealth,

		"/signup":             server.HandleSignup,
		"/signin":             server.HandleSignin,
		"/google-auth":        server.HandleGoogleAuth,
		"/change-password":    server.HandleChangePassword,
		"/update-profile":     server.HandleUpdateProfile,
		"/update-profile-img": server.HandleUpdateProfileImg,
		"/search-user":        server.HandleSearchUser,
		"/get-profile":        server.HandleGetProfile,

		"/get-upload-url": server.HandleGetUploadURL,

		"/create-blog":              server.HandleCreateBlog,
		"/latest-blogs":             server.HandleLatestBlogs,
		"/trending-blogs":           server.HandleTrendingBlogs,
		"/all-latest-blogs-count":   server.HandleAllLatestBlogsCount,
		"/search-blogs":             server.HandleSearchBlogs,
		"/search-blogs-count":       server.HandleSearchBlogsCount,
		"/get-blog":                 server.HandleGetBlog,
		"/user-written-blogs":       server.HandleUserWrittenBlogs,
		"/user-written-blogs-count": server.HandleUserWrittenBlogsCount,
		"/like-blog":                server.HandleLikeBlog,
		"/isliked-by-user":          server.HandleIsLikedByUser,
		"/delete-blog":              server.HandleDeleteBlog,

		"/add-comment":       server.HandleAddComment,
		"/get-blog-comments": server.HandleGetBlogComments,
		"/get-replies":       server.HandleGetReplies,
		"/delete-comment":    server.HandleDeleteComment,

		"/new-notification":        server.HandleNewNotification,
		"/notifications":           server.HandleNotifications,
		"/all-notifications-count": server.HandleAllNotificationsCount,
	}

	for path, handler := range routes {
		mux.HandleFunc(path, middleware.ApplyJWTMiddleware(handler, path))
	}
}
