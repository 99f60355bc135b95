package app

import (
	"log/slog"

	httpapp "meme_gallery/internal/app/http"
	"meme_gallery/internal/config"
	"meme_gallery/internal/repository"
	adminservice "meme_gallery/internal/services/admin_service"
	memeservice "meme_gallery/internal/services/meme_service"
	uploadservice "meme_gallery/internal/services/upload_service"
	"meme_gallery/internal/storage/github"
	redisapp "meme_gallery/internal/storage/redis"
	httprouters "meme_gallery/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server
	Repo       *repository.Repository
}

func New(log *slog.Logger, cfg *config.Config) *App {
	client := redisapp.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)

	repo := repository.NewRepository(client)

	gh := github.NewClient(cfg.GitHub.Token, cfg.GitHub.Repo, cfg.GitHub.Branch)

	memeService := memeservice.NewMemeService(log, repo.Memes)
	friendService := memeservice.NewFriendService(log, repo.Friends)
	uploadService := uploadservice.NewUploadService(log, repo.Memes, repo.RateLimit, gh, cfg.Upload.Cooldown, cfg.Upload.MaxSize)
	adminService := adminservice.NewAdminService(log, cfg.Admin.Key, cfg.Admin.TokenSecret, cfg.Admin.TokenTTL)

	routers := httprouters.NewRouter(log, memeService, friendService, uploadService, adminService, client)

	server := httpapp.New(log, adminService.TokenSecret(), cfg.HTTP.Host, cfg.HTTP.Port, routers)
	server.BuildRouters()

	return &App{
		HTTPServer: server,
		Repo:       repo,
	}
}
