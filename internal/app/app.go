package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/resolved-app/resolved/internal/config"
	"github.com/resolved-app/resolved/internal/db"
	"github.com/resolved-app/resolved/internal/repository"
	"github.com/resolved-app/resolved/internal/service"
	"github.com/resolved-app/resolved/internal/storage"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	AuthService    *service.AuthService
	UserService    *service.UserService
	ProfileService *service.ProfileService
	GoalService    *service.GoalService
	FollowService  *service.FollowService
	AvatarService  *service.AvatarService
	EmailService   *service.EmailService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	profileRepository := repository.NewProfileRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	subGoalRepository := repository.NewSubGoalRepository(database)
	followRepository := repository.NewFollowRepository(database)

	// Storage
	avatarStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(
		userRepository,
		profileRepository,
		cfg.JWTSecret,
		cfg.JWTExpiry,
		cfg.IsProduction(),
	)
	userService := service.NewUserService(userRepository)
	profileService := service.NewProfileService(profileRepository, emailService)
	goalService := service.NewGoalService(goalRepository, subGoalRepository)
	followService := service.NewFollowService(followRepository, userRepository, profileRepository, emailService)
	avatarService := service.NewAvatarService(profileRepository, avatarStorage)

	return &App{
		Cfg:            cfg,
		DB:             database,
		AuthService:    authService,
		UserService:    userService,
		ProfileService: profileService,
		GoalService:    goalService,
		FollowService:  followService,
		AvatarService:  avatarService,
		EmailService:   emailService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
