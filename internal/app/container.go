package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/internal/config"
	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/internal/engine"
	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/internal/flows"
	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/internal/infrastructure/auth"
	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/internal/infrastructure/database"
	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/internal/infrastructure/notifications"
	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/internal/infrastructure/repositories"
	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/internal/infrastructure/telegram"
	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/internal/scheduler"
	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/internal/services"
)

// Container holds all wired dependencies of the bot.
type Container struct {
	Config *config.Config
	Log    *logrus.Logger

	DB          *gorm.DB
	RedisClient *redis.Client

	UserRepo        domain.UserRepository
	CourseRepo      domain.CourseRepository
	EnrollmentRepo  domain.EnrollmentRepository
	CertificateRepo domain.CertificateRepository
	Sessions        domain.SessionStore

	Gateway   *telegram.Gateway
	Access    domain.AccessService
	SMS       domain.NotificationService
	Accounts  domain.AccountService
	Catalog   domain.CatalogService
	Certs     domain.CertificateService
	Engine    *engine.Engine
	Scheduler *scheduler.Scheduler
}

// NewContainer creates and initializes all dependencies.
func NewContainer(cfg *config.Config, log *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Log: log}

	if err := c.initDatabase(); err != nil {
		return nil, err
	}
	if err := c.initSessions(); err != nil {
		return nil, err
	}
	if err := c.initServices(); err != nil {
		return nil, err
	}
	c.initEngine()
	return c, nil
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	c.DB = db
	return nil
}

// initSessions picks the wizard-state backend: Redis when an address is
// configured, the in-process store otherwise (single-instance deployments
// and local development).
func (c *Container) initSessions() error {
	if c.Config.RedisAddr == "" {
		c.Sessions = repositories.NewMemorySessionStore()
		c.Log.Info("sessions: using in-memory store")
		return nil
	}
	rdb := database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB).Client
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	c.RedisClient = rdb
	c.Sessions = repositories.NewRedisSessionStore(rdb, c.Config.SessionTTL)
	return nil
}

func (c *Container) initServices() error {
	cas, err := auth.NewCasbinService(c.DB, c.Config.CasbinModelPath, c.Config.AdminChatIDs)
	if err != nil {
		return fmt.Errorf("casbin: %w", err)
	}
	c.Access = cas

	c.Gateway = telegram.NewGateway(c.Config.BotToken, c.Config.BotAPIURL, c.Log)
	c.SMS = notifications.NewTwilioService(c.Config.TwilioSID, c.Config.TwilioToken, c.Config.TwilioFrom, c.Log)

	c.UserRepo = repositories.NewUserRepository(c.DB)
	c.CourseRepo = repositories.NewCourseRepository(c.DB)
	c.EnrollmentRepo = repositories.NewEnrollmentRepository(c.DB)
	c.CertificateRepo = repositories.NewCertificateRepository(c.DB)

	var notifyChatID int64
	if len(c.Config.AdminChatIDs) > 0 {
		notifyChatID = c.Config.AdminChatIDs[0]
	}
	c.Accounts = services.NewAccountService(c.UserRepo, c.Gateway, notifyChatID, c.Log)
	c.Catalog = services.NewCatalogService(c.CourseRepo, c.UserRepo, c.EnrollmentRepo)
	c.Certs = services.NewCertificateService(c.CertificateRepo, c.UserRepo, c.Gateway, c.SMS, c.Log)

	c.Scheduler = scheduler.New(
		c.EnrollmentRepo, c.UserRepo, c.CourseRepo, c.Gateway,
		c.Config.SchedulerHour, c.Config.Timezone, c.Log,
	)
	return nil
}

func (c *Container) initEngine() {
	c.Engine = engine.New(c.Sessions, c.Gateway, c.Log)
	flows.Install(c.Engine, flows.Deps{
		Accounts:     c.Accounts,
		Catalog:      c.Catalog,
		Certificates: c.Certs,
		Users:        c.UserRepo,
		Access:       c.Access,
		Gateway:      c.Gateway,
		Log:          c.Log,
	})
}
