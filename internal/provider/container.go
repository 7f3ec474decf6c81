// Package provider wires repositories and services into one container
// shared by the HTTP handlers, the worker and the jobs.
package provider

import (
	"fmt"
	"time"

	"github.com/fournil-next/internal/authz"
	"github.com/fournil-next/internal/cache"
	"github.com/fournil-next/internal/config"
	"github.com/fournil-next/internal/models"
	"github.com/fournil-next/internal/queue"
	"github.com/fournil-next/internal/repository"
	"github.com/fournil-next/internal/service"

	"gorm.io/gorm"
)

// Container holds every shared dependency.
type Container struct {
	Config *config.Config
	DB     *gorm.DB

	OrderRepo    repository.OrderRepository
	ProductRepo  repository.ProductRepository
	CategoryRepo repository.CategoryRepository
	ShopRepo     repository.ShopRepository
	DeliveryRepo repository.DeliveryItemRepository
	UserRepo     repository.UserRepository

	Cache       *cache.Cache
	QueueClient *queue.Client
	Authz       *authz.Service

	AuthService    *service.AuthService
	CaptchaService *service.CaptchaService
	EmailService   *service.EmailService
	StockService   *service.StockService
	OrderService   *service.OrderService
	StatusService  *service.OrderStatusService
	ModService     *service.OrderModificationService
	AggService     *service.AggregationService
}

// Build assembles the container from configuration and an open database.
func Build(cfg *config.Config, db *gorm.DB) (*Container, error) {
	c := &Container{Config: cfg, DB: db}

	c.OrderRepo = repository.NewOrderRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ShopRepo = repository.NewShopRepository(db)
	c.DeliveryRepo = repository.NewDeliveryItemRepository(db)
	c.UserRepo = repository.NewUserRepository(db)

	if cfg.Redis.Enabled {
		c.Cache = cache.New(cache.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	}
	c.QueueClient = queue.NewClient(cfg.Queue)

	enforcer, err := authz.NewService(db)
	if err != nil {
		return nil, fmt.Errorf("authz init: %w", err)
	}
	c.Authz = enforcer
	if err := c.Authz.BootstrapBuiltinRoles(); err != nil {
		return nil, fmt.Errorf("authz bootstrap: %w", err)
	}

	c.CaptchaService = service.NewCaptchaService(cfg.Captcha)
	c.AuthService = service.NewAuthService(c.UserRepo, c.CaptchaService, cfg.JWT.SecretKey, cfg.JWT.ExpireHours)
	c.EmailService = service.NewEmailService(cfg.Email)
	c.StockService = service.NewStockService(c.ProductRepo)

	// A nil queue client must stay nil behind the interface.
	var enqueuer service.TaskEnqueuer
	if c.QueueClient != nil {
		enqueuer = c.QueueClient
	}
	c.OrderService = service.NewOrderService(db, c.OrderRepo, c.ProductRepo, c.ShopRepo, c.StockService, enqueuer)
	c.StatusService = service.NewOrderStatusService(db, c.OrderRepo, c.StockService)
	c.ModService = service.NewOrderModificationService(db, c.OrderRepo, c.ProductRepo, c.ShopRepo, c.StockService)
	c.AggService = service.NewAggregationService(
		db,
		c.OrderRepo,
		c.ProductRepo,
		c.DeliveryRepo,
		c.Cache,
		time.Duration(cfg.Report.CacheTTLSeconds)*time.Second,
	)

	if err := models.InitDefaultAdmin("", ""); err != nil {
		return nil, fmt.Errorf("default admin init: %w", err)
	}
	return c, nil
}

// Close releases the container's external connections.
func (c *Container) Close() {
	if c.QueueClient != nil {
		_ = c.QueueClient.Close()
	}
}
