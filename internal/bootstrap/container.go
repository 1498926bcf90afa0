package bootstrap

import (
	"context"
	"time"

	"learnhub-be/internal/config"
	"learnhub-be/internal/controller"
	"learnhub-be/internal/handler"
	"learnhub-be/internal/pkg/locker"
	"learnhub-be/internal/pkg/logger"
	"learnhub-be/internal/pkg/mailer"
	"learnhub-be/internal/repository/memory"
	"learnhub-be/internal/repository/unitofwork"
	"learnhub-be/internal/scheduler"
	"learnhub-be/internal/service"
	"learnhub-be/internal/websocket"
	"learnhub-be/pkg/events"
	"learnhub-be/pkg/gateway/vnpay"
	"learnhub-be/pkg/judge"
	pktNats "learnhub-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const activeCouponTTL = 5 * time.Minute

type Container struct {
	// Controllers
	PaymentController    controller.IPaymentController
	CouponController     controller.ICouponController
	EnrollmentController controller.IEnrollmentController
	JudgeController      controller.IJudgeController
	AdminController      controller.IAdminController

	// Background services, started by main.go
	ConsumerService     service.IConsumerService
	NotificationService *service.NotificationService
	Scheduler           *scheduler.Scheduler

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	c := &Container{Logger: sysLogger}

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
	)

	// 2. In-process queue for outbound mail
	emailQueue := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, watermill.NewStdLogger(false, false))
	c.closers = append(c.closers, func() { _ = emailQueue.Close() })

	// 3. Infrastructure. NATS and Redis are optional, the API degrades without them.
	var publisher events.Publisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "NATS publisher unavailable, domain events disabled", map[string]interface{}{"error": err.Error()})
	} else {
		publisher = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "NATS subscriber unavailable, realtime notifications disabled", map[string]interface{}{"error": err.Error()})
		natsSub = nil
	} else {
		c.closers = append(c.closers, natsSub.Close)
	}

	rdb := connectRedis(cfg.App.RedisURL, sysLogger)
	var lock locker.ILocker
	if rdb != nil {
		lock = locker.NewRedisLocker(rdb)
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	// 4. External clients
	gateway := vnpay.NewClient(vnpay.Config{
		URL:         cfg.VNPay.URL,
		TmnCode:     cfg.VNPay.TmnCode,
		HashSecret:  cfg.VNPay.HashSecret,
		ReturnURL:   cfg.VNPay.ReturnURL,
		ExpireAfter: time.Duration(cfg.VNPay.ExpireMinutes) * time.Minute,
	})
	judgeClient := judge.NewClient(judge.Config{
		BaseURL: cfg.Judge.BaseURL,
		Host:    cfg.Judge.Host,
		APIKey:  cfg.Judge.APIKey,
		Timeout: cfg.Judge.Timeout,
	})

	// 5. Services
	paymentService := service.NewPaymentService(uowFactory, gateway, lock, publisher, cfg.BankTransfer, sysLogger)
	couponService := service.NewCouponService(uowFactory, memory.NewCouponCache(activeCouponTTL), sysLogger)
	enrollmentService := service.NewEnrollmentService(uowFactory, publisher, sysLogger)
	revenueService := service.NewRevenueService(uowFactory)
	rewardService := service.NewRewardService(uowFactory, publisher, sysLogger)
	submissionService := service.NewSubmissionService(uowFactory, judgeClient, rewardService, sysLogger)
	reconcileService := service.NewReconciliationService(uowFactory, cfg.Scheduler.StalePendingTTL, publisher, sysLogger)

	c.Scheduler, err = scheduler.New(cfg.Scheduler.ReconcileSpec, reconcileService, sysLogger)
	if err != nil {
		return nil, err
	}

	// 6. Realtime notifications
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	c.WebSocketHub = websocket.NewHub(rdb, wsLogger)
	c.NotificationService = service.NewNotificationService(uowFactory, natsSub, c.WebSocketHub, emailQueue, cfg.App.EmailTopic, wsLogger)
	c.ConsumerService = service.NewConsumerService(emailQueue, cfg.App.EmailTopic, emailService, sysLogger)
	c.NotificationHandler = handler.NewNotificationHandler(c.WebSocketHub, wsLogger)

	// 7. Controllers
	c.PaymentController = controller.NewPaymentController(paymentService, revenueService)
	c.CouponController = controller.NewCouponController(couponService)
	c.EnrollmentController = controller.NewEnrollmentController(enrollmentService)
	c.JudgeController = controller.NewJudgeController(submissionService, rewardService)
	c.AdminController = controller.NewAdminController(revenueService, reconcileService, sysLogger)

	return c, nil
}

// Start launches the background workers. They stop when ctx is cancelled.
func (c *Container) Start(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)
	if err := c.ConsumerService.Consume(ctx); err != nil {
		return err
	}
	c.NotificationService.Start()
	c.Scheduler.Start()
	return nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	c.Scheduler.Stop()
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}

func connectRedis(url string, log logger.ILogger) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("BOOTSTRAP", "Failed to parse Redis URL, using it as an address", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("BOOTSTRAP", "Redis unavailable, payment locks and cluster fan-out disabled", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		return nil
	}
	return rdb
}
