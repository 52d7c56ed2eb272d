package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/IDLKZ/jankuier-back-sub002/configs"
	"github.com/IDLKZ/jankuier-back-sub002/internal/adapter/cache"
	"github.com/IDLKZ/jankuier-back-sub002/internal/adapter/http"
	"github.com/IDLKZ/jankuier-back-sub002/internal/adapter/http/middleware"
	"github.com/IDLKZ/jankuier-back-sub002/internal/adapter/kafka"
	"github.com/IDLKZ/jankuier-back-sub002/internal/adapter/queue"
	"github.com/IDLKZ/jankuier-back-sub002/internal/adapter/repo"
	"github.com/IDLKZ/jankuier-back-sub002/internal/logging"
	"github.com/IDLKZ/jankuier-back-sub002/internal/usecase"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logging.Init(cfg.App.Name, "./logs/app.log")
	log := logging.New("app")

	// init database
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := db.PingContext(ctx); err != nil {
		cancel()
		return nil, nil, err
	}
	cancel()

	log.Info("commerce-api: starting up")

	// init redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, nil, err
	}

	// init rabbitmq
	conn, err := amqp091.Dial(cfg.Rabbit.URL)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, err
	}

	// infra
	store := repo.NewMySQLStore(db)
	repos := store.Repos()
	idem := cache.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL)
	redisCache := cache.NewRedisCache(rdb, cfg.Cache.TTL)
	producer, err := queue.NewRabbitProducer(ch)
	if err != nil {
		return nil, nil, err
	}

	// use cases
	cartItems := usecase.NewCartItems(store, redisCache)
	orders := usecase.NewOrders(store)
	orderStatus := usecase.NewOrderStatus(store)
	orderItems := usecase.NewOrderItems(store, idem)

	// outbox drain loop
	appCtx, stop := context.WithCancel(context.Background())
	publisher := queue.NewOutboxPublisher(repo.NewMySQLOutboxRepo(db), producer, cfg.Outbox.DrainInterval, logging.New("outbox"))
	go publisher.Run(appCtx)

	// consume our own order events to refresh the status cache
	setupQueue(ch, redisCache)

	// payment gateway events arrive over kafka
	setupKafkaListener(appCtx, cfg, orderStatus)

	// init handlers + router + middleware
	chh := http.NewCartHandler(cartItems, repos, redisCache)
	oh := http.NewOrderHandler(orders, orderStatus, orderItems, repos, redisCache)
	sh := http.NewStatusHandler(repo.NewMySQLStatusRepo(db))
	th := http.NewTokenHandler(cfg)
	auth := middleware.NewAuthz(cfg)
	router := http.NewRouter(chh, oh, sh, th, auth)

	cleanup := func() {
		stop()
		_ = ch.Close()
		_ = conn.Close()
		_ = rdb.Close()
		_ = db.Close()
	}

	return &App{Router: router}, cleanup, nil
}

func setupQueue(ch *amqp091.Channel, orderCache usecase.OrderCache) {
	h := queue.NewOrderEventsHandler(orderCache)

	router := queue.NewRouter(ch, queue.WithPrefetch(50), queue.WithLogger(logging.New("queue")))
	router.Register("order.events.q", queue.JSONHandler[usecase.OrderStatusChangedMsg]{HandleFunc: h.HandleStatusChanged})

	if err := router.Start(); err != nil {
		panic(err)
	}
}

func setupKafkaListener(ctx context.Context, cfg configs.Config, orderStatus *usecase.OrderStatus) {
	grp, err := kafka.NewGroup(cfg.Kafka.Brokers, cfg.Kafka.GroupID)
	if err != nil {
		panic(err)
	}

	h := kafka.NewPaymentStatusHandler(orderStatus)
	consumer := kafka.NewConsumer(grp, []string{cfg.Kafka.TopicPayments}, h.Handle)

	go func() {
		if err := consumer.Start(ctx); err != nil {
			panic(err)
		}
	}()
}
