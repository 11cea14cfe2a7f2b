package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	grpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/config"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/db"
	grpcclient "github.com/hackwithroshan/atootbandhan-sub000/internal/grpc"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/handlers"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/middleware"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/observability"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/rabbitmq"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/repositories"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/services"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/storage"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/telemetry"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/ws"
)

const serviceName = "bandhan-realtime"

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := observability.InitTracer(ctx, serviceName, cfg.Environment, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("tracer shutdown: %v", err)
		}
	}()

	database, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer database.Close()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	log.Printf("event publisher mode=%s %s", rabbitmq.PublisherMode(publisher), rabbitmq.PublisherNoopReason(publisher))
	observability.SetPublisher(publisher)
	audit := telemetry.NewAuditEmitter(publisher, cfg.AuditRoutingKey, serviceName, cfg.Environment)

	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithUnaryInterceptor(observability.GRPCClientMetricsUnaryInterceptor()),
	}
	authConn, err := grpc.Dial(cfg.AuthGRPCAddr, dialOpts...)
	if err != nil {
		log.Fatalf("failed to connect to auth grpc: %v", err)
	}
	defer authConn.Close()

	userConn, err := grpc.Dial(cfg.UserGRPCAddr, dialOpts...)
	if err != nil {
		log.Fatalf("failed to connect to user grpc: %v", err)
	}
	defer userConn.Close()

	authClient := grpcclient.NewAuthClient(authConn)
	userClient := grpcclient.NewUserClient(userConn)

	var uploader storage.Uploader
	if cfg.S3Bucket != "" {
		store, err := storage.NewS3Store(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3PublicURL, cfg.MaxUploadBytes)
		if err != nil {
			log.Fatalf("failed to init s3: %v", err)
		}
		uploader = store
	} else {
		log.Printf("uploads disabled: S3_BUCKET_NAME is empty")
	}

	hub := ws.NewHub()

	notifier := services.NewNotifier(repositories.NewNotificationRepo(database), hub, cfg.NotificationListLimit)
	messenger := services.NewMessenger(repositories.NewConversationRepo(database), repositories.NewMessageRepo(database), notifier, userClient, hub)
	interests := services.NewInterestService(repositories.NewInterestRepo(database), messenger, notifier, userClient)
	tickets := services.NewTicketService(repositories.NewTicketRepo(database), hub)

	gateway := ws.NewGateway(hub, tickets, messenger)
	wsHandler := ws.NewHandler(hub, gateway, authClient, ws.Options{
		EventsPerSecond: cfg.WSEventsPerSecond,
		EventBurst:      cfg.WSEventBurst,
		WriteTimeout:    cfg.WSWriteTimeout,
		AllowedOrigins:  cfg.AllowedOrigins,
	})

	ticketHandler := handlers.NewTicketHandler(tickets, audit)
	interestHandler := handlers.NewInterestHandler(interests)
	conversationHandler := handlers.NewConversationHandler(messenger)
	notificationHandler := handlers.NewNotificationHandler(notifier, audit)
	uploadHandler := handlers.NewUploadHandler(uploader, cfg.MaxUploadBytes)

	router := gin.New()

	// middlewares
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws", wsHandler.Handle)

	api := router.Group("/", middleware.AuthMiddleware(authClient))

	api.POST("/tickets", ticketHandler.CreateTicket)
	api.GET("/tickets", ticketHandler.ListMyTickets)
	api.GET("/tickets/:ticket_id", ticketHandler.GetTicket)
	api.POST("/tickets/:ticket_id/replies", ticketHandler.PostReply)

	api.GET("/interests", interestHandler.ListInterests)
	api.POST("/interests", interestHandler.SendInterest)
	api.PATCH("/interests/:interest_id", interestHandler.UpdateInterest)

	api.GET("/conversations", conversationHandler.ListConversations)
	api.GET("/conversations/:conversation_id/messages", conversationHandler.GetConversationMessages)
	api.GET("/messages/:partner_id", conversationHandler.GetMessagesWithPartner)
	api.POST("/messages/:partner_id", conversationHandler.SendMessage)

	api.GET("/notifications", notificationHandler.ListNotifications)
	api.GET("/notifications/unread-count", notificationHandler.UnreadCount)
	api.PATCH("/notifications/read-all", notificationHandler.MarkAllRead)
	api.PATCH("/notifications/:notification_id/read", notificationHandler.MarkRead)

	api.POST("/uploads", uploadHandler.Upload)

	admin := api.Group("/admin", middleware.RequireAdmin())
	admin.GET("/tickets", ticketHandler.ListAllTickets)
	admin.PATCH("/tickets/:ticket_id/status", ticketHandler.UpdateStatus)
	admin.POST("/notifications", notificationHandler.Announce)

	handlers.RegisterDebugRoutes(router, audit, cfg.DebugRoutes)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID", "X-Device-Id"},
		AllowCredentials: true,
	}).Handler(router)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	log.Printf("%s listening on :%s", serviceName, cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}
