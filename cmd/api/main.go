package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-digital-market.git/internal/blob"
	"github.com/ariefcatur/go-digital-market.git/internal/catalog"
	"github.com/ariefcatur/go-digital-market.git/internal/config"
	"github.com/ariefcatur/go-digital-market.git/internal/entitlement"
	"github.com/ariefcatur/go-digital-market.git/internal/httpx"
	"github.com/ariefcatur/go-digital-market.git/internal/identity"
	kafkax "github.com/ariefcatur/go-digital-market.git/internal/kafka"
	"github.com/ariefcatur/go-digital-market.git/internal/mail"
	"github.com/ariefcatur/go-digital-market.git/internal/orders"
	"github.com/ariefcatur/go-digital-market.git/internal/payments"
	"github.com/ariefcatur/go-digital-market.git/internal/postgres"
	"github.com/ariefcatur/go-digital-market.git/internal/redisx"
	"github.com/ariefcatur/go-digital-market.git/internal/tokens"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers (satu per topic)
	pApproved := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicProductApproved, 1024)
	pCreated := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024)
	pPaid := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderPaid, 1024)
	pFailed := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderPaymentFailed, 1024)
	pRefunded := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderRefunded, 1024)
	producers := []*kafkax.Producer{pApproved, pCreated, pPaid, pFailed, pRefunded}
	for _, p := range producers {
		p.Start(ctx)
	}

	// External collaborators
	processor := payments.NewStripe(cfg.StripeAPIKey, cfg.StripeWebhookSecret)
	idc := identity.New(cfg.AuthURL)
	blobStore := blob.New(cfg.BlobBaseURL)
	sender := mail.NewResend(cfg.ResendAPIKey, cfg.ReceiptFrom)
	codec := tokens.NewCodec(cfg.DownloadTokenSecret)

	// Repos & core components
	catalogRepo := &catalog.Repo{DB: db}
	ordersRepo := &orders.Repo{DB: db}

	sync := &payments.Sync{
		Catalog:   catalogRepo,
		Processor: processor,
		Producer:  pApproved,
		Service:   cfg.ServiceName,
	}
	checkout := &payments.Checkout{
		Catalog:   catalogRepo,
		Orders:    ordersRepo,
		Processor: processor,
		Producer:  pCreated,
		ServerURL: cfg.ServerURL,
		Service:   cfg.ServiceName,
	}
	reconciler := &payments.Reconciler{
		Orders:           ordersRepo,
		Verifier:         processor,
		Intents:          processor,
		Sender:           sender,
		Dedup:            &payments.RedisDeduper{Redis: rdb, Service: cfg.ServiceName},
		ProducerPaid:     pPaid,
		ProducerFailed:   pFailed,
		ProducerRefunded: pRefunded,
		Service:          cfg.ServiceName,
	}
	gate := &entitlement.Gate{Codec: codec, Catalog: catalogRepo, Orders: ordersRepo}

	// Router & handlers
	router := httpx.NewRouter()
	(&httpx.WebhooksHandler{Reconciler: reconciler}).Register(router)
	(&httpx.DownloadsHandler{Gate: gate, Blob: blobStore, Identity: idc, Codec: codec}).Register(router)
	(&httpx.CheckoutHandler{Checkout: checkout, Orders: ordersRepo, Redis: rdb, Identity: idc}).Register(router)
	(&httpx.ProductsHandler{Repo: catalogRepo, Identity: idc}).Register(router)
	(&httpx.AdminHandler{Repo: catalogRepo, Sync: sync, Identity: idc}).Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	for _, p := range producers {
		p.Close() // tutup inbox -> flush & close writer
	}
	cancel() // stop producer loop
	for _, p := range producers {
		p.WaitClosed() // drain
	}
}
