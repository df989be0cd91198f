package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"pastlife-server/modules/common/config"
	redisClient "pastlife-server/modules/common/redis"
	"pastlife-server/modules/hub"
	"pastlife-server/modules/pastlife"
	"pastlife-server/modules/worker"
)

const shutdownTimeout = 10 * time.Second

// CORS 헤더 추가
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// 헬스 체크 엔드포인트
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "pastlife-server",
	})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 환경변수 로드
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	service, err := pastlife.NewServiceFromConfig(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize PastLife service: %v", err)
	}
	handler, err := pastlife.NewHandler(service)
	if err != nil {
		log.Fatalf("❌ Failed to initialize PastLife handler: %v", err)
	}

	// 진행 상황 브로드캐스트
	h := hub.New()
	h.StartCleanup(ctx, 30*time.Minute, 24*time.Hour)

	// 라우터 설정
	r := mux.NewRouter()
	r.Use(enableCORS)

	r.HandleFunc("/health", healthCheck).Methods("GET")
	r.HandleFunc("/ws", h.ServeWS)
	r.HandleFunc("/api/hub/metrics", h.HandleMetrics).Methods("GET")
	handler.RegisterRoutes(r)

	// Redis Queue Worker (REDIS_HOST가 있을 때만)
	if cfg.QueueEnabled() {
		rdb, err := redisClient.Connect(ctx, cfg)
		if err != nil {
			log.Fatalf("❌ Failed to connect to Redis: %v", err)
		}
		defer rdb.Close()

		queue := worker.NewRedisQueue(rdb, cfg.QueueName)
		worker.NewEnqueueHandler(queue).RegisterRoutes(r)
		go worker.New(queue, service, h).Run(ctx)
	} else {
		log.Println("⚠️ REDIS_HOST not set, async queue disabled")
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	log.Printf("🚀 PastLife Server starting on port %s", cfg.Port)
	log.Printf("🔮 Draw page: http://localhost:%s/", cfg.Port)
	log.Printf("📡 WebSocket endpoint: ws://localhost:%s/ws", cfg.Port)
	log.Printf("❤️  Health check: http://localhost:%s/health", cfg.Port)

	// 서버 시작
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	h.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Graceful shutdown failed: %v", err)
	}
	log.Println("👋 Server stopped")
}
