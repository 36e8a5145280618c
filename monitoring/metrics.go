package monitoring

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method and status",
		},
		[]string{"method", "status"},
	)

	webhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Webhook events by type and outcome",
		},
		[]string{"event_type", "outcome"},
	)

	rateLimitRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limit_rejections_total",
			Help: "Requests rejected by the rate limiter",
		},
	)

	checkoutSessions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_sessions_total",
			Help: "Checkout sessions created by mode and status",
		},
		[]string{"mode", "status"},
	)

	assistantRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_requests_total",
			Help: "AI assistant requests by outcome",
		},
		[]string{"outcome"},
	)

	leaderboardSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "leaderboard_entries_total",
			Help: "Current leaderboard size per event",
		},
		[]string{"event_id"},
	)
)

func TrackHTTPRequest(method, status string) {
	httpRequests.WithLabelValues(method, status).Inc()
}

func TrackWebhookEvent(eventType, outcome string) {
	webhookEvents.WithLabelValues(eventType, outcome).Inc()
}

func TrackRateLimitRejection() {
	rateLimitRejections.Inc()
}

func TrackCheckoutSession(mode, status string) {
	checkoutSessions.WithLabelValues(mode, status).Inc()
}

func TrackAssistantRequest(outcome string) {
	assistantRequests.WithLabelValues(outcome).Inc()
}

type Monitor struct {
	redis *redis.Client
}

func NewMonitor(redisClient *redis.Client) *Monitor {
	monitor := &Monitor{redis: redisClient}

	if redisClient != nil {
		go monitor.collectMetrics()
	}

	return monitor
}

func (m *Monitor) collectMetrics() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.collectLeaderboardMetrics(context.Background())
	}
}

func (m *Monitor) collectLeaderboardMetrics(ctx context.Context) {
	keys, _ := m.redis.Keys(ctx, "leaderboard:*").Result()
	for _, key := range keys {
		eventID := key[len("leaderboard:"):]
		size, _ := m.redis.ZCard(ctx, key).Result()
		leaderboardSize.WithLabelValues(eventID).Set(float64(size))
	}
}

// Serve exposes /metrics on its own port.
func Serve(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(":"+port, mux); err != nil {
			log.Printf("metrics server stopped: %v", err)
		}
	}()
}
