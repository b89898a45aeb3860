package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/coocood/freecache"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/fitdash/internal/activities"
	"github.com/2beens/fitdash/internal/auth"
	"github.com/2beens/fitdash/internal/chat"
	"github.com/2beens/fitdash/internal/config"
	"github.com/2beens/fitdash/internal/dashboard"
	"github.com/2beens/fitdash/internal/db"
	"github.com/2beens/fitdash/internal/exercises"
	"github.com/2beens/fitdash/internal/middleware"
	"github.com/2beens/fitdash/internal/misc"
	"github.com/2beens/fitdash/internal/profile"
	"github.com/2beens/fitdash/internal/session"
	"github.com/2beens/fitdash/internal/telemetry/metrics"
	"github.com/2beens/fitdash/internal/telemetry/tracing"
	"github.com/2beens/fitdash/internal/upstream"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string
	startedAt         time.Time

	config     *config.Config
	dbPool     *pgxpool.Pool
	chatPoll   chat.PollConfig
	upstream   *upstream.Client
	journal    *activities.Journal
	actsCache  *freecache.Cache
	viewsStore *exercises.Store

	redisClient  *redis.Client
	sessionStore *session.Store

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	PostgresPassword        string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		DBUser:         params.Config.PostgresUser,
		DBPassword:     params.PostgresPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("fitdash", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	sessionTTL := params.Config.SessionTTL()
	if sessionTTL == 0 {
		sessionTTL = session.DefaultTTL
	}
	sessionStore := session.NewStore(sessionTTL, rdb)

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "fitdash", rdb)
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   params.Config.FitnessApiTimeout(),
	}

	journal := activities.NewJournal(dbPool)
	if err := journal.EnsureSchema(ctx); err != nil {
		log.Errorf("ensure sync journal schema: %s", err)
	}

	var actsCache *freecache.Cache
	if sizeMB := params.Config.ActivitiesCacheSizeMB; sizeMB > 0 {
		actsCache = freecache.NewCache(sizeMB * 1024 * 1024)
	}

	defaults := chat.DefaultPollConfig()
	pollSettings := params.Config.ChatPoll(config.ChatPollSettings{
		Initial:     defaults.InitialInterval,
		Max:         defaults.MaxInterval,
		MaxAttempts: defaults.MaxAttempts,
		MaxWait:     defaults.MaxWait,
	})
	chatPoll := chat.PollConfig{
		InitialInterval: pollSettings.Initial,
		MaxInterval:     pollSettings.Max,
		Multiplier:      defaults.Multiplier,
		MaxAttempts:     pollSettings.MaxAttempts,
		MaxWait:         pollSettings.MaxWait,
	}
	if err := chatPoll.Validate(); err != nil {
		return nil, fmt.Errorf("chat poll config: %w", err)
	}

	s := &Server{
		config:      params.Config,
		dbPool:      dbPool,
		versionInfo: params.VersionInfo,
		startedAt:   time.Now(),
		chatPoll:    chatPoll,
		upstream:    upstream.NewClient(params.Config.FitnessApiURL, tracedHttpClient),
		journal:     journal,
		actsCache:   actsCache,
		viewsStore:  exercises.NewStore(),

		redisClient:  rdb,
		sessionStore: sessionStore,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	go func() {
		ticker := time.NewTicker(time.Hour * 8)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.cleanSessions(ctx)
			}
		}
	}()

	return s, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	miscHandler := misc.NewHandler(s.versionInfo, s.startedAt)
	miscHandler.SetupRoutes(r)

	// the sync journal is optional
	var syncClient *activities.Client
	if s.journal != nil {
		syncClient = activities.NewClient(s.upstream, s.journal, s.actsCache, s.metricsManager)
		activities.NewJournalHandler(s.journal).SetupRoutes(r)
	} else {
		syncClient = activities.NewClient(s.upstream, nil, s.actsCache, s.metricsManager)
	}

	dashboardService := dashboard.NewService(s.viewsStore, syncClient, s.metricsManager)
	dashboard.NewHandler(dashboardService).SetupRoutes(r)
	dashboard.NewCalendarHandler().SetupRoutes(r)

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	authHandler := auth.NewHandler(auth.NewService(s.upstream, s.sessionStore))
	authHandler.SetupRoutes(r, reqRateLimiter, s.config.AuthRateLimitAllowedPerMin, s.metricsManager)

	chatClient, err := chat.NewClient(s.upstream, s.chatPoll, s.metricsManager)
	if err != nil {
		return nil, fmt.Errorf("new chat client: %w", err)
	}
	chat.NewHandler(chatClient).SetupRoutes(r)

	profile.NewHandler(profile.NewService(s.upstream)).SetupRoutes(r)

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(
		s.sessionStore,
		s.dropView,
		s.forcedLogout,
		dashboardService.DropView,
	)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

// forcedLogout runs whenever a session expires. A regular logout has already
// removed the session from the store, so only backend rejections are counted.
func (s *Server) forcedLogout(sess *session.Session) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	deleted, err := s.sessionStore.Delete(ctx, sess.ID)
	if err != nil {
		log.Errorf("forced logout, delete session [%s]: %s", sess.ID, err)
		return
	}
	if deleted {
		s.metricsManager.CounterForcedLogouts.Inc()
		log.Debugf("forced logout for [%s]", sess.Email)
	}
}

// cleanSessions removes timed out sessions together with their dashboard views.
func (s *Server) cleanSessions(ctx context.Context) {
	for _, id := range s.sessionStore.ScanAndClean(ctx) {
		s.dropView(id)
	}
}

// dropView forgets the dashboard view of a session that is gone.
func (s *Server) dropView(sessionID string) {
	if _, ok := s.viewsStore.Get(sessionID); !ok {
		return
	}
	s.viewsStore.Drop(sessionID)
	s.metricsManager.GaugeActiveViews.Set(float64(s.viewsStore.Len()))
	log.Debugf("dashboard view of stale session [%s] dropped", sessionID)
}

func (s *Server) Serve(_ context.Context, host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler: router,
		Addr:    ipAndPort,
		// chat awaits may take up to the poll budget
		WriteTimeout: s.chatPoll.MaxWait + 30*time.Second,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	// stop taking requests before the stores go away
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
