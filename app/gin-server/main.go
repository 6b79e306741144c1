package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Rushil1274/palcodeai-local-testing/config"
	"github.com/Rushil1274/palcodeai-local-testing/internal/api/handlers"
	"github.com/Rushil1274/palcodeai-local-testing/internal/api/middleware"
	"github.com/Rushil1274/palcodeai-local-testing/internal/api/routes"
	"github.com/Rushil1274/palcodeai-local-testing/internal/cache"
	"github.com/Rushil1274/palcodeai-local-testing/internal/events"
	"github.com/Rushil1274/palcodeai-local-testing/internal/logger"
	"github.com/Rushil1274/palcodeai-local-testing/internal/models"
	"github.com/Rushil1274/palcodeai-local-testing/internal/providers/llm"
	"github.com/Rushil1274/palcodeai-local-testing/internal/providers/stt"
	"github.com/Rushil1274/palcodeai-local-testing/internal/providers/telephony"
	mongorepo "github.com/Rushil1274/palcodeai-local-testing/internal/repositories/mongo"
	pgrepo "github.com/Rushil1274/palcodeai-local-testing/internal/repositories/postgres"
	"github.com/Rushil1274/palcodeai-local-testing/internal/services"
	"github.com/Rushil1274/palcodeai-local-testing/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New()
	ctx := context.Background()

	// PostgreSQL: jobs and candidates
	pg, err := config.OpenPostgres(cfg.PostgresURI)
	if err != nil {
		log.WithError(err).Fatal("PostgreSQL init error")
	}
	if err := pg.AutoMigrate(&models.Job{}, &models.Candidate{}); err != nil {
		log.WithError(err).Fatal("PostgreSQL migration error")
	}
	log.Info("PostgreSQL connected")

	// MongoDB: interview aggregates
	mc, err := config.OpenMongo(cfg.MongoURI)
	if err != nil {
		log.WithError(err).Fatal("MongoDB init error")
	}
	mdb := mc.Database(cfg.MongoDB)
	if err := config.EnsureMongoIndexes(mdb); err != nil {
		log.WithError(err).Fatal("MongoDB index error")
	}
	log.Info("MongoDB connected")

	// Redis: snapshot cache + event feed (optional)
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = config.OpenRedis(cfg.RedisAddr)
		if err != nil {
			log.WithError(err).Fatal("Redis init error")
		}
		log.Info("Redis connected")
	} else {
		log.Warn("REDIS_ADDR not set; snapshot cache and event feed disabled")
	}

	store := buildStore(ctx, cfg, log)

	dispatcher, fetcher := buildTelephony(cfg, log)
	llmProvider := buildLLM(ctx, cfg, log)
	defer llmProvider.Close()
	sttProvider := buildSTT(ctx, cfg, log)
	defer sttProvider.Close()

	jobRepo := pgrepo.NewJobRepo(pg)
	candRepo := pgrepo.NewCandidateRepo(pg)
	ivRepo := mongorepo.NewInterviewRepo(mdb)

	deps := services.InterviewDeps{
		Jobs:       jobRepo,
		Candidates: candRepo,
		Interviews: ivRepo,
		Dispatcher: dispatcher,
		Recordings: fetcher,
		STT:        sttProvider,
		LLM:        llmProvider,
		Store:      store,
		Logger:     log,

		PublicBaseURL: cfg.PublicBaseURL,
		Whitelist:     cfg.OutboundWhitelist,
		SkipWhitelist: cfg.DevelopmentMode,
		STTLanguage:   cfg.STTLanguage,
	}
	if rdb != nil {
		deps.Cache = cache.NewRedisCache(rdb)
		deps.Events = events.NewRedisPublisher(rdb)
	}

	interviewSvc := services.NewInterviewService(deps)
	jobSvc := services.NewJobService(jobRepo, llmProvider)
	candSvc := services.NewCandidateService(candRepo, cfg.OutboundWhitelist, cfg.DevelopmentMode)
	resumeSvc := services.NewResumeService(store)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	rd := routes.Deps{
		Job:       handlers.NewJobHandler(jobSvc),
		Candidate: handlers.NewCandidateHandler(candSvc),
		Resume:    handlers.NewResumeHandler(resumeSvc),
		Interview: handlers.NewInterviewHandler(interviewSvc, cfg.VonageFromNumber),
		Webhook:   handlers.NewWebhookHandler(interviewSvc, log),
		Artifact:  handlers.NewArtifactHandler(store),
		Dev:       handlers.NewDevHandler(interviewSvc),

		APIKey:  cfg.APIKey,
		DevMode: cfg.DevelopmentMode,
	}
	if rdb != nil {
		rd.WS = handlers.NewWSHandler(rdb, log)
	}
	routes.RegisterRoutes(r, rd)

	log.WithFields(logrus.Fields{
		"port":     cfg.Port,
		"dev_mode": cfg.DevelopmentMode,
	}).Info("starting server")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server error")
	}
}

// buildStore prefers GCS when a bucket is configured, otherwise a local
// directory with a retention sweeper.
func buildStore(ctx context.Context, cfg config.Config, log *logrus.Logger) storage.Store {
	if cfg.GCSBucket != "" {
		s, err := storage.NewGCSStore(ctx, cfg.GCSBucket)
		if err != nil {
			log.WithError(err).Fatal("GCS init error")
		}
		log.WithField("bucket", cfg.GCSBucket).Info("artifact storage: GCS")
		return s
	}

	s, err := storage.NewLocalStore(cfg.ArtifactsDir)
	if err != nil {
		log.WithError(err).Fatal("artifact storage init error")
	}
	s.StartSweeper(ctx, time.Hour, cfg.Retention(), log)
	log.WithField("dir", cfg.ArtifactsDir).Info("artifact storage: local")
	return s
}

func buildTelephony(cfg config.Config, log *logrus.Logger) (telephony.Dispatcher, telephony.RecordingFetcher) {
	if cfg.DevelopmentMode {
		return &telephony.SimulatedDispatcher{Logger: log}, &telephony.SimulatedFetcher{}
	}
	if cfg.VonageApplicationID == "" || cfg.VonagePrivateKeyPath == "" {
		log.Fatal("VONAGE_APPLICATION_ID and VONAGE_PRIVATE_KEY_PATH are required outside development mode")
	}
	return telephony.NewVonage(cfg.VonageApplicationID, cfg.VonagePrivateKeyPath), telephony.NewHTTPRecordingFetcher()
}

func buildLLM(ctx context.Context, cfg config.Config, log *logrus.Logger) llm.Provider {
	if cfg.DevelopmentMode {
		return &llm.Simulated{}
	}
	p, err := llm.NewVertexGemini(ctx, cfg.VertexProject, cfg.VertexLocation, cfg.VertexModel)
	if err != nil {
		log.WithError(err).Fatal("Vertex init error")
	}
	return p
}

func buildSTT(ctx context.Context, cfg config.Config, log *logrus.Logger) stt.Provider {
	if cfg.DevelopmentMode {
		return &stt.Simulated{}
	}
	p, err := stt.NewGoogleSpeech(ctx)
	if err != nil {
		log.WithError(err).Fatal("Speech-to-Text init error")
	}
	return p
}
