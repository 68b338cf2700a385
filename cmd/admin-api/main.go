package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/Harati-Ahmed/My-School-platform-sub000/api/swagger"
	"github.com/Harati-Ahmed/My-School-platform-sub000/pkg/cache"
	"github.com/Harati-Ahmed/My-School-platform-sub000/pkg/config"
	"github.com/Harati-Ahmed/My-School-platform-sub000/pkg/database"
	"github.com/Harati-Ahmed/My-School-platform-sub000/pkg/logger"
	corsmiddleware "github.com/Harati-Ahmed/My-School-platform-sub000/pkg/middleware/cors"
	reqidmiddleware "github.com/Harati-Ahmed/My-School-platform-sub000/pkg/middleware/requestid"

	"github.com/Harati-Ahmed/My-School-platform-sub000/internal/handler"
	"github.com/Harati-Ahmed/My-School-platform-sub000/internal/middleware"
	"github.com/Harati-Ahmed/My-School-platform-sub000/internal/repository"
	"github.com/Harati-Ahmed/My-School-platform-sub000/internal/service"
)

// @title School Platform Admin API
// @version 0.1.0
// @description Draft-based editing API for schedules and teacher assignments
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository = cache.NewMemoryStore()
	if cfg.Drafts.UseRedisCache {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		redisRepo := repository.NewCacheRepository(client, logr)
		defer redisRepo.Close()
		cacheRepo = redisRepo
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Drafts.TeacherTTL, logr, cfg.Drafts.CacheEnabled)

	scheduleRepo := repository.NewScheduleRepository(db)
	assignmentRepo := repository.NewTeacherAssignmentRepository(db)
	referenceRepo := repository.NewReferenceRepository(db)

	validate := validator.New()

	scheduleFactory := func(classID, academicYear string) *service.ScheduleEditorService {
		return service.NewScheduleEditorService(scheduleRepo, classID, academicYear, validate, metricsSvc, logr)
	}
	assignmentFactory := func() *service.AssignmentEditorService {
		return service.NewAssignmentEditorService(assignmentRepo, referenceRepo, cacheSvc, metricsSvc, cfg.Drafts.TeacherTTL, cfg.Drafts.RosterTTL, logr)
	}

	scheduleHandler := handler.NewScheduleEditorHandler(scheduleFactory, logr)
	assignmentHandler := handler.NewAssignmentEditorHandler(assignmentFactory, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	schedule := api.Group("/schedule-editor/classes/:id")
	{
		schedule.POST("", scheduleHandler.Open)
		schedule.DELETE("", scheduleHandler.Close)
		schedule.GET("/grid", scheduleHandler.Grid)
		schedule.PUT("/slots", scheduleHandler.Stage)
		schedule.DELETE("/slots", scheduleHandler.Delete)
		schedule.POST("/slots/revert", scheduleHandler.Revert)
		schedule.GET("/changes", scheduleHandler.Changes)
		schedule.POST("/discard", scheduleHandler.Discard)
		schedule.POST("/publish", scheduleHandler.Publish)
	}

	assignment := api.Group("/assignment-editor")
	{
		assignment.DELETE("/sessions/:sid", assignmentHandler.CloseSession)
		assignment.POST("/sessions/:sid/teachers/:tid", assignmentHandler.OpenTeacher)
		assignment.GET("/sessions/:sid/teachers/:tid", assignmentHandler.TeacherState)
		assignment.DELETE("/sessions/:sid/teachers/:tid", assignmentHandler.CloseTeacher)
		assignment.PUT("/sessions/:sid/teachers/:tid/subjects", assignmentHandler.SetSubjects)
		assignment.PUT("/sessions/:sid/teachers/:tid/grade-levels", assignmentHandler.SetGradeLevels)
		assignment.PUT("/sessions/:sid/teachers/:tid/classes/:grade", assignmentHandler.SetClasses)
		assignment.GET("/sessions/:sid/changes", assignmentHandler.Changes)
		assignment.POST("/sessions/:sid/publish", assignmentHandler.Publish)
		assignment.POST("/sessions/:sid/discard", assignmentHandler.Discard)
		assignment.GET("/reference/teachers/:tid/candidates", assignmentHandler.Candidates)
		assignment.GET("/reference/classes", assignmentHandler.ClassRoster)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
