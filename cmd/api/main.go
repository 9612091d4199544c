package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/uniflow/uniflow-api/api/swagger"
	"github.com/uniflow/uniflow-api/internal/handler"
	"github.com/uniflow/uniflow-api/internal/middleware"
	"github.com/uniflow/uniflow-api/internal/models"
	"github.com/uniflow/uniflow-api/internal/repository"
	"github.com/uniflow/uniflow-api/internal/service"
	"github.com/uniflow/uniflow-api/pkg/cache"
	"github.com/uniflow/uniflow-api/pkg/config"
	"github.com/uniflow/uniflow-api/pkg/database"
	"github.com/uniflow/uniflow-api/pkg/export"
	"github.com/uniflow/uniflow-api/pkg/logger"
	corsmiddleware "github.com/uniflow/uniflow-api/pkg/middleware/cors"
	reqidmiddleware "github.com/uniflow/uniflow-api/pkg/middleware/requestid"
)

// @title UniFlow API
// @version 1.0.0
// @description University weekly schedule, template and mark management
// @BasePath /api/v1
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, schedule cache disabled", "error", err)
		redisClient = nil
	}

	metrics := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if redisClient != nil && cfg.Schedule.CacheEnabled {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Schedule.CacheTTL, logr, true)
	}

	userRepo := repository.NewUserRepository(db)
	termRepo := repository.NewTermRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	groupRepo := repository.NewStudyGroupRepository(db)
	templateRepo := repository.NewScheduleTemplateRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	markRepo := repository.NewStudentMarkRepository(db)
	accessRepo := repository.NewAccessRepository(db)

	authSvc := service.NewAuthService(userRepo, cfg.JWT, nil, logr)
	userSvc := service.NewUserService(userRepo, groupRepo, nil, logr)
	termSvc := service.NewTermService(termRepo, nil, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, nil, logr)
	groupSvc := service.NewStudyGroupService(groupRepo, cacheSvc, nil, logr)
	templateSvc := service.NewScheduleTemplateService(templateRepo, nil, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, markRepo, userRepo, cacheSvc, nil, logr)
	fillSvc := service.NewFillService(scheduleRepo, termRepo, templateRepo, cacheSvc, metrics, logr)
	markSvc := service.NewStudentMarkService(markRepo, scheduleRepo, userRepo, cacheSvc, nil, logr)
	accessSvc := service.NewAccessService(accessRepo, logr)

	bootCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := accessSvc.Bootstrap(bootCtx); err != nil {
		cancel()
		logr.Sugar().Fatalw("failed to seed role capabilities", "error", err)
	}
	cancel()

	authHandler := handler.NewAuthHandler(authSvc)
	termHandler := handler.NewTermHandler(termSvc)
	subjectHandler := handler.NewSubjectHandler(subjectSvc)
	groupHandler := handler.NewStudyGroupHandler(groupSvc, userSvc)
	templateHandler := handler.NewScheduleTemplateHandler(templateSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc, fillSvc, export.NewCSVExporter(), export.NewPDFExporter())
	markHandler := handler.NewStudentMarkHandler(markSvc)
	userHandler := handler.NewUserHandler(userSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.Authenticate(authSvc))

	authed.GET("/auth/me", authHandler.Me)

	terms := authed.Group("/terms")
	terms.GET("", middleware.RequireCapability(models.CapDictionariesRead), termHandler.List)
	terms.GET("/:id", middleware.RequireCapability(models.CapDictionariesRead), termHandler.Get)
	terms.POST("", middleware.RequireCapability(models.CapDictionariesWrite), termHandler.Create)
	terms.PUT("/:id", middleware.RequireCapability(models.CapDictionariesWrite), termHandler.Update)
	terms.DELETE("/:id", middleware.RequireCapability(models.CapDictionariesWrite), termHandler.Delete)

	subjects := authed.Group("/subjects")
	subjects.GET("", middleware.RequireCapability(models.CapDictionariesRead), subjectHandler.List)
	subjects.GET("/:id", middleware.RequireCapability(models.CapDictionariesRead), subjectHandler.Get)
	subjects.POST("", middleware.RequireCapability(models.CapDictionariesWrite), subjectHandler.Create)
	subjects.PUT("/:id", middleware.RequireCapability(models.CapDictionariesWrite), subjectHandler.Update)
	subjects.DELETE("/:id", middleware.RequireCapability(models.CapDictionariesWrite), subjectHandler.Delete)

	groups := authed.Group("/study-groups")
	groups.GET("", middleware.RequireCapability(models.CapDictionariesRead), groupHandler.List)
	groups.GET("/:id", middleware.RequireCapability(models.CapDictionariesRead), groupHandler.Get)
	groups.GET("/:id/members", middleware.RequireCapability(models.CapProfilesManage), groupHandler.Members)
	groups.POST("", middleware.RequireCapability(models.CapDictionariesWrite), groupHandler.Create)
	groups.PUT("/:id", middleware.RequireCapability(models.CapDictionariesWrite), groupHandler.Update)
	groups.DELETE("/:id", middleware.RequireCapability(models.CapDictionariesWrite), groupHandler.Delete)

	templates := authed.Group("/schedule-templates")
	templates.GET("", middleware.RequireCapability(models.CapTemplatesRead), templateHandler.Grid)
	templates.GET("/:id", middleware.RequireCapability(models.CapTemplatesRead), templateHandler.Get)
	templates.POST("", middleware.RequireCapability(models.CapTemplatesWrite), templateHandler.Create)
	templates.PUT("/:id", middleware.RequireCapability(models.CapTemplatesWrite), templateHandler.Update)
	templates.DELETE("/:id", middleware.RequireCapability(models.CapTemplatesWrite), templateHandler.Delete)

	schedules := authed.Group("/schedules")
	schedules.GET("", middleware.RequireCapability(models.CapSchedulesRead), scheduleHandler.Grid)
	schedules.POST("/fill", middleware.RequireCapability(models.CapSchedulesFill), scheduleHandler.Fill)
	schedules.GET("/export", middleware.RequireCapability(models.CapSchedulesExport), scheduleHandler.Export)
	schedules.GET("/:id", middleware.RequireCapability(models.CapSchedulesRead), scheduleHandler.Get)
	schedules.POST("", middleware.RequireCapability(models.CapSchedulesWrite), scheduleHandler.Create)
	schedules.PUT("/:id", middleware.RequireCapability(models.CapSchedulesWrite), scheduleHandler.Update)
	schedules.DELETE("/:id", middleware.RequireCapability(models.CapSchedulesWrite), scheduleHandler.Delete)
	schedules.GET("/:id/marks", middleware.RequireCapability(models.CapMarksRead), markHandler.List)
	schedules.POST("/:id/marks", middleware.RequireCapability(models.CapMarksWrite), markHandler.Create)

	marks := authed.Group("/marks")
	marks.PUT("/:markId", middleware.RequireCapability(models.CapMarksWrite), markHandler.Update)
	marks.DELETE("/:markId", middleware.RequireCapability(models.CapMarksWrite), markHandler.Delete)

	users := authed.Group("/users")
	users.GET("", middleware.RequireCapability(models.CapProfilesManage), userHandler.List)
	users.GET("/:id/profile", middleware.RequireCapability(models.CapProfilesManage), userHandler.GetProfile)
	users.PUT("/:id/profile", middleware.RequireCapability(models.CapProfilesManage), userHandler.UpdateProfile)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
