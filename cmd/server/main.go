package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"chrono-union/backend/config"
	"chrono-union/backend/internal/api/handler"
	"chrono-union/backend/internal/api/router"
	"chrono-union/backend/internal/repository"
	"chrono-union/backend/internal/service"
	"chrono-union/backend/pkg/database"
	applogger "chrono-union/backend/pkg/logger"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, logger)
	h := handler.NewHandler(cfg, svc)

	// 5. 启动定时任务调度器
	scheduler, err := startScheduler(&cfg.Jobs, svc.Job, logger)
	if err != nil {
		logger.Fatal("定时任务调度器启动失败", zap.Error(err))
	}

	// 6. 初始化路由
	engine := router.Setup(cfg, h, logger)

	// 7. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 8. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if scheduler != nil {
		// 等待进行中的任务跑完
		<-scheduler.Stop().Done()
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭数据库连接
	closeDB, _ := db.DB()
	if closeDB != nil {
		closeDB.Close()
	}

	logger.Info("服务器已关闭")
}

// startScheduler 按配置的 cron 表达式绑定全部定时任务。
// 任务本体已自行隔离失败，调度层只负责节奏。
func startScheduler(cfg *config.JobsConfig, jobs service.JobService, logger *zap.Logger) (*cron.Cron, error) {
	if !cfg.Enabled {
		logger.Info("定时任务已禁用")
		return nil, nil
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("无效的调度器时区 %s: %w", cfg.Timezone, err)
	}

	scheduler := cron.New(cron.WithLocation(loc))
	bindings := []struct {
		name string
		expr string
	}{
		{service.JobInstanceGeneration, cfg.GenerationCron},
		{service.JobReminderNotification, cfg.ReminderCron},
		{service.JobDataCleanup, cfg.CleanupCron},
		{service.JobOldInstanceCleanup, cfg.OldInstanceCron},
		{service.JobIntegrityVerification, cfg.VerifyCron},
	}
	for _, b := range bindings {
		name := b.name
		if _, err := scheduler.AddFunc(b.expr, func() {
			// Execute 内部吞掉任务错误，这里只可能收到未知任务名
			if _, err := jobs.Execute(context.Background(), name); err != nil {
				logger.Error("定时任务触发失败", zap.String("job", name), zap.Error(err))
			}
		}); err != nil {
			return nil, fmt.Errorf("绑定定时任务 %s 失败: %w", name, err)
		}
		logger.Info("定时任务已绑定",
			zap.String("job", name),
			zap.String("cron", b.expr))
	}

	scheduler.Start()
	return scheduler, nil
}
