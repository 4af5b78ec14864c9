package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Avleen-2464/EchoQuill/internal/application/usecase"
	"github.com/Avleen-2464/EchoQuill/internal/domain/entity"
	"github.com/Avleen-2464/EchoQuill/internal/domain/repository"
	"github.com/Avleen-2464/EchoQuill/internal/domain/service"
	"github.com/Avleen-2464/EchoQuill/internal/infrastructure/config"
	"github.com/Avleen-2464/EchoQuill/internal/infrastructure/emotion"
	"github.com/Avleen-2464/EchoQuill/internal/infrastructure/eventbus"
	"github.com/Avleen-2464/EchoQuill/internal/infrastructure/inference"
	"github.com/Avleen-2464/EchoQuill/internal/infrastructure/monitoring"
	"github.com/Avleen-2464/EchoQuill/internal/infrastructure/persistence"
	httpServer "github.com/Avleen-2464/EchoQuill/internal/interfaces/http"
	"github.com/Avleen-2464/EchoQuill/internal/interfaces/http/handlers"
)

// App 应用程序（依赖注入容器）
type App struct {
	// 配置
	config *config.Config
	logger *zap.Logger
	db     *gorm.DB

	// 仓储层
	messageRepo repository.MessageRepository
	journalRepo repository.JournalRepository

	// 基础设施
	bus     *eventbus.InMemoryBus
	monitor *monitoring.Monitor
	llm     service.TextGenerator
	emotion service.EmotionClassifier
	sweeper *service.RetentionSweeper

	// 应用服务
	chatUseCase     *usecase.ChatUseCase
	generateUseCase *usecase.GenerateJournalUseCase
	trendsUseCase   *usecase.MoodTrendsUseCase
	queryUseCase    *usecase.JournalQueryUseCase

	// 接口层
	httpServer *httpServer.Server
}

// NewApp 创建应用程序
func NewApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	app := &App{
		config: cfg,
		logger: logger,
	}

	if err := app.initRepositories(false); err != nil {
		return nil, fmt.Errorf("failed to init repositories: %w", err)
	}

	app.initInfrastructure()
	app.initApplicationServices()
	app.initSubscribers()
	app.initInterfaces()

	return app, nil
}

// NewAppBatch creates a lightweight app for the batch journal job.
// Skips the HTTP server and the retention sweeper; DB logging is silent.
func NewAppBatch(cfg *config.Config, logger *zap.Logger) (*App, error) {
	app := &App{
		config: cfg,
		logger: logger,
	}

	if err := app.initRepositories(true); err != nil {
		return nil, fmt.Errorf("failed to init repositories: %w", err)
	}

	app.initInfrastructure()
	app.sweeper = nil
	app.initApplicationServices()
	app.initSubscribers()

	return app, nil
}

// initRepositories 初始化仓储层
func (app *App) initRepositories(silent bool) error {
	app.logger.Info("Initializing repositories")

	var (
		db  *gorm.DB
		err error
	)
	if silent {
		db, err = persistence.NewDBConnectionSilent(&app.config.Database)
	} else {
		db, err = persistence.NewDBConnection(&app.config.Database)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.db = db

	app.messageRepo = persistence.NewGormMessageRepository(db)
	app.journalRepo = persistence.NewGormJournalRepository(db)

	return nil
}

// initInfrastructure 初始化基础设施
func (app *App) initInfrastructure() {
	app.logger.Info("Initializing infrastructure")

	app.monitor = monitoring.NewMonitor(app.logger)
	app.bus = eventbus.NewInMemoryBus(app.logger, app.config.Bus.BufferSize)

	ollama := inference.NewOllamaClient(
		app.config.Inference.BaseURL,
		app.config.Inference.Timeout,
		app.logger,
	)
	app.llm = monitoring.NewInstrumentedGenerator(ollama, app.monitor)

	classifier := emotion.NewClassifierClient(
		app.config.Emotion.BaseURL,
		app.config.Emotion.Timeout,
		app.logger,
	)
	app.emotion = monitoring.NewInstrumentedClassifier(classifier, app.monitor)

	app.sweeper = service.NewRetentionSweeper(
		service.RetentionConfig{
			Interval: app.config.Retention.SweepInterval,
			TTL:      app.config.Retention.TTL,
		},
		app.messageRepo,
		app.logger,
	)
	monitor := app.monitor
	bus := app.bus
	app.sweeper.SetOnSweep(func(deleted int64, cutoff time.Time) {
		monitor.AddMessagesSwept(deleted)
		bus.Publish(context.Background(), eventbus.NewEvent(eventbus.EventTypeRetentionSweep, eventbus.RetentionSweepPayload{
			Deleted: deleted,
			Cutoff:  cutoff,
		}))
	})
}

// initApplicationServices 初始化应用服务
func (app *App) initApplicationServices() {
	app.logger.Info("Initializing application services")

	app.chatUseCase = usecase.NewChatUseCase(
		app.messageRepo,
		app.llm,
		app.bus,
		usecase.ChatSettings{
			Model:       app.config.Inference.ChatModel,
			Temperature: app.config.Inference.Temperature,
			MaxTokens:   app.config.Inference.MaxTokens,
		},
		app.logger,
	)

	app.generateUseCase = usecase.NewGenerateJournalUseCase(
		app.messageRepo,
		app.journalRepo,
		app.llm,
		app.emotion,
		app.bus,
		usecase.JournalSettings{
			SummaryModel: app.config.Inference.SummaryModel,
			DiaryModel:   app.config.Inference.DiaryModel,
			Temperature:  app.config.Inference.Temperature,
			MaxTokens:    app.config.Inference.MaxTokens,
		},
		app.logger,
	)

	app.trendsUseCase = usecase.NewMoodTrendsUseCase(app.journalRepo, app.emotion, app.logger)
	app.queryUseCase = usecase.NewJournalQueryUseCase(app.journalRepo, app.logger)
}

// initSubscribers 注册事件订阅者。
// 聊天往返的持久化走事件总线，不阻塞在线回复。
func (app *App) initSubscribers() {
	messages := app.messageRepo
	monitor := app.monitor
	logger := app.logger

	app.bus.Subscribe(eventbus.EventTypeChatExchange, func(ctx context.Context, event eventbus.Event) {
		payload, ok := event.Payload().(eventbus.ChatExchangePayload)
		if !ok {
			return
		}

		// 请求上下文可能已结束，持久化用独立超时
		saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		userMsg := entity.ReconstructMessage(
			uuid.New().String(), payload.OwnerID, payload.ConversationID,
			entity.SenderUser, payload.UserText, payload.ExchangedAt,
		)
		botMsg := entity.ReconstructMessage(
			uuid.New().String(), payload.OwnerID, payload.ConversationID,
			entity.SenderBot, payload.BotText, payload.ExchangedAt.Add(time.Millisecond),
		)

		if err := messages.Save(saveCtx, userMsg); err != nil {
			logger.Error("Failed to persist user message",
				zap.String("conversation_id", payload.ConversationID),
				zap.Error(err),
			)
			monitor.IncError()
			return
		}
		if err := messages.Save(saveCtx, botMsg); err != nil {
			logger.Error("Failed to persist assistant message",
				zap.String("conversation_id", payload.ConversationID),
				zap.Error(err),
			)
			monitor.IncError()
		}
	})

	app.bus.Subscribe(eventbus.EventTypeJournalGenerated, func(ctx context.Context, event eventbus.Event) {
		monitor.IncJournalGenerated()
	})
}

// initInterfaces 初始化接口层
func (app *App) initInterfaces() {
	app.logger.Info("Initializing interfaces")

	chatHandler := handlers.NewChatHandler(app.chatUseCase, app.logger)
	journalHandler := handlers.NewJournalHandler(
		app.generateUseCase,
		app.trendsUseCase,
		app.queryUseCase,
		app.logger,
	)

	app.httpServer = httpServer.NewServer(
		httpServer.Config{
			Host: app.config.Server.Host,
			Port: app.config.Server.Port,
			Mode: app.config.Server.Mode,
		},
		chatHandler,
		journalHandler,
		app.monitor,
		app.llm,
		app.logger,
	)
}

// Start 启动应用程序
func (app *App) Start(ctx context.Context) error {
	app.logger.Info("Starting application")

	if app.sweeper != nil {
		app.sweeper.Start()
	}

	if app.httpServer != nil {
		if err := app.httpServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}

	app.logger.Info("Application started successfully")
	return nil
}

// Stop 停止应用程序
func (app *App) Stop(ctx context.Context) error {
	app.logger.Info("Stopping application")

	if app.httpServer != nil {
		if err := app.httpServer.Stop(ctx); err != nil {
			app.logger.Error("Failed to stop HTTP server", zap.Error(err))
		}
	}

	if app.sweeper != nil {
		app.sweeper.Stop()
	}

	// 总线先排空，保证在途的聊天记录落库
	app.bus.Close()

	// 关闭数据库连接
	if app.db != nil {
		sqlDB, err := app.db.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				app.logger.Error("Failed to close database connection", zap.Error(err))
			}
		}
	}

	app.logger.Info("Application stopped successfully")
	return nil
}

// GenerateJournalUseCase returns the journal pipeline (used by the batch job)
func (app *App) GenerateJournalUseCase() *usecase.GenerateJournalUseCase {
	return app.generateUseCase
}

// MessageRepository returns the message repository (used by the batch job)
func (app *App) MessageRepository() repository.MessageRepository {
	return app.messageRepo
}

// Logger returns the application logger
func (app *App) Logger() *zap.Logger {
	return app.logger
}

// AppConfig returns the application config
func (app *App) AppConfig() *config.Config {
	return app.config
}
