package main

import (
	"constructionProject/config"
	"constructionProject/controllers"
	"constructionProject/database"
	"constructionProject/middleware"
	"constructionProject/models"
	"constructionProject/services"
	"constructionProject/utils"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/mux"
)

// application набор сервисов движка расчетов
type application struct {
	payments *services.PaymentService
	overdue  *services.OverdueService
	projects *services.ProjectService
	importer *services.StatementImportService
}

// newApplication собирает сервисы. Регистрация платежей и проверка просрочек
// используют общий KeyedMutex, чтобы операции над одним проектом шли по очереди.
func newApplication(cfg *config.Config, db *database.Database, clock utils.Clock, notifier services.Notifier) *application {
	locks := utils.NewKeyedMutex()
	payments := services.NewPaymentService(db.DB, notifier, clock, locks, cfg.Engine.DepositLabel)

	return &application{
		payments: payments,
		overdue:  services.NewOverdueService(db.DB, clock, locks, cfg.Engine.SweepWorkers),
		projects: services.NewProjectService(db.DB),
		importer: services.NewStatementImportService(payments),
	}
}

// newRouter регистрирует публичный API на mux и служебные маршруты /ops на gin
func newRouter(cfg *config.Config, db *database.Database, app *application) (*mux.Router, error) {
	router := mux.NewRouter()
	jwtKey := []byte(cfg.JWT.SecretKey)

	// Инициализируем контроллеры
	authController := controllers.NewAuthController(db, cfg)
	paymentController := controllers.NewPaymentController(app.payments, app.importer, app.projects)
	projectController := controllers.NewProjectController(app.projects, app.overdue)
	opsController := controllers.NewOpsController(db.DB, app.overdue, utils.GetMetrics())

	// Публичные маршруты для аутентификации
	router.HandleFunc("/api/auth/signUp", authController.SignUp).Methods("POST")
	router.HandleFunc("/api/auth/signIn", authController.SignIn).Methods("POST")

	// Защищенные маршруты
	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(middleware.AuthMiddleware(jwtKey))
	protected.Use(middleware.LoggingMiddleware)

	recorder := middleware.RequireRole(models.RoleAccountant, models.RoleAdmin)
	admin := middleware.RequireRole(models.RoleAdmin)

	protected.HandleFunc("/auth/me", authController.Me).Methods("GET")
	protected.Handle("/users", admin(http.HandlerFunc(authController.CreateUser))).Methods("POST")

	// Маршруты для работы с проектами и платежами
	protected.HandleFunc("/projects/{id:[0-9]+}", projectController.GetProject).Methods("GET")
	protected.HandleFunc("/projects/{id:[0-9]+}/payments", paymentController.ListPayments).Methods("GET")
	protected.Handle("/projects/{id:[0-9]+}/payments", recorder(http.HandlerFunc(paymentController.RecordPayment))).Methods("POST")
	protected.Handle("/projects/{id:[0-9]+}/payments/import", recorder(http.HandlerFunc(paymentController.ImportStatement))).Methods("POST")
	protected.Handle("/projects/{id:[0-9]+}/sweep", recorder(http.HandlerFunc(projectController.SweepProject))).Methods("POST")

	// Служебные маршруты
	rateLimit, err := middleware.RateLimit(cfg.Server.OpsRate)
	if err != nil {
		return nil, fmt.Errorf("неверный лимит запросов %q: %v", cfg.Server.OpsRate, err)
	}
	engine := gin.New()
	engine.ForwardedByClientIP = true
	engine.Use(middleware.Recovery(), middleware.Logger(), rateLimit, middleware.CORSMiddleware())
	opsController.Register(engine.Group("/ops"), middleware.Auth(jwtKey))
	router.PathPrefix("/ops").Handler(engine)

	return router, nil
}

func main() {
	// Инициализируем конфигурацию
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	if err := utils.SetupLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("Ошибка настройки логгера: %v", err)
	}
	gin.SetMode(gin.ReleaseMode)

	// Инициализируем подключение к базе данных
	db, err := database.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	defer db.Close()

	app := newApplication(cfg, db, utils.SystemClock{}, services.NewNotifier(cfg))

	// Запускаем планировщик проверки просрочек
	scheduler := services.NewPaymentSchedulerService(app.overdue, cfg.Engine.SweepCron)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Ошибка запуска планировщика: %v", err)
	}
	defer scheduler.Stop()

	router, err := newRouter(cfg, db, app)
	if err != nil {
		log.Fatalf("Ошибка настройки маршрутов: %v", err)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		utils.LogInfo("Сервер запущен на порту %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogError("Ошибка запуска сервера: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	utils.LogInfo("Останавливаем сервер")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.LogError("Ошибка остановки сервера: %v", err)
	}
}
