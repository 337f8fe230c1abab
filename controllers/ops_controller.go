package controllers

import (
	"net/http"

	"constructionProject/services"
	"constructionProject/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// OpsController служебные маршруты: состояние, метрики, ручной запуск проверки просрочек
type OpsController struct {
	db      *gorm.DB
	overdue *services.OverdueService
	metrics *utils.Metrics
}

// NewOpsController создает новый экземпляр OpsController
func NewOpsController(db *gorm.DB, overdue *services.OverdueService, metrics *utils.Metrics) *OpsController {
	return &OpsController{db: db, overdue: overdue, metrics: metrics}
}

// Health проверяет доступность базы данных
func (c *OpsController) Health(ctx *gin.Context) {
	sqlDB, err := c.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx.Request.Context())
	}
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Metrics возвращает снимок метрик
func (c *OpsController) Metrics(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.metrics.GetMetricsSnapshot())
}

// Sweep запускает общесистемную проверку просрочек
func (c *OpsController) Sweep(ctx *gin.Context) {
	summary, err := c.overdue.SweepAll(ctx.Request.Context())
	if err != nil {
		_ = ctx.Error(err)
		// остальные проекты уже обработаны, итог возвращается вместе с ошибкой
		ctx.JSON(http.StatusInternalServerError, gin.H{"summary": summary, "error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"summary": summary})
}

// Register регистрирует маршруты в группе
func (c *OpsController) Register(group *gin.RouterGroup, protected ...gin.HandlerFunc) {
	group.GET("/health", c.Health)

	admin := group.Group("", protected...)
	admin.GET("/metrics", c.Metrics)
	admin.POST("/sweep", c.Sweep)
}
