package services

import (
	"sync"
	"testing"
	"time"

	"constructionProject/database"
	"constructionProject/models"
	"constructionProject/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// today дата, от которой считаются просрочки во всех тестах пакета
var today = time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.OpenSQLite(":memory:", logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// seedProject создает проект с графиком и возвращает его ID
func seedProject(t *testing.T, db *gorm.DB, status models.ProjectStatus, installments ...models.Installment) uint {
	t.Helper()

	project := &models.Project{Name: "ЖК Северный", ManagerEmail: "pm@example.com", Status: status}
	require.NoError(t, (&database.Database{DB: db}).CreateSchedule(project, installments))
	return project.ID
}

// depositAndSecond стандартный график: задаток 10.00 и второй платеж 20.00
func depositAndSecond() []models.Installment {
	return []models.Installment{
		{Sequence: 1, DueDate: day(2026, 11, 1), Label: "Deposit", AmountDue: 1000, Status: models.InstallmentStatusDue},
		{Sequence: 2, DueDate: day(2026, 12, 1), Label: "Installment 2", AmountDue: 2000, Status: models.InstallmentStatusDue},
	}
}

func loadInstallments(t *testing.T, db *gorm.DB, projectID uint) []models.Installment {
	t.Helper()

	var installments []models.Installment
	require.NoError(t, db.Where("project_id = ?", projectID).Order("due_date, sequence").Find(&installments).Error)
	return installments
}

func loadProject(t *testing.T, db *gorm.DB, projectID uint) models.Project {
	t.Helper()

	var project models.Project
	require.NoError(t, db.First(&project, projectID).Error)
	return project
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}

// recordingNotifier запоминает уведомления
type recordingNotifier struct {
	mu      sync.Mutex
	planned []uint
}

func (n *recordingNotifier) ProjectPlanned(project models.Project) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.planned = append(n.planned, project.ID)
	return nil
}

func (n *recordingNotifier) calls() []uint {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]uint(nil), n.planned...)
}

type testEngine struct {
	db       *gorm.DB
	payments *PaymentService
	overdue  *OverdueService
	notifier *recordingNotifier
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()

	db := newTestDB(t)
	clock := utils.FixedClock{T: today}
	locks := utils.NewKeyedMutex()
	notifier := &recordingNotifier{}

	return &testEngine{
		db:       db,
		payments: NewPaymentService(db, notifier, clock, locks, "Deposit"),
		overdue:  NewOverdueService(db, clock, locks, 2),
		notifier: notifier,
	}
}
