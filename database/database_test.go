package database

import (
	"testing"
	"time"

	"constructionProject/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	db, err := OpenSQLite(":memory:", logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	d := &Database{DB: db}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestCreateSchedule(t *testing.T) {
	d := newTestDatabase(t)

	project := &models.Project{Name: "Баня", Status: models.ProjectStatusCreated}
	installments := []models.Installment{
		{Sequence: 1, DueDate: time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC), Label: "Deposit", AmountDue: 1000, Status: models.InstallmentStatusDue},
		{Sequence: 2, DueDate: time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), Label: "Installment 2", AmountDue: 2000, Status: models.InstallmentStatusDue},
	}
	require.NoError(t, d.CreateSchedule(project, installments))

	var stored []models.Installment
	require.NoError(t, d.DB.Where("project_id = ?", project.ID).Order("sequence").Find(&stored).Error)
	require.Len(t, stored, 2)
	assert.Equal(t, models.Money(2000), stored[1].AmountDue)
	assert.Equal(t, models.Money(0), stored[1].AmountPaid)
	assert.True(t, stored[0].DueDate.Equal(installments[0].DueDate))
}

func TestUsers(t *testing.T) {
	d := newTestDatabase(t)

	user := &models.User{FirstName: "Anna", LastName: "Petrova", Email: "anna@example.com", Password: "hash"}
	require.NoError(t, d.CreateUser(user))
	assert.Equal(t, models.RoleManager, user.Role)

	found, err := d.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", found.Email)

	assert.Error(t, d.CreateUser(&models.User{FirstName: "Oleg", LastName: "Sidorov", Email: "oleg@example.com", Password: "hash", Role: "OWNER"}))
}
