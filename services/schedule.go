package services

import (
	"errors"

	"constructionProject/ledger"
	"constructionProject/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockSchedule блокирует проект и его график до конца транзакции и загружает их.
// SQLite блокировку строк не поддерживает, там порядок обеспечивает KeyedMutex.
func lockSchedule(tx *gorm.DB, projectID uint) (*models.Project, []models.Installment, error) {
	var project models.Project
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrProjectNotFound
		}
		return nil, nil, persistenceError("поиск проекта", err)
	}

	var installments []models.Installment
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("project_id = ?", projectID).
		Order("due_date ASC, sequence ASC, id ASC").
		Find(&installments).Error; err != nil {
		return nil, nil, persistenceError("загрузка графика платежей", err)
	}
	if err := ledger.Validate(installments); err != nil {
		return nil, nil, persistenceError("загрузка графика платежей", err)
	}

	return &project, installments, nil
}

// saveChanged сохраняет строки, у которых изменилась оплата или статус.
// Обновление условное: если оплату строки успели изменить, возвращается ErrConcurrencyConflict.
func saveChanged(tx *gorm.DB, before, after []models.Installment) error {
	for i := range after {
		if before[i].AmountPaid == after[i].AmountPaid && before[i].Status == after[i].Status {
			continue
		}

		res := tx.Model(&models.Installment{}).
			Where("id = ? AND amount_paid = ? AND status = ?", after[i].ID, before[i].AmountPaid, before[i].Status).
			Updates(map[string]interface{}{
				"amount_paid": after[i].AmountPaid,
				"status":      after[i].Status,
			})
		if res.Error != nil {
			return persistenceError("обновление строки графика", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrConcurrencyConflict
		}
	}
	return nil
}

// bumpProject увеличивает версию проекта и при необходимости меняет статус.
// Условие по версии отсекает параллельную запись, прошедшую мимо блокировок.
func bumpProject(tx *gorm.DB, project *models.Project, status models.ProjectStatus) error {
	updates := map[string]interface{}{
		"version": gorm.Expr("version + 1"),
	}
	if status != project.Status {
		updates["status"] = status
	}

	res := tx.Model(&models.Project{}).
		Where("id = ? AND version = ?", project.ID, project.Version).
		Updates(updates)
	if res.Error != nil {
		return persistenceError("обновление проекта", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConcurrencyConflict
	}

	project.Version++
	project.Status = status
	return nil
}

// snapshot копирует график до применения правил
func snapshot(installments []models.Installment) []models.Installment {
	return append([]models.Installment(nil), installments...)
}
