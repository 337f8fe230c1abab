package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"constructionProject/ledger"
	"constructionProject/models"
	"constructionProject/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// SweepSummary итог общесистемной проверки просрочек
type SweepSummary struct {
	Projects int `json:"projects"`
	Flipped  int `json:"flipped"`
	Failed   int `json:"failed"`
}

// OverdueService помечает просроченные строки графика вне регистрации платежей
type OverdueService struct {
	db      *gorm.DB
	clock   utils.Clock
	locks   *utils.KeyedMutex
	metrics *utils.Metrics
	workers int
}

// NewOverdueService создает новый экземпляр OverdueService
func NewOverdueService(db *gorm.DB, clock utils.Clock, locks *utils.KeyedMutex, workers int) *OverdueService {
	if workers <= 0 {
		workers = 1
	}
	metrics := utils.GetMetrics()
	metrics.RegisterErrorKinds(ErrorKinds...)

	return &OverdueService{
		db:      db,
		clock:   clock,
		locks:   locks,
		metrics: metrics,
		workers: workers,
	}
}

// SweepProject проверяет просрочки одного проекта и возвращает количество помеченных строк
func (s *OverdueService) SweepProject(ctx context.Context, projectID uint) (int, error) {
	unlock := s.locks.Lock(projectID)
	defer unlock()

	var flipped int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		project, installments, err := lockSchedule(tx, projectID)
		if err != nil {
			return err
		}

		before := snapshot(installments)
		flipped = len(ledger.SweepOverdue(installments, s.clock.Now()))
		if flipped == 0 {
			return nil
		}

		if err := saveChanged(tx, before, installments); err != nil {
			return err
		}
		return bumpProject(tx, project, project.Status)
	})
	if err != nil {
		return 0, classify("проверка просрочек", err)
	}

	return flipped, nil
}

// SweepAll проверяет просрочки по всем проектам с непогашенными строками.
// Каждый проект обрабатывается своей транзакцией; ошибка по одному проекту
// не останавливает остальные.
func (s *OverdueService) SweepAll(ctx context.Context) (SweepSummary, error) {
	start := time.Now()
	summary := SweepSummary{}

	// Получаем проекты, у которых есть строки, способные стать просроченными
	var projectIDs []uint
	if err := s.db.WithContext(ctx).
		Model(&models.Installment{}).
		Distinct("project_id").
		Where("status IN ?", []models.InstallmentStatus{models.InstallmentStatusDue, models.InstallmentStatusPartial}).
		Order("project_id").
		Pluck("project_id", &projectIDs).Error; err != nil {
		err = persistenceError("поиск проектов для проверки просрочек", err)
		s.metrics.RecordSweep(0, 0, err)
		return summary, err
	}
	summary.Projects = len(projectIDs)

	var (
		mu   sync.Mutex
		errs []error
	)
	g := new(errgroup.Group)
	g.SetLimit(s.workers)

	for _, id := range projectIDs {
		id := id
		g.Go(func() error {
			flipped, err := s.SweepProject(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.Failed++
				errs = append(errs, err)
				return nil
			}
			summary.Flipped += flipped
			return nil
		})
	}
	_ = g.Wait()

	err := errors.Join(errs...)
	s.metrics.RecordSweep(summary.Projects, summary.Flipped, err)
	utils.LogOperation("SweepAll", start, err, logrus.Fields{
		"projects": summary.Projects,
		"flipped":  summary.Flipped,
		"failed":   summary.Failed,
	})

	return summary, err
}
