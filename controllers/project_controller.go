package controllers

import (
	"net/http"

	"constructionProject/services"
)

// ProjectController обрабатывает запросы по проектам
type ProjectController struct {
	projects *services.ProjectService
	overdue  *services.OverdueService
}

// NewProjectController создает новый экземпляр ProjectController
func NewProjectController(projects *services.ProjectService, overdue *services.OverdueService) *ProjectController {
	return &ProjectController{projects: projects, overdue: overdue}
}

// GetProject возвращает проект с графиком платежей
func (c *ProjectController) GetProject(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	project, err := c.projects.GetProject(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// SweepProject помечает просроченные строки графика проекта
func (c *ProjectController) SweepProject(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	flipped, err := c.overdue.SweepProject(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"flipped": flipped})
}
