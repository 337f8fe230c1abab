package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"constructionProject/services"
	"constructionProject/utils"

	"github.com/gorilla/mux"
)

// writeJSON отправляет ответ в формате JSON
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		utils.LogError("Ошибка при записи ответа: %v", err)
	}
}

// statusFor сопоставляет ошибку движка с HTTP-статусом
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidAmount):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrProjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConcurrencyConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError отправляет ошибку движка. Детали ошибок хранилища клиенту не показываются.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		utils.LogError("Внутренняя ошибка: %v", err)
		utils.GetMetrics().RecordError(err)
		message = services.ErrPersistenceFailure.Error()
	}
	writeJSON(w, status, map[string]string{"error": message})
}

// projectID извлекает идентификатор проекта из пути
func projectID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil || id == 0 {
		return 0, services.ErrProjectNotFound
	}
	return uint(id), nil
}
