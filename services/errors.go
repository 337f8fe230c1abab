package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Ошибки движка расчетов. Сравниваются через errors.Is.
var (
	// ErrInvalidAmount сумма платежа после перевода в минимальные единицы не больше нуля
	ErrInvalidAmount = errors.New("сумма платежа должна быть больше 0")
	// ErrProjectNotFound проект не найден
	ErrProjectNotFound = errors.New("проект не найден")
	// ErrConcurrencyConflict график проекта изменен параллельной операцией, операцию нужно повторить целиком
	ErrConcurrencyConflict = errors.New("график платежей изменен параллельно, повторите операцию")
	// ErrPersistenceFailure ошибка хранилища, транзакция откатана
	ErrPersistenceFailure = errors.New("ошибка при сохранении данных")
	// ErrInvalidRequest запрос не прошел валидацию
	ErrInvalidRequest = errors.New("неверный запрос")
)

// persistenceError оборачивает ошибку хранилища
func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrPersistenceFailure, op, err)
}

// ErrorKinds перечисляет ошибки движка, по которым группируются метрики
var ErrorKinds = []error{
	ErrInvalidAmount,
	ErrProjectNotFound,
	ErrConcurrencyConflict,
	ErrPersistenceFailure,
	ErrInvalidRequest,
}

// isTyped сообщает, относится ли ошибка к известным ошибкам движка
func isTyped(err error) bool {
	for _, kind := range ErrorKinds {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// classify приводит ошибку транзакции к одной из ошибок движка
func classify(op string, err error) error {
	if err == nil || isTyped(err) {
		return err
	}
	return persistenceError(op, err)
}

// ValidationMessage собирает ошибки валидатора в одно сообщение
func ValidationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	var errorMessages []string
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			errorMessages = append(errorMessages, "поле "+e.Field()+" обязательно")
		case "gt":
			errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть больше 0")
		case "oneof":
			errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть одним из: "+e.Param())
		case "max":
			errorMessages = append(errorMessages, "поле "+e.Field()+" должно содержать максимум "+e.Param()+" символов")
		case "min":
			errorMessages = append(errorMessages, "поле "+e.Field()+" должно содержать минимум "+e.Param()+" символов")
		case "email":
			errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть email")
		default:
			errorMessages = append(errorMessages, "поле "+e.Field()+" не прошло проверку "+e.Tag())
		}
	}
	return strings.Join(errorMessages, "; ")
}

// invalidRequest оборачивает ошибку валидации в ErrInvalidRequest
func invalidRequest(err error) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, ValidationMessage(err))
}
