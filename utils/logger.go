package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger общий логгер приложения
var Logger = logrus.New()

func init() {
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	Logger.SetOutput(os.Stdout)
}

// SetupLogger настраивает уровень и, при необходимости, файл для логов
func SetupLogger(level string, file string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("неверный уровень логирования: %v", err)
	}
	Logger.SetLevel(lvl)

	if file == "" {
		return nil
	}

	// Создаем директорию для логов, если она не существует
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return fmt.Errorf("не удалось создать директорию для логов: %v", err)
	}

	f, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("не удалось открыть файл логов: %v", err)
	}
	Logger.SetOutput(io.MultiWriter(os.Stdout, f))
	return nil
}

// caller возвращает файл и строку вызывающего кода
func caller() string {
	_, file, line, _ := runtime.Caller(2)
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

// LogInfo логирует информационное сообщение
func LogInfo(format string, v ...interface{}) {
	Logger.WithField("caller", caller()).Infof(format, v...)
}

// LogError логирует сообщение об ошибке
func LogError(format string, v ...interface{}) {
	Logger.WithField("caller", caller()).Errorf(format, v...)
}

// LogDebug логирует отладочное сообщение
func LogDebug(format string, v ...interface{}) {
	Logger.WithField("caller", caller()).Debugf(format, v...)
}

// LogOperation логирует операцию с длительностью и дополнительными полями
func LogOperation(operation string, startTime time.Time, err error, fields logrus.Fields) {
	entry := Logger.WithFields(fields).
		WithField("operation", operation).
		WithField("duration", time.Since(startTime))
	if err != nil {
		entry.WithError(err).Error("operation failed")
	} else {
		entry.Info("operation completed")
	}
}
