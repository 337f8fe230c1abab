package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config представляет конфигурацию приложения
type Config struct {
	Server struct {
		Port    int
		OpsRate string // лимит запросов к /ops в формате ulule/limiter, например "100-M"
	}
	DB struct {
		Driver         string // postgres или sqlite
		Host           string
		Port           int
		User           string
		Password       string
		DBName         string
		SQLitePath     string
		MigrationsPath string
	}
	JWT struct {
		SecretKey string
		ExpiresIn int // в часах
	}
	Auth struct {
		AdminEmail string // сотрудник с этим email при регистрации получает роль ADMIN
	}
	SMTP struct {
		Enabled  bool
		Host     string
		Port     int
		Username string
		Password string
		From     string
	}
	Engine struct {
		DepositLabel string // метка строки графика, считающейся задатком
		SweepCron    string // расписание общесистемной проверки просрочек
		SweepWorkers int
	}
	Log struct {
		Level string
		File  string
	}
}

// defaults содержит значения по умолчанию для всех ключей конфигурации
var defaults = map[string]interface{}{
	"server.port":          8080,
	"server.ops_rate":      "100-M",
	"db.driver":            "postgres",
	"db.host":              "localhost",
	"db.port":              5432,
	"db.user":              "postgres",
	"db.password":          "postgres",
	"db.name":              "construction_db",
	"db.sqlite_path":       "construction.db",
	"db.migrations_path":   "migrations",
	"jwt.secret_key":       "your-secret-key-here",
	"jwt.expires_in":       24,
	"auth.admin_email":     "",
	"smtp.enabled":         false,
	"smtp.host":            "smtp.gmail.com",
	"smtp.port":            587,
	"smtp.username":        "your-email@gmail.com",
	"smtp.password":        "your-app-password",
	"smtp.from":            "your-email@gmail.com",
	"engine.deposit_label": "Deposit",
	"engine.sweep_cron":    "15 0 * * *",
	"engine.sweep_workers": 4,
	"log.level":            "info",
	"log.file":             "",
}

// NewConfig создает новый экземпляр конфигурации.
// Значения читаются из переменных окружения (SERVER_PORT, DB_HOST, ENGINE_DEPOSIT_LABEL ...),
// необязательный файл .env подгружается заранее.
func NewConfig() (*Config, error) {
	// .env может отсутствовать, это не ошибка
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	return fromViper(v)
}

// fromViper собирает Config из настроенного экземпляра viper
func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	// Настройки сервера
	cfg.Server.Port = v.GetInt("server.port")
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("неверный формат порта сервера: %d", cfg.Server.Port)
	}
	cfg.Server.OpsRate = v.GetString("server.ops_rate")

	// Настройки базы данных
	cfg.DB.Driver = strings.ToLower(v.GetString("db.driver"))
	if cfg.DB.Driver != "postgres" && cfg.DB.Driver != "sqlite" {
		return nil, fmt.Errorf("неизвестный драйвер базы данных: %s", cfg.DB.Driver)
	}
	cfg.DB.Host = v.GetString("db.host")
	cfg.DB.Port = v.GetInt("db.port")
	if cfg.DB.Port <= 0 {
		return nil, fmt.Errorf("неверный формат порта базы данных: %d", cfg.DB.Port)
	}
	cfg.DB.User = v.GetString("db.user")
	cfg.DB.Password = v.GetString("db.password")
	cfg.DB.DBName = v.GetString("db.name")
	cfg.DB.SQLitePath = v.GetString("db.sqlite_path")
	cfg.DB.MigrationsPath = v.GetString("db.migrations_path")

	// Настройки JWT
	cfg.JWT.SecretKey = v.GetString("jwt.secret_key")
	cfg.JWT.ExpiresIn = v.GetInt("jwt.expires_in")
	if cfg.JWT.ExpiresIn <= 0 {
		return nil, fmt.Errorf("неверный формат времени жизни JWT: %d", cfg.JWT.ExpiresIn)
	}

	// Настройки доступа
	cfg.Auth.AdminEmail = strings.ToLower(strings.TrimSpace(v.GetString("auth.admin_email")))

	// Настройки SMTP
	cfg.SMTP.Enabled = v.GetBool("smtp.enabled")
	cfg.SMTP.Host = v.GetString("smtp.host")
	cfg.SMTP.Port = v.GetInt("smtp.port")
	cfg.SMTP.Username = v.GetString("smtp.username")
	cfg.SMTP.Password = v.GetString("smtp.password")
	cfg.SMTP.From = v.GetString("smtp.from")

	// Настройки движка расчетов
	cfg.Engine.DepositLabel = strings.TrimSpace(v.GetString("engine.deposit_label"))
	if cfg.Engine.DepositLabel == "" {
		return nil, fmt.Errorf("метка задатка не может быть пустой")
	}
	cfg.Engine.SweepCron = v.GetString("engine.sweep_cron")
	cfg.Engine.SweepWorkers = v.GetInt("engine.sweep_workers")
	if cfg.Engine.SweepWorkers <= 0 {
		cfg.Engine.SweepWorkers = 1
	}

	// Настройки логирования
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.File = v.GetString("log.file")

	return cfg, nil
}
