package utils

import "time"

// Clock источник текущего времени. Передается в сервисы явно,
// чтобы проверка просрочек не зависела от системных часов.
type Clock interface {
	Now() time.Time
}

// SystemClock возвращает системное время
type SystemClock struct{}

// Now возвращает текущее время
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock всегда возвращает одно и то же время
type FixedClock struct {
	T time.Time
}

// Now возвращает зафиксированное время
func (c FixedClock) Now() time.Time {
	return c.T
}
