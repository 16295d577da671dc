package services

import "time"

// SetClock подменяет источник времени сервиса сессий в тестах.
func SetClock(s SessionService, now func() time.Time) {
	s.(*sessionService).now = now
}
