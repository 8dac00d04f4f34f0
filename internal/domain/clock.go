package domain

import "time"

// Clock provee la hora actual; se inyecta para poder fijar el tiempo en tests.
type Clock interface {
	Now() time.Time
}

// SystemClock devuelve la hora del sistema en UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
