package alerts

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/inventario-stock/internal/domain"
)

// Schedule hora local diaria de la revisión.
type Schedule struct {
	Hour   int
	Minute int
}

// ParseCronSchedule interpreta "minuto hora * * *". Solo se admite el disparo diario.
func ParseCronSchedule(expr string) (Schedule, error) {
	parts := strings.Fields(expr)
	if len(parts) != 5 {
		return Schedule{}, fmt.Errorf("cron %q: se esperan 5 campos: %w", expr, domain.ErrInvalidInput)
	}
	for _, p := range parts[2:] {
		if p != "*" {
			return Schedule{}, fmt.Errorf("cron %q: solo se admite programación diaria: %w", expr, domain.ErrInvalidInput)
		}
	}
	minute, err := strconv.Atoi(parts[0])
	if err != nil || minute < 0 || minute > 59 {
		return Schedule{}, fmt.Errorf("cron %q: minuto fuera de rango 0-59: %w", expr, domain.ErrInvalidInput)
	}
	hour, err := strconv.Atoi(parts[1])
	if err != nil || hour < 0 || hour > 23 {
		return Schedule{}, fmt.Errorf("cron %q: hora fuera de rango 0-23: %w", expr, domain.ErrInvalidInput)
	}
	return Schedule{Hour: hour, Minute: minute}, nil
}

// Next devuelve el primer disparo estrictamente posterior a after, en loc.
func (s Schedule) Next(after time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t := after.In(loc)
	next := time.Date(t.Year(), t.Month(), t.Day(), s.Hour, s.Minute, 0, 0, loc)
	if !next.After(t) {
		next = time.Date(t.Year(), t.Month(), t.Day()+1, s.Hour, s.Minute, 0, 0, loc)
	}
	return next
}

func (s Schedule) String() string {
	return fmt.Sprintf("%d %d * * *", s.Minute, s.Hour)
}
