package scheduler

import "time"

// weekOccurrence одно вхождение выбранного дня недели в месяц
type weekOccurrence struct {
	Number int       // 1-based
	Date   time.Time // дата вхождения
}

// partitionMonth разбивает месяц на недели по выбранному дню недели.
// Количество недель = ceil((дней в месяце - день первого вхождения + 1) / 7), но не меньше 1.
// Если день недели не встречается в месяце, возвращается пустой список.
func partitionMonth(year int, month time.Month, weekday time.Weekday) []weekOccurrence {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	// 1. Ищем первое вхождение дня недели
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	firstDay := 1 + offset
	if firstDay > daysInMonth {
		return []weekOccurrence{}
	}

	// 2. Считаем количество недель
	remaining := daysInMonth - firstDay + 1
	count := (remaining + 6) / 7
	if count < 1 {
		count = 1
	}

	// 3. Шагаем по 7 дней от первого вхождения
	weeks := make([]weekOccurrence, 0, count)
	for i := 0; i < count; i++ {
		weeks = append(weeks, weekOccurrence{
			Number: i + 1,
			Date:   first.AddDate(0, 0, offset+7*i),
		})
	}

	return weeks
}
