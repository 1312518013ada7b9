package scheduler

import "errors"

var (
	// ErrInvalidWeekday возвращается для дня недели вне семи допустимых названий
	ErrInvalidWeekday = errors.New("scheduler: invalid weekday")

	// ErrInvalidConfig возвращается при некорректных ограничениях, настройках или календаре
	ErrInvalidConfig = errors.New("scheduler: invalid configuration")

	// ErrInvalidCatalog возвращается при некорректном каталоге помещений или слотов
	ErrInvalidCatalog = errors.New("scheduler: invalid catalog")
)
