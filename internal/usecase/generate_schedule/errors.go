package generate_schedule

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidWeekday возвращается для названия дня недели вне семи допустимых
	ErrInvalidWeekday = errors.New("invalid weekday")

	// ErrInvalidConfig возвращается, если движок отклонил ограничения или каталог
	ErrInvalidConfig = errors.New("invalid scheduling configuration")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("usecase: internal error")
)
