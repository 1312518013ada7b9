package save_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidBookingDate возвращается, если дата не совпадает с днем недели или номером недели
	ErrInvalidBookingDate = errors.New("invalid booking date")

	// ErrInvalidTimeRange возвращается при некорректном временном диапазоне
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrRoomNotFound возвращается для помещения вне каталога
	ErrRoomNotFound = errors.New("room not found")

	// ErrSlotTypeNotFound возвращается для типа слота вне каталога
	ErrSlotTypeNotFound = errors.New("slot type not found")

	// ErrProcedureNotFound возвращается, когда процедура не найдена
	ErrProcedureNotFound = errors.New("procedure not found")

	// ErrStaffNotFound возвращается, когда сотрудник не найден
	ErrStaffNotFound = errors.New("staff member not found")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("usecase: internal error")
)
