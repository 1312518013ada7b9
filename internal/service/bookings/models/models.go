package models

import (
	"time"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID             string `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// GetMonthBookingsRequest запрос на получение бронирований за месяц
type GetMonthBookingsRequest struct {
	Year             int
	Month            int
	Weekday          *string // фильтр по дню недели (опционально)
	IncludeCancelled bool
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetMonthBookingsRequest) ToDomainFilter() (domain.MonthBookingsFilter, error) {
	filter := domain.MonthBookingsFilter{
		Year:             r.Year,
		Month:            time.Month(r.Month),
		IncludeCancelled: r.IncludeCancelled,
	}

	if r.Weekday != nil {
		if _, err := domain.ParseWeekday(*r.Weekday); err != nil {
			return filter, err
		}
		filter.DayOfWeek = *r.Weekday
	}

	return filter, nil
}

// GetStaffBookingsRequest запрос на получение назначений сотрудника за месяц
type GetStaffBookingsRequest struct {
	StaffID string
	Year    int
	Month   int
}

// Response модели

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []*domain.Booking `json:"bookings"`
	Total    int               `json:"total"`
}

// FromDomainBookingList конвертирует список domain моделей в ответ
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	if bookings == nil {
		bookings = []*domain.Booking{}
	}
	return &BookingListResponse{
		Bookings: bookings,
		Total:    len(bookings),
	}
}
