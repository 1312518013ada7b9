package save_booking

import "github.com/google/uuid"

// UUIDGenerator генерирует UUID v4
type UUIDGenerator struct{}

// NewID возвращает новый UUID
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}
