package schedulecache

import "errors"

var (
	// ErrCacheMiss расписания нет в кэше
	ErrCacheMiss = errors.New("schedule cache miss")
	// ErrCache ошибка обращения к Redis
	ErrCache = errors.New("schedule cache error")
	// ErrEncode ошибка сериализации расписания
	ErrEncode = errors.New("schedule cache encode error")
	// ErrVersionChanged месяц инвалидирован после чтения версии, запись пропущена
	ErrVersionChanged = errors.New("schedule cache version changed")
)
