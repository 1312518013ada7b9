package schedulecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
)

const (
	keyPrefix     = "schedule"
	versionPrefix = "schedule-version"
	allVersionKey = versionPrefix + ":all"
)

// setIfVersionScript записывает расписание, только если версии не менялись
// с момента чтения. KEYS: ключ расписания, версия всех месяцев, версия месяца.
// ARGV: ожидаемая версия, payload, TTL в миллисекундах.
const setIfVersionScript = `
local current = (redis.call('GET', KEYS[2]) or '0') .. '.' .. (redis.call('GET', KEYS[3]) or '0')
if current ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`

// Repository кэш сгенерированных расписаний в Redis.
// Расписание зависит от бронирований месяца, поэтому запись бронирования сбрасывает весь месяц.
type Repository struct {
	client RedisClient
	ttl    time.Duration
}

// NewRepository создает кэш. client == nil отключает кэширование.
func NewRepository(client RedisClient, ttl time.Duration) *Repository {
	return &Repository{client: client, ttl: ttl}
}

// Key ключ расписания: schedule:2024:01:Monday
func Key(year int, month time.Month, weekday string) string {
	return fmt.Sprintf("%s:%d:%02d:%s", keyPrefix, year, int(month), weekday)
}

func monthPattern(year int, month time.Month) string {
	return fmt.Sprintf("%s:%d:%02d:*", keyPrefix, year, int(month))
}

// monthVersionKey счетчик инвалидаций месяца: schedule-version:2024:01
func monthVersionKey(year int, month time.Month) string {
	return fmt.Sprintf("%s:%d:%02d", versionPrefix, year, int(month))
}

// Version возвращает версию кэша месяца в формате "<все месяцы>.<месяц>".
// Версию читают до загрузки данных и передают в Set.
func (r *Repository) Version(ctx context.Context, year int, month time.Month) (string, error) {
	if r.client == nil {
		return "", nil
	}

	values, err := r.client.MGet(ctx, allVersionKey, monthVersionKey(year, month)).Result()
	if err != nil {
		return "", fmt.Errorf("%w: Version - redis mget: %v", ErrCache, err)
	}

	parts := [2]string{"0", "0"}
	for i := 0; i < len(values) && i < len(parts); i++ {
		if v, ok := values[i].(string); ok && v != "" {
			parts[i] = v
		}
	}
	return parts[0] + "." + parts[1], nil
}

// Get возвращает расписание из кэша или ErrCacheMiss
func (r *Repository) Get(ctx context.Context, year int, month time.Month, weekday string) (*domain.Schedule, error) {
	if r.client == nil {
		return nil, ErrCacheMiss
	}

	key := Key(year, month, weekday)
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("%w: Get - redis get %s: %v", ErrCache, key, err)
	}

	var schedule domain.Schedule
	if err := json.Unmarshal(raw, &schedule); err != nil {
		return nil, fmt.Errorf("%w: Get - unmarshal %s: %v", ErrEncode, key, err)
	}

	return &schedule, nil
}

// Set сохраняет расписание с TTL репозитория, если версия месяца не изменилась
// после чтения version. Иначе возвращает ErrVersionChanged.
func (r *Repository) Set(ctx context.Context, schedule *domain.Schedule, version string) error {
	if r.client == nil {
		return nil
	}

	payload, err := json.Marshal(schedule)
	if err != nil {
		return fmt.Errorf("%w: Set - marshal schedule %s: %v", ErrEncode, schedule.ID, err)
	}

	key := Key(schedule.Year, schedule.Month, schedule.SelectedDay)
	keys := []string{key, allVersionKey, monthVersionKey(schedule.Year, schedule.Month)}

	stored, err := r.client.Eval(ctx, setIfVersionScript, keys, version, payload, r.ttl.Milliseconds()).Int64()
	if err != nil {
		return fmt.Errorf("%w: Set - redis eval %s: %v", ErrCache, key, err)
	}
	if stored == 0 {
		return fmt.Errorf("%w: Set - %s expected version %s", ErrVersionChanged, key, version)
	}

	return nil
}

// InvalidateMonth удаляет все расписания месяца (для всех дней недели)
func (r *Repository) InvalidateMonth(ctx context.Context, year int, month time.Month) error {
	return r.invalidate(ctx, "InvalidateMonth", monthVersionKey(year, month), monthPattern(year, month))
}

// InvalidateAll удаляет все расписания, например после смены настроек движка
func (r *Repository) InvalidateAll(ctx context.Context) error {
	return r.invalidate(ctx, "InvalidateAll", allVersionKey, keyPrefix+":*")
}

// invalidate увеличивает версию, чтобы незавершенные генерации не записали
// устаревшее расписание, затем удаляет записи
func (r *Repository) invalidate(ctx context.Context, op, versionKey, pattern string) error {
	if r.client == nil {
		return nil
	}

	bumpErr := r.client.Incr(ctx, versionKey).Err()

	if err := r.deleteByPattern(ctx, op, pattern); err != nil {
		return err
	}
	if bumpErr != nil {
		return fmt.Errorf("%w: %s - incr %s: %v", ErrCache, op, versionKey, bumpErr)
	}
	return nil
}

func (r *Repository) deleteByPattern(ctx context.Context, op, pattern string) error {
	if r.client == nil {
		return nil
	}

	keys := make([]string, 0)

	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("%w: %s - scan %s: %v", ErrCache, op, pattern, err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: %s - delete %d keys: %v", ErrCache, op, len(keys), err)
	}

	return nil
}
