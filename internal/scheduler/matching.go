package scheduler

import (
	"sort"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
)

// matchRequirements распределяет кандидатов по местам требований к персоналу.
// Каждое требование дает Count мест, кандидат занимает не больше одного места.
// Максимальное паросочетание ищется увеличивающими путями (алгоритм Куна),
// поэтому общее требование не забирает единственного специалиста у более строгого.
// fits(r, c) сообщает, подходит ли кандидат c требованию r.
// Возвращает число занятых мест по каждому требованию.
func matchRequirements(reqs []domain.StaffRequirement, candidates int, fits func(req, cand int) bool) []int {
	seats := make([]int, 0)
	for i, req := range reqs {
		for k := 0; k < req.Count; k++ {
			seats = append(seats, i)
		}
	}
	// Строгие требования занимают места первыми: при равном размере паросочетания
	// недобор приходится на общие требования
	sort.SliceStable(seats, func(a, b int) bool {
		return len(reqs[seats[a]].Specialties) > len(reqs[seats[b]].Specialties)
	})

	// owner[c] - место, занятое кандидатом c, или -1
	owner := make([]int, candidates)
	for c := range owner {
		owner[c] = -1
	}

	var augment func(seat int, visited []bool) bool
	augment = func(seat int, visited []bool) bool {
		for c := 0; c < candidates; c++ {
			if visited[c] || !fits(seats[seat], c) {
				continue
			}
			visited[c] = true
			if owner[c] < 0 || augment(owner[c], visited) {
				owner[c] = seat
				return true
			}
		}
		return false
	}

	for seat := range seats {
		augment(seat, make([]bool, candidates))
	}

	matched := make([]int, len(reqs))
	for _, seat := range owner {
		if seat >= 0 {
			matched[seats[seat]]++
		}
	}
	return matched
}
