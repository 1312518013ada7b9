package scheduler

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// MovesRecorder принимает количество перемещений, выполненных проходом оптимизатора
type MovesRecorder interface {
	ObserveOptimizerMoves(pass string, moves int)
}

type noopRecorder struct{}

func (noopRecorder) ObserveOptimizerMoves(string, int) {}
