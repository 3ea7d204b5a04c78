package workflow

import "errors"

// Ошибки workflow.
var (
	// ErrStepFailed — клиентский процесс шага завершился с ненулевым кодом.
	ErrStepFailed = errors.New("step failed")

	// ErrNoAnalysisID — submit завершился успешно, но в его выводе
	// нет ни одной валидной UUID-подстроки.
	ErrNoAnalysisID = errors.New("no analysis id in submit output")

	// ErrInvalidConfig — конфигурация не прошла валидацию.
	ErrInvalidConfig = errors.New("invalid workflow config")
)
