package domain

// SubmissionStatus — статус выполнения submission.
//
// Жизненный цикл:
//
//	PENDING → SUBMITTED → MANIFESTED → UPLOADED → PUBLISHED → DONE
//	        ↘ FAILED (из любого шага, возврата назад нет)
type SubmissionStatus string

const (
	// StatusPending — submission создан, ни один шаг ещё не выполнялся.
	StatusPending SubmissionStatus = "PENDING"

	// StatusSubmitted — метаданные приняты регистратором, analysis ID получен.
	StatusSubmitted SubmissionStatus = "SUBMITTED"

	// StatusManifested — манифест сгенерирован в рабочей директории.
	StatusManifested SubmissionStatus = "MANIFESTED"

	// StatusUploaded — файлы payload загружены в объектное хранилище.
	StatusUploaded SubmissionStatus = "UPLOADED"

	// StatusPublished — analysis опубликован в регистраторе.
	StatusPublished SubmissionStatus = "PUBLISHED"

	// StatusDone — workflow полностью завершён.
	StatusDone SubmissionStatus = "DONE"

	// StatusFailed — workflow остановлен на первом упавшем шаге.
	StatusFailed SubmissionStatus = "FAILED"
)

// IsTerminal возвращает true, если статус финальный.
func (s SubmissionStatus) IsTerminal() bool {
	switch s {
	case StatusDone, StatusFailed:
		return true
	default:
		return false
	}
}

// StepStatus — статус выполнения одного шага.
//
// Жизненный цикл:
//
//	PENDING → RUNNING → SUCCEEDED
//	                  ↘ FAILED
//	PENDING → SKIPPED (предыдущий шаг упал)
type StepStatus string

const (
	// StepStatusPending — шаг ещё не выполнялся.
	StepStatusPending StepStatus = "PENDING"

	// StepStatusRunning — клиентский процесс запущен.
	StepStatusRunning StepStatus = "RUNNING"

	// StepStatusSucceeded — процесс завершился с кодом 0.
	StepStatusSucceeded StepStatus = "SUCCEEDED"

	// StepStatusFailed — процесс завершился с ненулевым кодом
	// или не удалось извлечь analysis ID из его вывода.
	StepStatusFailed StepStatus = "FAILED"

	// StepStatusSkipped — шаг не запускался, потому что workflow
	// остановился раньше.
	StepStatusSkipped StepStatus = "SKIPPED"
)

// IsTerminal возвращает true, если статус финальный.
func (s StepStatus) IsTerminal() bool {
	switch s {
	case StepStatusSucceeded, StepStatusFailed, StepStatusSkipped:
		return true
	default:
		return false
	}
}
