package domain

import (
	"time"

	"github.com/google/uuid"
)

// StepName — имя шага workflow.
type StepName string

const (
	// StepSubmit — отправка метаданных регистратору (song-client submit).
	StepSubmit StepName = "submit"

	// StepManifest — генерация манифеста для analysis (song-client manifest).
	StepManifest StepName = "manifest"

	// StepUpload — загрузка payload-файлов по манифесту (score-client upload).
	StepUpload StepName = "upload"

	// StepPublish — публикация analysis (song-client publish).
	StepPublish StepName = "publish"
)

// StepOrder возвращает шаги workflow в фиксированном порядке выполнения.
func StepOrder() []StepName {
	return []StepName{StepSubmit, StepManifest, StepUpload, StepPublish}
}

// StepResult — результат выполнения одного шага.
type StepResult struct {
	// Name — имя шага.
	Name StepName `json:"name"`

	// Status — финальный статус шага.
	Status StepStatus `json:"status"`

	// ExitCode — код завершения клиентского процесса.
	// Имеет смысл только для SUCCEEDED/FAILED.
	ExitCode int `json:"exit_code"`

	// Stdout — захваченный stdout клиентского процесса.
	Stdout string `json:"stdout,omitempty"`

	// Stderr — захваченный stderr клиентского процесса.
	Stderr string `json:"stderr,omitempty"`

	// Duration — длительность выполнения процесса.
	Duration time.Duration `json:"duration_ns"`

	// Error — сообщение об ошибке шага (ненулевой код,
	// неизвлечённый analysis ID и т.п.).
	Error string `json:"error,omitempty"`
}

// Submission — один прогон четырёхшагового workflow.
//
// Живёт только в памяти процесса: ничего не персистится,
// состояние на удалённых сервисах при падении остаётся как есть.
type Submission struct {
	// ID — локальный идентификатор прогона (для логов).
	ID uuid.UUID `json:"id"`

	// StudyID — идентификатор study в регистраторе.
	StudyID string `json:"study_id"`

	// JSONFile — имя файла метаданных внутри рабочей директории.
	JSONFile string `json:"json_file"`

	// Status — текущий статус workflow.
	Status SubmissionStatus `json:"status"`

	// AnalysisID — UUID, присвоенный регистратором на шаге submit.
	// Заполняется один раз, после успешного submit; дальше read-only.
	AnalysisID uuid.UUID `json:"analysis_id,omitempty"`

	// Steps — результаты шагов в порядке выполнения.
	Steps []StepResult `json:"steps"`

	// CreatedAt — время старта прогона.
	CreatedAt time.Time `json:"created_at"`
}

// NewSubmission создаёт Submission в статусе PENDING
// со всеми шагами в статусе PENDING.
func NewSubmission(studyID, jsonFile string) *Submission {
	steps := make([]StepResult, 0, len(StepOrder()))
	for _, name := range StepOrder() {
		steps = append(steps, StepResult{Name: name, Status: StepStatusPending})
	}

	return &Submission{
		ID:        uuid.New(),
		StudyID:   studyID,
		JSONFile:  jsonFile,
		Status:    StatusPending,
		Steps:     steps,
		CreatedAt: time.Now().UTC(),
	}
}

// RecordStep записывает результат шага.
// Неизвестное имя шага игнорируется.
func (s *Submission) RecordStep(result StepResult) {
	for i := range s.Steps {
		if s.Steps[i].Name == result.Name {
			s.Steps[i] = result
			return
		}
	}
}

// StepFor возвращает результат шага по имени.
func (s *Submission) StepFor(name StepName) (StepResult, bool) {
	for i := range s.Steps {
		if s.Steps[i].Name == name {
			return s.Steps[i], true
		}
	}
	return StepResult{}, false
}

// MarkFailed переводит submission в терминальный FAILED
// и помечает все невыполнявшиеся шаги как SKIPPED.
func (s *Submission) MarkFailed() {
	s.Status = StatusFailed
	for i := range s.Steps {
		if s.Steps[i].Status == StepStatusPending {
			s.Steps[i].Status = StepStatusSkipped
		}
	}
}
