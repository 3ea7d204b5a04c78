package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shaiso/Songbird/internal/config"
	"github.com/shaiso/Songbird/internal/docker"
	"github.com/shaiso/Songbird/internal/domain"
	"github.com/shaiso/Songbird/internal/telemetry"
)

// Orchestrator выполняет четырёхшаговый workflow до конца
// или останавливается на первом упавшем шаге.
//
// Порядок фиксированный: submit → manifest → upload → publish.
// Шаг N+1 строится только после того, как процесс шага N завершился
// и его результат проверен. Ничего не ретраится, ничего не
// откатывается: состояние на удалённых сервисах при падении
// остаётся как есть.
type Orchestrator struct {
	cfg    config.Config
	runner docker.Runner
	logger *slog.Logger
}

// Config — конфигурация Orchestrator.
type Config struct {
	// Workflow — конфигурация workflow (валидируется в Run).
	Workflow config.Config

	// Runner — исполнитель invocations.
	// По умолчанию — CLIRunner поверх docker.
	Runner docker.Runner

	// Logger — логгер. По умолчанию slog.Default().
	Logger *slog.Logger
}

// New создаёт новый Orchestrator.
func New(cfg Config) *Orchestrator {
	runner := cfg.Runner
	if runner == nil {
		runner = docker.NewCLIRunner()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		cfg:    cfg.Workflow,
		runner: runner,
		logger: logger,
	}
}

// Run выполняет workflow и возвращает итоговый Submission.
//
// При любой ошибке Submission тоже возвращается: в нём статусы и
// захваченные потоки всех шагов, включая упавший. Невыполнявшиеся
// шаги помечены SKIPPED.
func (o *Orchestrator) Run(ctx context.Context) (*domain.Submission, error) {
	if err := o.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	sub := domain.NewSubmission(o.cfg.StudyID, o.cfg.JSONFile)
	logger := telemetry.WithSubmissionID(o.logger, sub.ID.String())

	logger.Info("starting submission workflow",
		"study_id", o.cfg.StudyID,
		"json_file", o.cfg.JSONFile,
		"directory", o.cfg.Directory,
	)

	// Шаг 1: submit. Единственный шаг, чей вывод парсится.
	result, err := o.runStep(ctx, logger, sub, docker.Submit(o.cfg))
	if err != nil {
		return sub, err
	}

	analysisID, err := ExtractAnalysisID(result.Stdout)
	if err != nil {
		o.failStep(logger, sub, domain.StepSubmit, result, err.Error())
		return sub, err
	}

	sub.AnalysisID = analysisID
	sub.Status = domain.StatusSubmitted
	logger = telemetry.WithAnalysisID(logger, analysisID.String())
	logger.Info("analysis id extracted")

	// Шаг 2: manifest.
	if _, err := o.runStep(ctx, logger, sub, docker.Manifest(o.cfg, analysisID.String())); err != nil {
		return sub, err
	}
	sub.Status = domain.StatusManifested

	// Шаг 3: upload.
	if _, err := o.runStep(ctx, logger, sub, docker.Upload(o.cfg)); err != nil {
		return sub, err
	}
	sub.Status = domain.StatusUploaded

	// Шаг 4: publish.
	if _, err := o.runStep(ctx, logger, sub, docker.Publish(o.cfg, analysisID.String())); err != nil {
		return sub, err
	}
	sub.Status = domain.StatusPublished

	sub.Status = domain.StatusDone
	logger.Info("submission workflow done")

	return sub, nil
}

// runStep выполняет один шаг: блокирующий запуск процесса,
// запись результата в Submission, остановка workflow при неуспехе.
func (o *Orchestrator) runStep(
	ctx context.Context,
	logger *slog.Logger,
	sub *domain.Submission,
	inv docker.Invocation,
) (*docker.ExecutionResult, error) {
	stepLogger := telemetry.WithStep(logger, inv.Step)
	stepLogger.Info("running step", "command", inv.String())

	stepCtx := ctx
	if o.cfg.StepTimeout > 0 {
		var cancel context.CancelFunc
		stepCtx, cancel = context.WithTimeout(ctx, o.cfg.StepTimeout)
		defer cancel()
	}

	result, err := o.runner.Run(stepCtx, inv)
	if err != nil {
		stepLogger.Error("step did not run", "error", err)
		o.failStep(logger, sub, domain.StepName(inv.Step), nil, err.Error())
		return nil, err
	}

	if !result.Success() {
		stepLogger.Error("step failed",
			"exit_code", result.ExitCode,
			"duration", result.Duration,
		)
		failErr := fmt.Errorf("%w: %s exited with code %d", ErrStepFailed, inv.Step, result.ExitCode)
		o.failStep(logger, sub, domain.StepName(inv.Step), result, failErr.Error())
		return nil, failErr
	}

	stepLogger.Info("step succeeded", "duration", result.Duration)
	sub.RecordStep(domain.StepResult{
		Name:     domain.StepName(inv.Step),
		Status:   domain.StepStatusSucceeded,
		ExitCode: result.ExitCode,
		Stdout:   result.Stdout,
		Stderr:   result.Stderr,
		Duration: result.Duration,
	})

	return result, nil
}

// failStep записывает упавший шаг и переводит submission в FAILED.
func (o *Orchestrator) failStep(
	logger *slog.Logger,
	sub *domain.Submission,
	name domain.StepName,
	result *docker.ExecutionResult,
	errMsg string,
) {
	step := domain.StepResult{
		Name:   name,
		Status: domain.StepStatusFailed,
		Error:  errMsg,
	}
	if result != nil {
		step.ExitCode = result.ExitCode
		step.Stdout = result.Stdout
		step.Stderr = result.Stderr
		step.Duration = result.Duration
	}

	sub.RecordStep(step)
	sub.MarkFailed()

	telemetry.WithStep(logger, string(name)).Error("workflow halted", "error", errMsg)
}
