package docker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// Ошибки запуска процессов.
var (
	// ErrRunFailed — процесс не удалось запустить или дождаться
	// (container runtime отсутствует и т.п.). Не путать с ненулевым
	// кодом завершения: тот возвращается в ExecutionResult без ошибки.
	ErrRunFailed = errors.New("failed to run command")

	// ErrRunTimeout — процесс убит по дедлайну шага.
	ErrRunTimeout = errors.New("command timed out")
)

// ExecutionResult — результат одного запуска Invocation.
type ExecutionResult struct {
	// ExitCode — код завершения процесса. 0 — успех.
	ExitCode int

	// Stdout — захваченный stdout, целиком.
	Stdout string

	// Stderr — захваченный stderr, целиком.
	Stderr string

	// Duration — время работы процесса.
	Duration time.Duration
}

// Success возвращает true, если процесс завершился с кодом 0.
func (r *ExecutionResult) Success() bool {
	return r.ExitCode == 0
}

// Runner выполняет Invocation и возвращает результат.
//
// Вызов блокирующий: Runner возвращает управление только после того,
// как процесс завершился и его потоки полностью прочитаны.
// В тестах подменяется скриптованным fake.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (*ExecutionResult, error)
}

// CLIRunner — Runner поверх бинаря container runtime.
type CLIRunner struct {
	// Binary — имя или путь бинаря runtime. По умолчанию "docker".
	Binary string
}

// NewCLIRunner создаёт CLIRunner с runtime по умолчанию.
func NewCLIRunner() *CLIRunner {
	return &CLIRunner{Binary: "docker"}
}

// Run выполняет Invocation, блокируясь до завершения процесса.
//
// Ненулевой код завершения — не ошибка: он возвращается в
// ExecutionResult, решение принимает вызывающий. Ошибка возвращается
// только если процесс не удалось запустить или он убит по дедлайну.
func (r *CLIRunner) Run(ctx context.Context, inv Invocation) (*ExecutionResult, error) {
	binary := r.Binary
	if binary == "" {
		binary = "docker"
	}

	cmd := exec.CommandContext(ctx, binary, inv.Argv()...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	if ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w: %s after %s", ErrRunTimeout, inv.Step, duration)
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: %v", ErrRunFailed, err)
		}
		exitCode = exitErr.ExitCode()
	}

	return &ExecutionResult{
		ExitCode: exitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: duration,
	}, nil
}
