package workflow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shaiso/Songbird/internal/config"
	"github.com/shaiso/Songbird/internal/docker"
	"github.com/shaiso/Songbird/internal/domain"
)

const testAnalysisID = "ab12cd34-ef56-7890-ab12-cd34ef567890"

// fakeRunner — скриптованный Runner: результат на каждый шаг задаётся
// заранее, все invocations записываются в порядке вызова.
type fakeRunner struct {
	results map[string]*docker.ExecutionResult
	errs    map[string]error
	calls   []docker.Invocation
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		results: make(map[string]*docker.ExecutionResult),
		errs:    make(map[string]error),
	}
}

func (f *fakeRunner) Run(_ context.Context, inv docker.Invocation) (*docker.ExecutionResult, error) {
	f.calls = append(f.calls, inv)

	if err, ok := f.errs[inv.Step]; ok {
		return nil, err
	}
	if res, ok := f.results[inv.Step]; ok {
		return res, nil
	}
	// По умолчанию шаг успешен
	return &docker.ExecutionResult{ExitCode: 0, Stdout: "ok"}, nil
}

func (f *fakeRunner) stepNames() []string {
	names := make([]string, len(f.calls))
	for i, inv := range f.calls {
		names[i] = inv.Step
	}
	return names
}

func testConfig(t *testing.T) config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Directory = t.TempDir()
	cfg.JSONFile = "metadata.json"
	return cfg
}

func newTestOrchestrator(t *testing.T, runner docker.Runner) *Orchestrator {
	t.Helper()

	return New(Config{
		Workflow: testConfig(t),
		Runner:   runner,
	})
}

// --- Успешный прогон ---

func TestOrchestrator_Run_AllStepsSucceed(t *testing.T) {
	runner := newFakeRunner()
	runner.results["submit"] = &docker.ExecutionResult{
		ExitCode: 0,
		Stdout:   "Submitted successfully: " + testAnalysisID,
	}

	orch := newTestOrchestrator(t, runner)

	sub, err := orch.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Workflow дошёл до терминального DONE
	if sub.Status != domain.StatusDone {
		t.Errorf("expected status DONE, got %s", sub.Status)
	}
	if !sub.Status.IsTerminal() {
		t.Error("DONE should be terminal")
	}

	// Все четыре шага выполнились в фиксированном порядке
	want := []string{"submit", "manifest", "upload", "publish"}
	got := runner.stepNames()
	if len(got) != len(want) {
		t.Fatalf("expected %d invocations, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("invocation %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	// Все шаги SUCCEEDED
	for _, st := range sub.Steps {
		if st.Status != domain.StepStatusSucceeded {
			t.Errorf("step %s: expected SUCCEEDED, got %s", st.Name, st.Status)
		}
	}

	if sub.AnalysisID.String() != testAnalysisID {
		t.Errorf("expected analysis id %s, got %s", testAnalysisID, sub.AnalysisID)
	}
}

func TestOrchestrator_Run_AnalysisIDThreadedIntoManifestAndPublish(t *testing.T) {
	runner := newFakeRunner()
	runner.results["submit"] = &docker.ExecutionResult{
		ExitCode: 0,
		Stdout:   "analysisId generated: " + testAnalysisID,
	}

	orch := newTestOrchestrator(t, runner)

	if _, err := orch.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Извлечённый ID попадает дословно в manifest и publish — и только туда
	for _, inv := range runner.calls {
		args := strings.Join(inv.Argv(), " ")
		hasID := strings.Contains(args, testAnalysisID)

		switch inv.Step {
		case "manifest", "publish":
			if !hasID {
				t.Errorf("step %s: expected analysis id in argv: %s", inv.Step, args)
			}
		default:
			if hasID {
				t.Errorf("step %s: analysis id must not appear in argv: %s", inv.Step, args)
			}
		}
	}
}

// --- Остановка на первом упавшем шаге ---

func TestOrchestrator_Run_SubmitFails(t *testing.T) {
	runner := newFakeRunner()
	runner.results["submit"] = &docker.ExecutionResult{
		ExitCode: 2,
		Stdout:   "partial output",
		Stderr:   "connection refused",
	}

	orch := newTestOrchestrator(t, runner)

	sub, err := orch.Run(context.Background())
	if !errors.Is(err, ErrStepFailed) {
		t.Fatalf("expected ErrStepFailed, got %v", err)
	}

	if sub.Status != domain.StatusFailed {
		t.Errorf("expected status FAILED, got %s", sub.Status)
	}

	// Последующие шаги не запускались
	if len(runner.calls) != 1 {
		t.Fatalf("expected 1 invocation, got %d: %v", len(runner.calls), runner.stepNames())
	}

	// Диагностика сохранена
	st, ok := sub.StepFor(domain.StepSubmit)
	if !ok {
		t.Fatal("submit step missing")
	}
	if st.Status != domain.StepStatusFailed {
		t.Errorf("expected submit FAILED, got %s", st.Status)
	}
	if st.ExitCode != 2 {
		t.Errorf("expected exit code 2, got %d", st.ExitCode)
	}
	if st.Stdout != "partial output" || st.Stderr != "connection refused" {
		t.Errorf("captured streams not preserved: %+v", st)
	}

	// Невыполнявшиеся шаги помечены SKIPPED
	for _, name := range []domain.StepName{domain.StepManifest, domain.StepUpload, domain.StepPublish} {
		st, _ := sub.StepFor(name)
		if st.Status != domain.StepStatusSkipped {
			t.Errorf("step %s: expected SKIPPED, got %s", name, st.Status)
		}
	}
}

func TestOrchestrator_Run_ManifestFails(t *testing.T) {
	runner := newFakeRunner()
	runner.results["submit"] = &docker.ExecutionResult{ExitCode: 0, Stdout: testAnalysisID}
	runner.results["manifest"] = &docker.ExecutionResult{ExitCode: 1, Stderr: "analysis not found"}

	orch := newTestOrchestrator(t, runner)

	sub, err := orch.Run(context.Background())
	if !errors.Is(err, ErrStepFailed) {
		t.Fatalf("expected ErrStepFailed, got %v", err)
	}

	if sub.Status != domain.StatusFailed {
		t.Errorf("expected FAILED, got %s", sub.Status)
	}
	if len(runner.calls) != 2 {
		t.Fatalf("expected 2 invocations, got %v", runner.stepNames())
	}
}

func TestOrchestrator_Run_UploadFails_PublishNotInvoked(t *testing.T) {
	runner := newFakeRunner()
	runner.results["submit"] = &docker.ExecutionResult{ExitCode: 0, Stdout: testAnalysisID}
	runner.results["upload"] = &docker.ExecutionResult{ExitCode: 137, Stderr: "killed"}

	orch := newTestOrchestrator(t, runner)

	sub, err := orch.Run(context.Background())
	if !errors.Is(err, ErrStepFailed) {
		t.Fatalf("expected ErrStepFailed, got %v", err)
	}

	// Упали после SUBMITTED → MANIFESTED, publish не запускался
	want := []string{"submit", "manifest", "upload"}
	got := runner.stepNames()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if sub.Status != domain.StatusFailed {
		t.Errorf("expected FAILED, got %s", sub.Status)
	}

	st, _ := sub.StepFor(domain.StepManifest)
	if st.Status != domain.StepStatusSucceeded {
		t.Errorf("manifest should have succeeded before the halt, got %s", st.Status)
	}
	st, _ = sub.StepFor(domain.StepPublish)
	if st.Status != domain.StepStatusSkipped {
		t.Errorf("publish should be SKIPPED, got %s", st.Status)
	}
}

func TestOrchestrator_Run_PublishFails(t *testing.T) {
	runner := newFakeRunner()
	runner.results["submit"] = &docker.ExecutionResult{ExitCode: 0, Stdout: testAnalysisID}
	runner.results["publish"] = &docker.ExecutionResult{ExitCode: 1, Stderr: "not all files uploaded"}

	orch := newTestOrchestrator(t, runner)

	sub, err := orch.Run(context.Background())
	if !errors.Is(err, ErrStepFailed) {
		t.Fatalf("expected ErrStepFailed, got %v", err)
	}
	if sub.Status != domain.StatusFailed {
		t.Errorf("expected FAILED, got %s", sub.Status)
	}
	if len(runner.calls) != 4 {
		t.Fatalf("expected 4 invocations, got %v", runner.stepNames())
	}
}

// --- Извлечение analysis ID ---

func TestOrchestrator_Run_NoAnalysisIDInOutput(t *testing.T) {
	runner := newFakeRunner()
	// submit успешен, но UUID в выводе нет
	runner.results["submit"] = &docker.ExecutionResult{ExitCode: 0, Stdout: "SUCCESS"}

	orch := newTestOrchestrator(t, runner)

	sub, err := orch.Run(context.Background())
	if !errors.Is(err, ErrNoAnalysisID) {
		t.Fatalf("expected ErrNoAnalysisID, got %v", err)
	}

	if sub.Status != domain.StatusFailed {
		t.Errorf("expected FAILED, got %s", sub.Status)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("expected halt after submit, got %v", runner.stepNames())
	}

	st, _ := sub.StepFor(domain.StepSubmit)
	if st.Status != domain.StepStatusFailed {
		t.Errorf("submit should be FAILED on extraction error, got %s", st.Status)
	}
}

// --- Ошибки запуска и конфигурации ---

func TestOrchestrator_Run_RunnerError(t *testing.T) {
	runner := newFakeRunner()
	runner.errs["submit"] = docker.ErrRunFailed

	orch := newTestOrchestrator(t, runner)

	sub, err := orch.Run(context.Background())
	if !errors.Is(err, docker.ErrRunFailed) {
		t.Fatalf("expected ErrRunFailed, got %v", err)
	}
	if sub.Status != domain.StatusFailed {
		t.Errorf("expected FAILED, got %s", sub.Status)
	}
}

func TestOrchestrator_Run_InvalidConfig(t *testing.T) {
	runner := newFakeRunner()

	cfg := config.Default()
	// Directory не задана — workflow не должен стартовать
	orch := New(Config{Workflow: cfg, Runner: runner})

	_, err := orch.Run(context.Background())
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if len(runner.calls) != 0 {
		t.Fatalf("no process may be launched on config error, got %v", runner.stepNames())
	}
}
