package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/shaiso/Songbird/internal/config"
	"github.com/shaiso/Songbird/internal/docker"
	"github.com/shaiso/Songbird/internal/domain"
	"github.com/shaiso/Songbird/internal/workflow"
)

// submitFlags — значения флагов команды submit.
type submitFlags struct {
	token       string
	songURL     string
	scoreURL    string
	studyID     string
	jsonFile    string
	directory   string
	songImage   string
	scoreImage  string
	profile     string
	stepTimeout time.Duration
	dryRun      bool
}

// register вешает флаги на команду.
func (f *submitFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.token, "token", "t", config.DefaultToken, "Access token forwarded to both clients")
	cmd.Flags().StringVarP(&f.songURL, "song", "a", config.DefaultSongURL, "Metadata registrar (SONG) URL")
	cmd.Flags().StringVarP(&f.scoreURL, "score", "b", config.DefaultScoreURL, "Object storage (SCORE) URL")
	cmd.Flags().StringVarP(&f.studyID, "study", "s", config.DefaultStudyID, "Study ID")
	cmd.Flags().StringVarP(&f.jsonFile, "json", "j", "", "Metadata JSON file name, relative to the directory")
	cmd.Flags().StringVarP(&f.directory, "directory", "d", "", "Directory with the metadata JSON and payload files")
	cmd.Flags().StringVar(&f.songImage, "song-image", config.DefaultSongImage, "SONG client container image")
	cmd.Flags().StringVar(&f.scoreImage, "score-image", config.DefaultScoreImage, "SCORE client container image")
	cmd.Flags().StringVar(&f.profile, "config", "", "YAML profile with defaults")
	cmd.Flags().DurationVar(&f.stepTimeout, "timeout", 0, "Per-step deadline (0 = none)")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Print the four commands without running them")
}

// buildConfig собирает итоговую конфигурацию.
// Приоритет: флаги > env > профиль > дефолты.
func (f *submitFlags) buildConfig(cmd *cobra.Command) (config.Config, error) {
	if err := config.LoadDotenv(); err != nil {
		return config.Config{}, err
	}

	cfg := config.Default()

	if f.profile != "" {
		if err := cfg.ApplyProfile(f.profile); err != nil {
			return config.Config{}, err
		}
	}

	cfg.ApplyEnv()

	// Флаги побеждают, но только явно заданные:
	// иначе дефолт флага затёр бы значение из env или профиля.
	flagOverrides := map[string]func(){
		"token":       func() { cfg.Token = f.token },
		"song":        func() { cfg.SongURL = f.songURL },
		"score":       func() { cfg.ScoreURL = f.scoreURL },
		"study":       func() { cfg.StudyID = f.studyID },
		"json":        func() { cfg.JSONFile = f.jsonFile },
		"directory":   func() { cfg.Directory = f.directory },
		"song-image":  func() { cfg.SongImage = f.songImage },
		"score-image": func() { cfg.ScoreImage = f.scoreImage },
		"timeout":     func() { cfg.StepTimeout = f.stepTimeout },
	}
	for name, apply := range flagOverrides {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	cfg.DryRun = f.dryRun

	// bind mount требует абсолютный путь источника.
	if cfg.Directory != "" {
		abs, err := filepath.Abs(cfg.Directory)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Directory = abs
	}

	return cfg, nil
}

// NewSubmitCmd создаёт команду submit — запуск полного workflow.
func NewSubmitCmd(outputFn func() *Output) *cobra.Command {
	flags := &submitFlags{}

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Run the four-step submission workflow",
		Long: `Submit a metadata document to the registrar, generate a manifest,
upload payload files and publish the analysis.

The four steps run strictly in order; the workflow halts on the
first failure and never retries.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			cfg, err := flags.buildConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if cfg.DryRun {
				printPlan(out, cfg)
				return nil
			}

			orch := workflow.New(workflow.Config{Workflow: cfg})

			sub, err := orch.Run(cmd.Context())
			if sub != nil {
				printSubmission(out, sub)
			}
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Analysis published: %s", sub.AnalysisID))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// NewPlanCmd создаёт команду plan — печать четырёх команд без запуска.
func NewPlanCmd(outputFn func() *Output) *cobra.Command {
	flags := &submitFlags{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the four workflow commands without running them",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			cfg, err := flags.buildConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			printPlan(out, cfg)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// analysisIDPlaceholder подставляется в план вместо настоящего
// analysis ID: тот известен только после выполнения submit.
const analysisIDPlaceholder = "<analysis-id>"

// printPlan печатает invocations четырёх шагов (секреты заретушированы).
func printPlan(out *Output, cfg config.Config) {
	invocations := docker.Plan(cfg, analysisIDPlaceholder)

	headers := []string{"STEP", "COMMAND"}
	rows := make([][]string, len(invocations))
	jsonData := make([]map[string]string, len(invocations))
	for i, inv := range invocations {
		rows[i] = []string{inv.Step, inv.String()}
		jsonData[i] = map[string]string{"step": inv.Step, "command": inv.String()}
	}

	out.Print(headers, rows, jsonData)
}

// printSubmission печатает итоговую сводку workflow и, если шаг упал,
// его диагностику: код завершения и захваченные stdout/stderr.
func printSubmission(out *Output, sub *domain.Submission) {
	if out.jsonMode {
		out.JSON(sub)
		return
	}

	headers := []string{"STEP", "STATUS", "EXIT_CODE", "DURATION"}
	rows := make([][]string, len(sub.Steps))
	for i, st := range sub.Steps {
		rows[i] = []string{
			string(st.Name),
			string(st.Status),
			strconv.Itoa(st.ExitCode),
			st.Duration.Round(time.Millisecond).String(),
		}
	}
	out.Table(headers, rows)

	for _, st := range sub.Steps {
		if st.Status != domain.StepStatusFailed {
			continue
		}
		out.Raw(fmt.Sprintf("step %s failed: %s", st.Name, st.Error))
		out.Raw(fmt.Sprintf("exit code: %d", st.ExitCode))
		if st.Stdout != "" {
			out.Raw("--- stdout ---")
			out.Raw(st.Stdout)
		}
		if st.Stderr != "" {
			out.Raw("--- stderr ---")
			out.Raw(st.Stderr)
		}
	}
}
