// Package config — конфигурация workflow: объявленные demo-дефолты
// и их переопределение через env, .env и YAML-профиль.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Значения по умолчанию — публичная demo-площадка Overture.
// Это объявленные дефолты конфигурации, а не скрытые константы:
// каждый из них переопределяется флагом, env-переменной или профилем.
const (
	// DefaultToken — demo-токен площадки. Не production-credential.
	DefaultToken = "88fe6ab2-8a5a-4ece-8f32-48a3e4db41fd"

	// DefaultSongURL — demo URL регистратора метаданных.
	DefaultSongURL = "https://song.demo.overture.bio"

	// DefaultScoreURL — demo URL объектного хранилища.
	DefaultScoreURL = "https://score.demo.overture.bio"

	// DefaultStudyID — study на demo-площадке.
	DefaultStudyID = "demoData"

	// DefaultSongImage — образ клиента регистратора.
	DefaultSongImage = "ghcr.io/overture-stack/song-client"

	// DefaultScoreImage — образ клиента хранилища.
	DefaultScoreImage = "ghcr.io/overture-stack/score"

	// DefaultMountTarget — путь внутри контейнера, куда монтируется
	// рабочая директория. Все пути в аргументах клиентов строятся от него.
	DefaultMountTarget = "/output"
)

// Ошибки конфигурации.
var (
	// ErrMissingDirectory — не указана рабочая директория.
	ErrMissingDirectory = errors.New("directory is required")

	// ErrMissingJSONFile — не указан файл метаданных.
	ErrMissingJSONFile = errors.New("json file is required")

	// ErrEmptyField — обязательное поле явно затёрто пустым значением.
	ErrEmptyField = errors.New("required field is empty")

	// ErrBadDirectory — рабочая директория не существует или не директория.
	ErrBadDirectory = errors.New("directory is not accessible")

	// ErrBadProfile — профиль не читается или не парсится.
	ErrBadProfile = errors.New("invalid profile")
)

// Config — конфигурация workflow.
//
// Собирается один раз при старте и дальше не мутирует.
// Приоритет источников: флаги > env > профиль > дефолты.
type Config struct {
	// Token — access token, пробрасываемый обоим клиентам.
	Token string

	// SongURL — базовый URL регистратора метаданных.
	SongURL string

	// ScoreURL — базовый URL объектного хранилища.
	ScoreURL string

	// StudyID — идентификатор study.
	StudyID string

	// Directory — директория с файлом метаданных и payload-файлами.
	// Монтируется в контейнеры клиентов. Обязательна.
	Directory string

	// JSONFile — имя файла метаданных относительно Directory. Обязателен.
	JSONFile string

	// SongImage — образ контейнера клиента регистратора.
	SongImage string

	// ScoreImage — образ контейнера клиента хранилища.
	ScoreImage string

	// MountTarget — точка монтирования Directory внутри контейнера.
	MountTarget string

	// StepTimeout — опциональный дедлайн на один шаг.
	// 0 — без дедлайна (поведение по умолчанию).
	StepTimeout time.Duration

	// DryRun — напечатать команды четырёх шагов, ничего не запуская.
	DryRun bool
}

// profile — схема YAML-профиля (--config).
// Длительности задаются строками ("90s", "2m").
type profile struct {
	Token       string `yaml:"token"`
	SongURL     string `yaml:"song_url"`
	ScoreURL    string `yaml:"score_url"`
	StudyID     string `yaml:"study_id"`
	Directory   string `yaml:"directory"`
	JSONFile    string `yaml:"json_file"`
	SongImage   string `yaml:"song_image"`
	ScoreImage  string `yaml:"score_image"`
	MountTarget string `yaml:"mount_target"`
	StepTimeout string `yaml:"step_timeout"`
}

// Default возвращает Config с объявленными demo-дефолтами.
func Default() Config {
	return Config{
		Token:       DefaultToken,
		SongURL:     DefaultSongURL,
		ScoreURL:    DefaultScoreURL,
		StudyID:     DefaultStudyID,
		SongImage:   DefaultSongImage,
		ScoreImage:  DefaultScoreImage,
		MountTarget: DefaultMountTarget,
	}
}

// LoadDotenv подгружает .env из текущей директории, если он есть.
// Отсутствие файла — не ошибка.
func LoadDotenv() error {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load()
}

// ApplyEnv накладывает env-переменные SONGBIRD_* поверх текущих значений.
// Пустые переменные игнорируются.
func (c *Config) ApplyEnv() {
	setIfPresent(&c.Token, "SONGBIRD_TOKEN")
	setIfPresent(&c.SongURL, "SONGBIRD_SONG_URL")
	setIfPresent(&c.ScoreURL, "SONGBIRD_SCORE_URL")
	setIfPresent(&c.StudyID, "SONGBIRD_STUDY_ID")
	setIfPresent(&c.SongImage, "SONGBIRD_SONG_IMAGE")
	setIfPresent(&c.ScoreImage, "SONGBIRD_SCORE_IMAGE")
}

func setIfPresent(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// ApplyProfile накладывает YAML-профиль поверх текущих значений.
// Незаполненные поля профиля не трогают текущие значения.
func (c *Config) ApplyProfile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadProfile, err)
	}

	var p profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("%w: %v", ErrBadProfile, err)
	}

	overlay(&c.Token, p.Token)
	overlay(&c.SongURL, p.SongURL)
	overlay(&c.ScoreURL, p.ScoreURL)
	overlay(&c.StudyID, p.StudyID)
	overlay(&c.Directory, p.Directory)
	overlay(&c.JSONFile, p.JSONFile)
	overlay(&c.SongImage, p.SongImage)
	overlay(&c.ScoreImage, p.ScoreImage)
	overlay(&c.MountTarget, p.MountTarget)

	if p.StepTimeout != "" {
		d, err := time.ParseDuration(p.StepTimeout)
		if err != nil {
			return fmt.Errorf("%w: step_timeout: %v", ErrBadProfile, err)
		}
		c.StepTimeout = d
	}
	return nil
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Validate проверяет, что workflow может стартовать.
// Вызывается до запуска первого процесса.
func (c *Config) Validate() error {
	if c.Directory == "" {
		return ErrMissingDirectory
	}
	if c.JSONFile == "" {
		return ErrMissingJSONFile
	}

	for name, v := range map[string]string{
		"token":        c.Token,
		"song url":     c.SongURL,
		"score url":    c.ScoreURL,
		"study id":     c.StudyID,
		"song image":   c.SongImage,
		"score image":  c.ScoreImage,
		"mount target": c.MountTarget,
	} {
		if v == "" {
			return fmt.Errorf("%w: %s", ErrEmptyField, name)
		}
	}

	info, err := os.Stat(c.Directory)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadDirectory, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrBadDirectory, c.Directory)
	}

	return nil
}
