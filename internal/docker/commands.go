package docker

import (
	"path"

	"github.com/shaiso/Songbird/internal/config"
	"github.com/shaiso/Songbird/internal/domain"
)

// ManifestFile — имя манифеста внутри рабочей директории.
// Его пишет шаг manifest и читает шаг upload.
const ManifestFile = "manifest.txt"

// songEnv — контракт окружения клиента регистратора.
func songEnv(cfg config.Config) []EnvVar {
	return []EnvVar{
		{Key: "CLIENT_ACCESS_TOKEN", Value: cfg.Token},
		{Key: "CLIENT_STUDY_ID", Value: cfg.StudyID},
		{Key: "CLIENT_SERVER_URL", Value: cfg.SongURL},
	}
}

// scoreEnv — контракт окружения клиента хранилища.
func scoreEnv(cfg config.Config) []EnvVar {
	return []EnvVar{
		{Key: "ACCESSTOKEN", Value: cfg.Token},
		{Key: "STORAGE_URL", Value: cfg.ScoreURL},
		{Key: "METADATA_URL", Value: cfg.SongURL},
	}
}

// Submit строит invocation шага submit: регистрация файла метаданных.
func Submit(cfg config.Config) Invocation {
	return Invocation{
		Step:        string(domain.StepSubmit),
		Image:       cfg.SongImage,
		Env:         songEnv(cfg),
		MountSource: cfg.Directory,
		MountTarget: cfg.MountTarget,
		Args:        []string{"sing", "submit", "-f", path.Join(cfg.MountTarget, cfg.JSONFile)},
	}
}

// Manifest строит invocation шага manifest: генерация манифеста
// для analysis в смонтированной директории.
func Manifest(cfg config.Config, analysisID string) Invocation {
	return Invocation{
		Step:        string(domain.StepManifest),
		Image:       cfg.SongImage,
		Env:         songEnv(cfg),
		MountSource: cfg.Directory,
		MountTarget: cfg.MountTarget,
		Args: []string{
			"sing", "manifest",
			"-a", analysisID,
			"-f", path.Join(cfg.MountTarget, ManifestFile),
			"-d", cfg.MountTarget + "/",
		},
	}
}

// Upload строит invocation шага upload: загрузка payload-файлов
// по манифесту, сгенерированному шагом manifest.
func Upload(cfg config.Config) Invocation {
	return Invocation{
		Step:        string(domain.StepUpload),
		Image:       cfg.ScoreImage,
		Env:         scoreEnv(cfg),
		MountSource: cfg.Directory,
		MountTarget: cfg.MountTarget,
		Args: []string{
			"score-client", "upload",
			"--manifest", path.Join(cfg.MountTarget, ManifestFile),
		},
	}
}

// Publish строит invocation шага publish: публикация analysis.
func Publish(cfg config.Config, analysisID string) Invocation {
	return Invocation{
		Step:        string(domain.StepPublish),
		Image:       cfg.SongImage,
		Env:         songEnv(cfg),
		MountSource: cfg.Directory,
		MountTarget: cfg.MountTarget,
		Args:        []string{"sing", "publish", "-a", analysisID},
	}
}

// Plan возвращает invocations всех четырёх шагов в порядке выполнения.
// Для шагов manifest и publish подставляется placeholder, пока
// настоящий analysis ID не известен (используется в dry-run).
func Plan(cfg config.Config, analysisID string) []Invocation {
	return []Invocation{
		Submit(cfg),
		Manifest(cfg, analysisID),
		Upload(cfg),
		Publish(cfg, analysisID),
	}
}
