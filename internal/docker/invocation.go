package docker

import (
	"strings"
)

// EnvVar — одна переменная окружения контейнера.
// Порядок переменных в argv фиксирован, поэтому slice, а не map.
type EnvVar struct {
	Key   string
	Value string
}

// Invocation — одна команда container runtime.
//
// Эфемерна: строится для шага, выполняется один раз и выбрасывается.
type Invocation struct {
	// Step — имя шага, для логов и сводки.
	Step string

	// Image — образ клиента.
	Image string

	// Env — переменные окружения, пробрасываемые в контейнер.
	Env []EnvVar

	// MountSource — директория хоста, монтируемая в контейнер.
	MountSource string

	// MountTarget — точка монтирования внутри контейнера.
	MountTarget string

	// Args — команда клиента и её аргументы (после образа).
	Args []string
}

// Секретные переменные окружения: их значения не печатаются.
var secretEnvKeys = map[string]bool{
	"CLIENT_ACCESS_TOKEN": true,
	"ACCESSTOKEN":         true,
}

// Argv возвращает полный argv команды container runtime.
//
// Клиенты ходят в сервисы по URL хоста, поэтому --network=host.
func (inv Invocation) Argv() []string {
	argv := []string{"run"}

	for _, e := range inv.Env {
		argv = append(argv, "-e", e.Key+"="+e.Value)
	}

	argv = append(argv,
		"--network=host",
		"--mount", "type=bind,source="+inv.MountSource+",target="+inv.MountTarget,
		inv.Image,
	)

	return append(argv, inv.Args...)
}

// String возвращает команду для печати, с заретушированными секретами.
func (inv Invocation) String() string {
	argv := []string{"run"}

	for _, e := range inv.Env {
		v := e.Value
		if secretEnvKeys[e.Key] {
			v = "****"
		}
		argv = append(argv, "-e", e.Key+"="+v)
	}

	argv = append(argv,
		"--network=host",
		"--mount", "type=bind,source="+inv.MountSource+",target="+inv.MountTarget,
		inv.Image,
	)
	argv = append(argv, inv.Args...)

	return "docker " + strings.Join(argv, " ")
}
