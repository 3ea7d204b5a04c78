// Package docker строит и выполняет команды container runtime
// для клиентов song и score.
//
// # Обзор
//
// Workflow не ходит в сеть и не трогает файлы сам: всю работу делают
// контейнеризованные клиенты. Этот пакет отвечает за две вещи:
//   - Invocation — построение argv команды docker run для шага
//     (env-контракт клиента, bind mount рабочей директории, --network=host)
//   - Runner — блокирующее выполнение с захватом stdout/stderr
//     и кода завершения
//
// # Контракт окружения
//
// Шаги регистратора (submit, manifest, publish):
//
//	CLIENT_ACCESS_TOKEN, CLIENT_STUDY_ID, CLIENT_SERVER_URL
//
// Шаг хранилища (upload):
//
//	ACCESSTOKEN, STORAGE_URL, METADATA_URL
//
// Рабочая директория монтируется в контейнер (по умолчанию в /output);
// все пути в аргументах клиентов строятся от точки монтирования.
//
// # Обработка ошибок
//
// Ненулевой код завершения — не ошибка Runner: он возвращается в
// ExecutionResult, решение об остановке workflow принимает orchestrator.
// ErrRunFailed и ErrRunTimeout возвращаются только когда процесс
// не запустился или был убит по дедлайну шага.
package docker
