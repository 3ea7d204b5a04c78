// Package cli реализует инструмент командной строки Songbird.
//
// # Обзор
//
// Songbird — утилита одного workflow: отправка генетических
// метаданных и payload-файлов на пару сервисов song/score через
// их контейнеризованные клиенты.
//
// # Команды
//
//   - submit — запуск полного четырёхшагового workflow
//   - plan   — печать команд четырёх шагов без запуска (dry-run)
//
// # Конфигурация
//
// Приоритет источников: флаги > env (SONGBIRD_*) > YAML-профиль
// (--config) > объявленные demo-дефолты. .env из текущей директории
// подгружается автоматически, если существует.
//
// # Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json encoder) — с флагом --json-output
//
// Данные и диагностика упавшего шага выводятся в stdout,
// сообщения (Success/Error) — в stderr. Это позволяет использовать
// pipe: songbird submit --json-output ... | jq .
package cli
