// Package workflow реализует четырёхшаговый submission workflow.
//
// # Обзор
//
// Orchestrator — единственный компонент системы. Он:
//   - Строит invocations четырёх шагов в строгом порядке:
//     submit → manifest → upload → publish
//   - Выполняет каждый как дочерний процесс через docker.Runner
//   - Проверяет код завершения и захваченные потоки
//   - Извлекает analysis ID из вывода submit и пробрасывает его
//     в manifest и publish
//   - На первом неуспехе останавливает весь workflow
//
// # Машина состояний
//
//	PENDING → SUBMITTED → MANIFESTED → UPLOADED → PUBLISHED → DONE
//	        ↘ FAILED (из любого шага; обратных переходов нет)
//
// Каждый шаг выполняется ровно один раз, без retry. Частичное
// состояние на удалённых сервисах (принятый submit, сгенерированный
// манифест) при падении не откатывается.
//
// # Извлечение analysis ID
//
// Регистратор печатает присвоенный UUID среди прочего вывода submit.
// ExtractAnalysisID находит первую валидную UUID-подстроку; её
// отсутствие при нулевом коде завершения — отдельная ошибка
// ErrNoAnalysisID, а не необработанный сбой.
//
// # Конкурентность
//
// Её нет: выполнение строго последовательное, каждый запуск
// блокирующий. Опциональный дедлайн на шаг задаётся через
// config.Config.StepTimeout (0 — без дедлайна).
package workflow
