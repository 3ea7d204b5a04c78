package workflow

import (
	"regexp"

	"github.com/google/uuid"
)

// uuidPattern — UUID-подобная подстрока: группы 8-4-4-4-12
// из строчных букв и цифр. Тот же шаблон, которым регистратор
// печатает analysis ID среди прочего вывода.
var uuidPattern = regexp.MustCompile(`[a-z0-9]{8}-[a-z0-9]{4}-[a-z0-9]{4}-[a-z0-9]{4}-[a-z0-9]{12}`)

// ExtractAnalysisID извлекает analysis ID из вывода шага submit.
//
// Побеждает первая подстрока, которая парсится как UUID: кандидат,
// совпавший с шаблоном, но не являющийся валидным UUID (например,
// с буквами вне hex-диапазона), пропускается в пользу следующего.
// Если валидных кандидатов нет — ErrNoAnalysisID.
func ExtractAnalysisID(output string) (uuid.UUID, error) {
	for _, candidate := range uuidPattern.FindAllString(output, -1) {
		id, err := uuid.Parse(candidate)
		if err != nil {
			continue
		}
		return id, nil
	}
	return uuid.Nil, ErrNoAnalysisID
}
