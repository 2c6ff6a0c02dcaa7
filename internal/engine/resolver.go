package engine

import (
	"strings"
)

// ResolveValue разрешает одно сырое значение параметра по контексту.
//
// Грамматика применяется только к строковым значениям; значения любых
// других типов возвращаются без изменений:
//
//	"@@rest"    → литерал "@rest" (экранирование ведущего @, без поиска)
//	"@name.key" → context[name][key]
//	"@name"     → полный результат context[name]
//	иное        → литерал как есть
//
// Разрешение не изменяет контекст. Ссылка на задачу, которой ещё нет
// в контексте (вперёд по списку или на саму себя), возвращает
// ReferenceError: контекст содержит только уже завершённые задачи.
func ResolveValue(value any, c *Context) (any, error) {
	s, ok := value.(string)
	if !ok {
		return value, nil
	}

	// Экранированный литерал: @@xxx → @xxx
	if strings.HasPrefix(s, "@@") {
		return s[1:], nil
	}

	// Ссылка: @step или @step.key
	if strings.HasPrefix(s, "@") {
		ref := s[1:]

		if step, key, found := strings.Cut(ref, "."); found {
			return c.GetKey(step, key)
		}

		return c.Get(ref)
	}

	// Литерал
	return s, nil
}

// ResolveParams разрешает все параметры задачи независимо друг от друга.
//
// Разрешение неглубокое: обходится только верхний уровень params.
// Строка "@ref" внутри вложенной map или слайса остаётся литералом.
// Исходная map не изменяется; результат — новая map.
func ResolveParams(params map[string]any, c *Context) (map[string]any, error) {
	resolved := make(map[string]any, len(params))
	for name, value := range params {
		v, err := ResolveValue(value, c)
		if err != nil {
			return nil, err
		}
		resolved[name] = v
	}
	return resolved, nil
}
