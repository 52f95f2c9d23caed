package survey

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ruslano69/gssdash/pkg/core/table"
)

// AgeTopCode — значение верхней возрастной группы в исходных данных
const AgeTopCode = "89 or older"

// AgeTopValue — нижняя граница верхней группы, которой заменяется AgeTopCode
const AgeTopValue = "89"

// NormalizeAge переводит значение возраста в число.
// "89 or older" → 89. Любое другое значение должно разбираться как число.
// Повторное применение к уже нормализованному значению дает то же число.
func NormalizeAge(v string) (float64, error) {
	v = strings.TrimSpace(v)
	if v == AgeTopCode {
		v = AgeTopValue
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: age %q is not numeric", table.ErrValueConversion, v)
	}
	return f, nil
}
