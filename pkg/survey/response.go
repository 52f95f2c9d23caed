package survey

import (
	"fmt"

	"github.com/ruslano69/gssdash/pkg/core/table"
)

// Response — ответ по 4-уровневой шкале согласия.
// Строгий порядок: strongly agree < agree < disagree < strongly disagree.
// Нулевое значение ResponseAbsent означает отсутствующий ответ.
type Response int

const (
	ResponseAbsent Response = iota
	StronglyAgree
	Agree
	Disagree
	StronglyDisagree
)

var responseLabels = [...]string{
	ResponseAbsent:   "",
	StronglyAgree:    "strongly agree",
	Agree:            "agree",
	Disagree:         "disagree",
	StronglyDisagree: "strongly disagree",
}

// Responses возвращает все уровни в порядке шкалы
func Responses() []Response {
	return []Response{StronglyAgree, Agree, Disagree, StronglyDisagree}
}

// ResponseLevels возвращает подписи уровней в порядке шкалы
func ResponseLevels() []string {
	levels := make([]string, 0, 4)
	for _, r := range Responses() {
		levels = append(levels, r.String())
	}
	return levels
}

// ParseResponse разбирает подпись уровня.
// Значение вне четырех уровней — ErrSchemaMismatch.
func ParseResponse(s string) (Response, error) {
	for _, r := range Responses() {
		if responseLabels[r] == s {
			return r, nil
		}
	}
	return ResponseAbsent, fmt.Errorf("%w: unknown response level %q", table.ErrSchemaMismatch, s)
}

func (r Response) String() string {
	if r < ResponseAbsent || int(r) >= len(responseLabels) {
		return fmt.Sprintf("Response(%d)", int(r))
	}
	return responseLabels[r]
}

// Valid сообщает, является ли ответ одним из четырех уровней
func (r Response) Valid() bool {
	return r >= StronglyAgree && r <= StronglyDisagree
}

// Compare возвращает -1, 0 или +1. Отсутствующий ответ меньше любого уровня.
func (r Response) Compare(o Response) int {
	switch {
	case r < o:
		return -1
	case r > o:
		return 1
	default:
		return 0
	}
}

// Less — порядок шкалы
func (r Response) Less(o Response) bool {
	return r.Compare(o) < 0
}
