// Package survey описывает предметную модель General Social Survey:
// набор колонок и переименований, маркеры пропусков, порядковый тип ответа
// по шкале Лайкерта и типизированную запись очищенного набора.
package survey
