// Package schedule запускает конвейеры по cron-расписанию.
//
// Расписание задаётся в поле schedule файла конвейера
// (пять полей, без секунд). Trigger держит реестр расписаний
// и вызывает runner при срабатывании.
package schedule
