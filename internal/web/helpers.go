package web

import (
	"strconv"
	"time"
)

func itoa(value int) string {
	return strconv.Itoa(value)
}

func formatChat(id int64) string {
	return strconv.FormatInt(id, 10)
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.UTC().Format("2006-01-02 15:04:05")
}

func orDash(value int) string {
	if value <= 0 {
		return "-"
	}
	return itoa(value)
}
