package web

import "time"

type GameRow struct {
	ChatID      int64
	Phase       string
	Round       int
	Players     int
	Alive       int
	Capacity    int
	CurrentTurn int64
	CreatedAt   time.Time
}

type CardCount struct {
	Category string
	Count    int
}

type DashboardData struct {
	Games       []GameRow
	Cards       []CardCount
	GeneratedAt time.Time
}
