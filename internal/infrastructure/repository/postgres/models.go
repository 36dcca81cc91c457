package postgres

import (
	"database/sql"
	"time"
)

type teamTableModel struct {
	ID            int64      `db:"id"`
	PublicID      string     `db:"public_id"`
	NameEN        string     `db:"name_en"`
	NameZH        string     `db:"name_zh"`
	Short         string     `db:"short"`
	CaptainUserID string     `db:"captain_user_id"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at"`
}

type playerTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	TeamID    string     `db:"team_public_id"`
	NameEN    string     `db:"name_en"`
	NameZH    string     `db:"name_zh"`
	Position  string     `db:"position"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type gameTableModel struct {
	PublicID    string         `db:"public_id"`
	ScheduledAt time.Time      `db:"scheduled_at"`
	HomeTeamID  string         `db:"home_team_public_id"`
	AwayTeamID  string         `db:"away_team_public_id"`
	Venue       string         `db:"venue"`
	Status      string         `db:"status"`
	CreatedBy   sql.NullString `db:"created_by"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

type matchResultTableModel struct {
	PublicID       string    `db:"public_id"`
	GameID         string    `db:"game_public_id"`
	HomeTeamID     string    `db:"home_team_public_id"`
	AwayTeamID     string    `db:"away_team_public_id"`
	Lines          []byte    `db:"lines"`
	HomeTotalScore int       `db:"home_total_score"`
	AwayTotalScore int       `db:"away_total_score"`
	SubmittedBy    string    `db:"submitted_by"`
	SubmittedAt    time.Time `db:"submitted_at"`
	UpdatedAt      time.Time `db:"updated_at"`
	Status         string    `db:"status"`
}

type postTableModel struct {
	ID          int64      `db:"id"`
	PublicID    string     `db:"public_id"`
	TitleEN     string     `db:"title_en"`
	TitleZH     string     `db:"title_zh"`
	BodyEN      string     `db:"body_en"`
	BodyZH      string     `db:"body_zh"`
	AuthorID    string     `db:"author_user_id"`
	PublishedAt time.Time  `db:"published_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type outboxTableModel struct {
	PublicID        string         `db:"public_id"`
	Kind            string         `db:"kind"`
	EntityID        string         `db:"entity_id"`
	Deleted         bool           `db:"deleted"`
	Payload         []byte         `db:"payload"`
	EntityUpdatedAt time.Time      `db:"entity_updated_at"`
	Attempts        int            `db:"attempts"`
	LastError       sql.NullString `db:"last_error"`
	CreatedAt       time.Time      `db:"created_at"`
	DoneAt          *time.Time     `db:"done_at"`
}
