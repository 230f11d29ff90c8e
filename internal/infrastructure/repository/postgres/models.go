package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type leagueTableModel struct {
	ID        int64      `db:"id"`
	Hash      string     `db:"hash"`
	Name      string     `db:"name"`
	SeasonID  int64      `db:"season_id"`
	Status    string     `db:"status"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type leagueMemberTableModel struct {
	ID          int64      `db:"id"`
	LeagueID    int64      `db:"league_id"`
	DisplayName string     `db:"display_name"`
	Color       string     `db:"color"`
	Role        string     `db:"role"`
	DraftOrder  int        `db:"draft_order"`
	CreatedAt   time.Time  `db:"created_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type episodeTableModel struct {
	ID             int64      `db:"id"`
	SeasonID       int64      `db:"season_id"`
	EpisodeNumber  int        `db:"episode_number"`
	Title          string     `db:"title"`
	AirDate        time.Time  `db:"air_date"`
	RuntimeMinutes int        `db:"runtime_minutes"`
	IsMerge        bool       `db:"is_merge"`
	IsFinale       bool       `db:"is_finale"`
	DeletedAt      *time.Time `db:"deleted_at"`
}

type castawayTableModel struct {
	ID         int64          `db:"id"`
	SeasonID   int64          `db:"season_id"`
	FullName   string         `db:"full_name"`
	ShortName  string         `db:"short_name"`
	Age        sql.NullInt64  `db:"age"`
	Residence  sql.NullString `db:"residence"`
	Occupation sql.NullString `db:"occupation"`
	ImageURL   sql.NullString `db:"image_url"`
	DeletedAt  *time.Time     `db:"deleted_at"`
}

type tribeTableModel struct {
	ID        int64      `db:"id"`
	SeasonID  int64      `db:"season_id"`
	Name      string     `db:"name"`
	Color     string     `db:"color"`
	DeletedAt *time.Time `db:"deleted_at"`
}

// broadcastEventTableModel stores base events with a NULL league and custom
// events under their league. References are a jsonb array.
type broadcastEventTableModel struct {
	ID            int64          `db:"id"`
	SeasonID      int64          `db:"season_id"`
	LeagueID      sql.NullInt64  `db:"league_id"`
	EpisodeNumber int            `db:"episode_number"`
	EventName     string         `db:"event_name"`
	Label         sql.NullString `db:"label"`
	Notes         pq.StringArray `db:"notes"`
	References    []byte         `db:"refs"`
	Sequence      int64          `db:"sequence"`
	DeletedAt     *time.Time     `db:"deleted_at"`
}

type selectionUpdateTableModel struct {
	ID            int64     `db:"id"`
	LeagueID      int64     `db:"league_id"`
	MemberID      int64     `db:"member_id"`
	CastawayID    int64     `db:"castaway_id"`
	EpisodeNumber int       `db:"episode_number"`
	Draft         bool      `db:"draft"`
	CreatedAt     time.Time `db:"created_at"`
}

type selectionUpdateInsertModel struct {
	LeagueID      int64 `db:"league_id"`
	MemberID      int64 `db:"member_id"`
	CastawayID    int64 `db:"castaway_id"`
	EpisodeNumber int   `db:"episode_number"`
	Draft         bool  `db:"draft"`
}

type secondaryPickTableModel struct {
	LeagueID      int64 `db:"league_id"`
	MemberID      int64 `db:"member_id"`
	CastawayID    int64 `db:"castaway_id"`
	EpisodeNumber int   `db:"episode_number"`
}

type predictionTableModel struct {
	ID            int64         `db:"id"`
	LeagueID      int64         `db:"league_id"`
	MemberID      int64         `db:"member_id"`
	EpisodeNumber int           `db:"episode_number"`
	EventName     string        `db:"event_name"`
	Custom        bool          `db:"custom"`
	ReferenceType string        `db:"reference_type"`
	ReferenceID   int64         `db:"reference_id"`
	Bet           sql.NullInt64 `db:"bet"`
}

type predictionInsertModel struct {
	LeagueID      int64  `db:"league_id"`
	MemberID      int64  `db:"member_id"`
	EpisodeNumber int    `db:"episode_number"`
	EventName     string `db:"event_name"`
	Custom        bool   `db:"custom"`
	ReferenceType string `db:"reference_type"`
	ReferenceID   int64  `db:"reference_id"`
	Bet           *int64 `db:"bet"`
}

type leagueRulesTableModel struct {
	LeagueID  int64     `db:"league_id"`
	Rules     []byte    `db:"rules"`
	UpdatedAt time.Time `db:"updated_at"`
}

type leagueRulesInsertModel struct {
	LeagueID int64  `db:"league_id"`
	Rules    string `db:"rules"`
}
