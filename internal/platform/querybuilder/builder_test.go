package querybuilder

import "testing"

type episodeRow struct {
	ID            int64  `db:"id"`
	SeasonID      int64  `db:"season_id"`
	EpisodeNumber int    `db:"episode_number"`
	Title         string `db:"title"`
	internal      string
	Ignored       string `db:"-"`
}

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select(ColumnsOf(episodeRow{})...).
		From("episodes").
		Where(Eq("season_id", int64(47)), IsNull("deleted_at")).
		OrderBy("episode_number").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, season_id, episode_number, title FROM episodes WHERE season_id = $1 AND deleted_at IS NULL ORDER BY episode_number LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != int64(47) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_In(t *testing.T) {
	query, args, err := Select("id").
		From("leagues").
		Where(In("id", []int64{3, 4}), Eq("status", "Active")).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM leagues WHERE id IN ($1, $2) AND status = $3"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}

	query, _, _ = Select("id").From("leagues").Where(In("id", []int64{})).ToSQL()
	if query != "SELECT id FROM leagues WHERE 1=0" {
		t.Fatalf("unexpected empty IN query: %s", query)
	}
}

func TestInsertModelUpsert(t *testing.T) {
	builder, err := InsertModel("episodes", episodeRow{ID: 1, SeasonID: 47, EpisodeNumber: 2, Title: "Premiere"})
	if err != nil {
		t.Fatalf("insert model: %v", err)
	}
	query, args, err := builder.
		OnConflict("season_id", "episode_number").
		DoUpdate("title").
		Returning("id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO episodes (id, season_id, episode_number, title) VALUES ($1, $2, $3, $4) " +
		"ON CONFLICT (season_id, episode_number) DO UPDATE SET title = EXCLUDED.title RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[3] != "Premiere" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_DoNothing(t *testing.T) {
	query, _, err := InsertInto("selection_updates").
		Columns("league_id", "member_id").
		Values(int64(1), int64(2)).
		OnConflict("league_id", "member_id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO selection_updates (league_id, member_id) VALUES ($1, $2) ON CONFLICT (league_id, member_id) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}

	if _, _, err := InsertInto("t").Columns("a").Values(1).DoUpdate("a").ToSQL(); err == nil {
		t.Fatalf("expected error for update without conflict columns")
	}
}
