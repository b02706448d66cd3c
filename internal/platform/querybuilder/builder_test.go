package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "title", "status").
		From("matches").
		Where(Eq("tournament_id", int64(7)), IsNull("deleted_at")).
		OrderBy("starts_at DESC").
		Limit(20).
		Offset(40).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, title, status FROM matches WHERE tournament_id = $1 AND deleted_at IS NULL ORDER BY starts_at DESC LIMIT 20 OFFSET 40"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != int64(7) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_RangeAndExpr(t *testing.T) {
	query, args, err := Select("id").
		From("matches").
		Where(
			Gte("starts_at", "2026-01-01"),
			Lte("starts_at", "2026-02-01"),
			Neq("status", "cancelled"),
			Expr("status = ANY(?)", []string{"not_started", "toss"}),
		).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM matches WHERE starts_at >= $1 AND starts_at <= $2 AND status <> $3 AND status = ANY($4)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_In(t *testing.T) {
	query, args, err := Select("id").
		From("contests").
		Where(In("status", []any{"open", "locked"})).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM contests WHERE status IN ($1, $2)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_UpsertSuffix(t *testing.T) {
	query, args, err := InsertInto("scoring_rules").
		Columns("rule", "value").
		Values("wicket", "25").
		Suffix("ON CONFLICT (rule) DO UPDATE SET value = EXCLUDED.value").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO scoring_rules (rule, value) VALUES ($1, $2) ON CONFLICT (rule) DO UPDATE SET value = EXCLUDED.value"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "wicket" || args[1] != "25" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("wallets").
		Set("balance", "150.50").
		SetExpr("updated_at", "NOW()").
		Where(Eq("user_id", int64(42))).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE wallets SET balance = $1, updated_at = NOW() WHERE user_id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "150.50" || args[1] != int64(42) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		ID       int64  `db:"id"`
		Title    string `db:"title"`
		Internal string `db:"-"`
		NoTag    string
	}

	query, args, err := InsertModel("matches", row{ID: 1, Title: "MI vs CSK", Internal: "x", NoTag: "y"}, "RETURNING id")
	if err != nil {
		t.Fatalf("build insert from model: %v", err)
	}

	wantQuery := "INSERT INTO matches (id, title) VALUES ($1, $2) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != int64(1) || args[1] != "MI vs CSK" {
		t.Fatalf("unexpected args: %+v", args)
	}
}
