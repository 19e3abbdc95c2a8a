package database

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// recordingDB captures the SQL each query emits without touching a database.
type recordingDB struct {
	statements []string
}

func (r *recordingDB) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	r.statements = append(r.statements, sql)
	return pgconn.CommandTag{}, nil
}

func (r *recordingDB) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	r.statements = append(r.statements, sql)
	return nil, pgx.ErrNoRows
}

func (r *recordingDB) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	r.statements = append(r.statements, sql)
	return noRow{}
}

type noRow struct{}

func (noRow) Scan(_ ...any) error { return pgx.ErrNoRows }

// Postgres rejects alias-qualified column references when the statement never
// declares the alias, so every statement that selects through orderColumns
// must bind "o" via FROM, UPDATE or INSERT INTO ... AS.
var ordersAlias = regexp.MustCompile(`(?i)(?:FROM|UPDATE)\s+orders\s+o\b|INSERT\s+INTO\s+orders\s+AS\s+o\b`)

func TestOrderStatementsDeclareAlias(t *testing.T) {
	db := &recordingDB{}
	q := New(db)
	ctx := context.Background()

	q.CreateOrder(ctx, CreateOrderParams{ClientID: uuid.New()})
	q.GetOrder(ctx, uuid.New())
	q.UpdateOrderPayment(ctx, UpdateOrderPaymentParams{ID: uuid.New()})
	q.ListOrders(ctx)

	if len(db.statements) != 4 {
		t.Fatalf("recorded %d statements, want 4", len(db.statements))
	}
	for _, sql := range db.statements {
		if strings.Contains(sql, "o.") && !ordersAlias.MatchString(sql) {
			t.Errorf("statement references alias o without declaring it:\n%s", sql)
		}
	}
}

func TestCreateOrderInsertDeclaresAlias(t *testing.T) {
	db := &recordingDB{}
	q := New(db)

	q.CreateOrder(context.Background(), CreateOrderParams{ClientID: uuid.New()})

	sql := db.statements[0]
	if !strings.Contains(sql, "INSERT INTO orders AS o") {
		t.Fatalf("INSERT does not declare the alias used by RETURNING:\n%s", sql)
	}
	if !strings.Contains(sql, "RETURNING") {
		t.Fatalf("INSERT does not return the stored row:\n%s", sql)
	}
}
