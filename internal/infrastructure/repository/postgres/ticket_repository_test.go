package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/pixilib/pixi/internal/core/domain"
)

func newTicketRepoWithMock(t *testing.T) (*TicketRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &TicketRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestTicketCreateInsertsRow(t *testing.T) {
	repo, mock, done := newTicketRepoWithMock(t)
	defer done()

	ticket := &domain.Ticket{
		ID:          "ticket-1",
		Title:       "Dark mode",
		Description: "Please add a dark theme.",
		Votes:       0,
		CreatedAt:   time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO tickets").
		WithArgs(ticket.ID, ticket.Title, ticket.Description, ticket.Votes, ticket.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), ticket); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestTicketListOrdersByVotes(t *testing.T) {
	repo, mock, done := newTicketRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "title", "description", "votes", "created_at"}).
		AddRow("ticket-2", "Search filters", "Filter by genre.", 5, now).
		AddRow("ticket-1", "Dark mode", "Please add a dark theme.", 1, now)

	mock.ExpectQuery("ORDER BY votes DESC").WillReturnRows(rows)

	tickets, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tickets) != 2 || tickets[0].ID != "ticket-2" {
		t.Fatalf("unexpected tickets: %+v", tickets)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestTicketUpvoteReturnsNewCount(t *testing.T) {
	repo, mock, done := newTicketRepoWithMock(t)
	defer done()

	mock.ExpectQuery("UPDATE tickets").
		WithArgs("ticket-1").
		WillReturnRows(sqlmock.NewRows([]string{"votes"}).AddRow(6))

	votes, err := repo.Upvote(context.Background(), "ticket-1")
	if err != nil {
		t.Fatalf("Upvote() error = %v", err)
	}
	if votes != 6 {
		t.Fatalf("votes = %d, want 6", votes)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestTicketUpvoteUnknownIDReturnsNotFound(t *testing.T) {
	repo, mock, done := newTicketRepoWithMock(t)
	defer done()

	mock.ExpectQuery("UPDATE tickets").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Upvote(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
