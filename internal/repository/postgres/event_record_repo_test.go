package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"eventcatalog/internal/domain"
)

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS event_records`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, EnsureSchema(context.Background(), db))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRecordRepository_Load(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		mock        func(mock sqlmock.Sqlmock)
		wantTitles  []string
		wantSkipped int
		wantErr     bool
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT position, record, attendees`).
					WillReturnRows(sqlmock.NewRows([]string{"position", "record", "attendees"}).
						AddRow(1, "0|i/530|a-*$&|d|RPRTMPQMPQ|z00.|1", "b0#,#0#`9N*0,UUU,a$.&").
						AddRow(2, "2|s&$0/%|h045|d|m0/|m&&5|4", ""))
			},
			wantTitles: []string{"Intro", "Second"},
		},
		{
			name: "malformed row is skipped",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT position, record, attendees`).
					WillReturnRows(sqlmock.NewRows([]string{"position", "record", "attendees"}).
						AddRow(1, "1|r645|h045|d|m0/|m&&5|lots", "").
						AddRow(2, "1|t)*3%|h045|d|m0/|m&&5|2", ""))
			},
			wantTitles:  []string{"Third"},
			wantSkipped: 1,
		},
		{
			name: "empty table",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT position, record, attendees`).
					WillReturnRows(sqlmock.NewRows([]string{"position", "record", "attendees"}))
			},
			wantTitles: []string{},
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT position, record, attendees`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			got, skipped, err := repo.Load(ctx)
			if tt.wantErr {
				require.Error(t, err)
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			titles := make([]string, 0, len(got))
			for _, e := range got {
				titles = append(titles, e.Title)
			}
			require.Equal(t, tt.wantTitles, titles)
			require.Len(t, skipped, tt.wantSkipped)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRecordRepository_Save(t *testing.T) {
	ctx := context.Background()
	intro := domain.NewEvent(domain.Webinar, "Intro", "Alice", "D", "2024-01-01", "Zoom", 1)
	intro.AddAttendee(domain.NewAttendee("Bob", "bob@x.io", "555", "Acme"))
	second := domain.NewEvent(domain.Workshop, "Second", "Host", "D", "Mon", "Meet", 4)

	tests := []struct {
		name    string
		events  []*domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
	}{
		{
			name:   "success",
			events: []*domain.Event{intro, second},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`DELETE FROM event_records`).
					WillReturnResult(sqlmock.NewResult(0, 3))
				mock.ExpectExec(`INSERT INTO event_records \(position, record, attendees\)`).
					WithArgs(1, "0|i/530|a-*$&|d|RPRTMPQMPQ|z00.|1", "b0#,#0#`9N*0,UUU,a$.&").
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectExec(`INSERT INTO event_records \(position, record, attendees\)`).
					WithArgs(2, "2|s&$0/%|h045|d|m0/|m&&5|4", "").
					WillReturnResult(sqlmock.NewResult(2, 1))
				mock.ExpectCommit()
			},
		},
		{
			name:   "empty catalog clears table",
			events: nil,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`DELETE FROM event_records`).
					WillReturnResult(sqlmock.NewResult(0, 2))
				mock.ExpectCommit()
			},
		},
		{
			name:   "insert error rolls back",
			events: []*domain.Event{intro},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`DELETE FROM event_records`).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec(`INSERT INTO event_records`).
					WillReturnError(sql.ErrConnDone)
				mock.ExpectRollback()
			},
			wantErr: true,
		},
		{
			name:   "begin error",
			events: []*domain.Event{intro},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Save(ctx, tt.events)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
