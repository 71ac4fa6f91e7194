package kafka_test

import (
	"context"
	"testing"

	"github.com/irisida/leave-management/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func validEvent() kafka.OutboxEvent {
	return kafka.OutboxEvent{
		ID:            uuid.New().String(),
		AggregateType: "leave_request",
		AggregateID:   uuid.New().String(),
		EventType:     "leave_request.submitted",
		Topic:         "leave.request.lifecycle.v1",
		Payload:       []byte(`{"days_requested":4}`),
		Status:        kafka.OutboxStatusPending,
	}
}

func TestValidateOutboxEvent(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, kafka.ValidateOutboxEvent(validEvent()))
	})

	t.Run("negative missing id", func(t *testing.T) {
		e := validEvent()
		e.ID = ""
		assert.Error(t, kafka.ValidateOutboxEvent(e))
	})

	t.Run("negative missing topic", func(t *testing.T) {
		e := validEvent()
		e.Topic = ""
		assert.Error(t, kafka.ValidateOutboxEvent(e))
	})

	t.Run("negative empty payload", func(t *testing.T) {
		e := validEvent()
		e.Payload = nil
		assert.Error(t, kafka.ValidateOutboxEvent(e))
	})

	t.Run("negative unknown status", func(t *testing.T) {
		e := validEvent()
		e.Status = "queued"
		assert.Error(t, kafka.ValidateOutboxEvent(e))
	})
}

func TestOutboxRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts through the transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO outbox_events").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		tx, err := db.BeginTx(ctx, nil)
		assert.NoError(t, err)

		repo := kafka.NewOutboxRepository(db).WithTx(tx)
		assert.NoError(t, repo.Create(ctx, validEvent()))
		assert.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative invalid event never reaches the database", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		e := validEvent()
		e.Topic = ""

		repo := kafka.NewOutboxRepository(db)
		assert.Error(t, repo.Create(ctx, e))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_MarkSent(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	assert.NoError(t, err)
	defer db.Close()

	id := uuid.New().String()
	mock.ExpectExec("UPDATE outbox_events").
		WithArgs(id, kafka.OutboxStatusSent).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := kafka.NewOutboxRepository(db)
	assert.NoError(t, repo.MarkSent(ctx, id))
	assert.NoError(t, mock.ExpectationsWereMet())
}
