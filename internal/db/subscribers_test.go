package db_test

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"ooc-bot/internal/db"
	"ooc-bot/internal/test"
)

func TestAddSubscriberReactivates(t *testing.T) {
	_, mock := test.NewMockDB(t)
	mock.ExpectExec("INSERT INTO subscribers").
		WithArgs("12345").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := db.AddSubscriber("12345")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeactivateSubscriber(t *testing.T) {
	_, mock := test.NewMockDB(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE subscribers SET active = FALSE WHERE chat_id = $1")).
		WithArgs("12345").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := db.DeactivateSubscriber("12345")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActiveSubscribersInRegistrationOrder(t *testing.T) {
	_, mock := test.NewMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT chat_id FROM subscribers WHERE active ORDER BY added_at")).
		WillReturnRows(sqlmock.NewRows([]string{"chat_id"}).AddRow("100").AddRow("200"))

	chatIDs, err := db.ActiveSubscribers()
	require.NoError(t, err)
	assert.Equal(t, []string{"100", "200"}, chatIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}
