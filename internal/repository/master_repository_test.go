package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgate/campus-erp-api/internal/models"
)

func newRepositoryMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func mustEntity(t *testing.T, tag string) models.Entity {
	entity, ok := models.LookupEntity(tag)
	require.True(t, ok)
	return entity
}

func TestMasterRepositoryListDecodesByteColumns(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewMasterRepository(db)

	rows := sqlmock.NewRows([]string{"caste_id", "name", "is_active"}).
		AddRow(int64(1), []byte("General"), true).
		AddRow(int64(2), []byte("OBC"), false)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM caste_master WHERE is_deleted = FALSE ORDER BY caste_id")).
		WillReturnRows(rows)

	records, err := repo.List(context.Background(), mustEntity(t, "caste"))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "General", records[0]["name"])
	assert.Equal(t, int64(2), records[1]["caste_id"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMasterRepositoryGet(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewMasterRepository(db)

	rows := sqlmock.NewRows([]string{"caste_id", "name", "is_active"}).
		AddRow(int64(7), []byte("General"), true)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM caste_master WHERE caste_id = $1 AND is_deleted = FALSE LIMIT 1")).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	record, err := repo.Get(context.Background(), mustEntity(t, "caste"), 7)
	require.NoError(t, err)
	assert.Equal(t, "General", record["name"])

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM caste_master")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"caste_id", "name", "is_active"}))

	_, err = repo.Get(context.Background(), mustEntity(t, "caste"), 99)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMasterRepositoryInsertStampsActor(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewMasterRepository(db)

	mock.ExpectQuery("INSERT INTO caste_master").
		WithArgs("admin", "admin", sqlmock.AnyArg(), sqlmock.AnyArg(), "General").
		WillReturnRows(sqlmock.NewRows([]string{"caste_id"}).AddRow(int64(5)))

	id, err := repo.Insert(context.Background(), mustEntity(t, "caste"), map[string]interface{}{"name": "General"}, "admin")
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMasterRepositoryUpdateReportsMissingRow(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewMasterRepository(db)

	mock.ExpectExec("UPDATE caste_master SET").
		WithArgs("admin", sqlmock.AnyArg(), "OBC", int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), mustEntity(t, "caste"), 404, map[string]interface{}{"name": "OBC"}, "admin")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMasterRepositorySoftDeleteFlagsRow(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewMasterRepository(db)

	mock.ExpectExec("UPDATE caste_master SET is_deleted = TRUE, is_active = FALSE").
		WithArgs("admin", sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SoftDelete(context.Background(), mustEntity(t, "caste"), 7, "admin")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMasterRepositoryListOptionsScopesToParent(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewMasterRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name"}).
		AddRow(int64(10), "Engineering College").
		AddRow(int64(11), "Science College")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT institute_id AS id, name AS name FROM institutes WHERE is_deleted = FALSE AND is_active = TRUE AND university_id = $1 ORDER BY name")).
		WithArgs(int64(1)).
		WillReturnRows(rows)

	parent := int64(1)
	options, err := repo.ListOptions(context.Background(), mustEntity(t, "institute"), "university_id", &parent)
	require.NoError(t, err)
	require.Len(t, options, 2)
	assert.Equal(t, "Engineering College", options[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
