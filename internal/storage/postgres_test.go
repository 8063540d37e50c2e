package storage

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"math"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const testSchema = `
CREATE TABLE general_messages (
    id      INTEGER PRIMARY KEY,
    name    TEXT NOT NULL DEFAULT '',
    number  TEXT NOT NULL DEFAULT '',
    message TEXT NOT NULL DEFAULT ''
)`

func openTestStorage(t *testing.T, rows int) *MessageStorage {
	t.Helper()

	path := filepath.Join(t.TempDir(), "messages.db")
	sqlDB, err := sql.Open("sqlite", path)
	require.NoError(t, err)

	db := sqlx.NewDb(sqlDB, "sqlite")
	t.Cleanup(func() {
		_ = db.Close()
	})

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	for i := 1; i <= rows; i++ {
		_, err := db.Exec(
			`INSERT INTO general_messages (id, name, number, message) VALUES ($1, $2, $3, $4)`,
			i, fmt.Sprintf("client %d", i), fmt.Sprintf("+99890000%04d", i), fmt.Sprintf("hello %d", i),
		)
		require.NoError(t, err)
	}

	return NewMessageStorage(db, zap.NewNop())
}

func ids(messages []Message) []int64 {
	out := make([]int64, 0, len(messages))
	for _, m := range messages {
		out = append(out, m.ID)
	}
	return out
}

func TestListPageOrdersByIDDescending(t *testing.T) {
	s := openTestStorage(t, 12)
	ctx := context.Background()

	page, err := s.ListPage(ctx, 0, 5)
	require.NoError(t, err)
	require.Equal(t, []int64{12, 11, 10, 9, 8}, ids(page))
	require.Equal(t, "client 12", page[0].Name)
	require.Equal(t, "+998900000012", page[0].Number)
	require.Equal(t, "hello 12", page[0].Message)

	page, err = s.ListPage(ctx, 10, 5)
	require.NoError(t, err)
	require.Equal(t, []int64{2, 1}, ids(page))

	page, err = s.ListPage(ctx, 15, 5)
	require.NoError(t, err)
	require.Empty(t, page)
}

func TestCount(t *testing.T) {
	s := openTestStorage(t, 7)

	total, err := s.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, 7, total)
}

func TestDeleteReportsRemovedRow(t *testing.T) {
	s := openTestStorage(t, 3)
	ctx := context.Background()

	deleted, err := s.Delete(ctx, 2)
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = s.Delete(ctx, 2)
	require.NoError(t, err)
	require.False(t, deleted)

	total, err := s.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, total)
}

func TestDeleteMissingIDLeavesTableUntouched(t *testing.T) {
	s := openTestStorage(t, 5)
	ctx := context.Background()

	deleted, err := s.Delete(ctx, 7)
	require.NoError(t, err)
	require.False(t, deleted)

	total, err := s.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, total)
}

func TestDeleteIDBeyondColumnRange(t *testing.T) {
	s := openTestStorage(t, 5)
	ctx := context.Background()

	deleted, err := s.Delete(ctx, 3000000000)
	require.NoError(t, err)
	require.False(t, deleted)

	deleted, err = s.Delete(ctx, math.MaxInt64)
	require.NoError(t, err)
	require.False(t, deleted)

	total, err := s.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, total)
}

func TestQueriesFailOnClosedDatabase(t *testing.T) {
	s := openTestStorage(t, 1)
	require.NoError(t, s.Close())
	ctx := context.Background()

	_, err := s.ListPage(ctx, 0, 5)
	require.ErrorContains(t, err, "storage.ListPage")

	_, err = s.Count(ctx)
	require.ErrorContains(t, err, "storage.Count")

	_, err = s.Delete(ctx, 1)
	require.ErrorContains(t, err, "storage.Delete")
}

func TestExportMessages(t *testing.T) {
	s := openTestStorage(t, 3)

	data, err := s.ExportMessages(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, exportHeaders, rows[0])
	require.Equal(t, []string{"3", "client 3", "+998900000003", "hello 3"}, rows[1])
	require.Equal(t, "1", rows[3][0])
	require.Equal(t, []string{exportSheet}, f.GetSheetList())
}

func TestBuildWorkbookEmpty(t *testing.T) {
	data, err := BuildWorkbook(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
