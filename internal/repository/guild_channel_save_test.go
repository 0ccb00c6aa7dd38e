package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsascontentcorner/guildstore/internal/models"
)

// ============================================================================
// Statement Recorder
// ============================================================================

// recordingConnector is a database/sql connector that answers every query
// with storedType and records the statements it sees
type recordingConnector struct {
	mu         sync.Mutex
	storedType int64
	statements []string
}

func (c *recordingConnector) Connect(context.Context) (driver.Conn, error) {
	return &recordingConn{c: c}, nil
}

func (c *recordingConnector) Driver() driver.Driver { return recordingDriver{c} }

func (c *recordingConnector) record(statement string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statements = append(c.statements, statement)
}

func (c *recordingConnector) recorded() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.statements...)
}

type recordingDriver struct{ c *recordingConnector }

func (d recordingDriver) Open(string) (driver.Conn, error) { return &recordingConn{c: d.c}, nil }

type recordingConn struct{ c *recordingConnector }

func (c *recordingConn) Prepare(string) (driver.Stmt, error) { return nil, driver.ErrSkip }
func (c *recordingConn) Close() error { return nil }
func (c *recordingConn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

func (c *recordingConn) BeginTx(context.Context, driver.TxOptions) (driver.Tx, error) {
	c.c.record("BEGIN")
	return recordingTx{c.c}, nil
}

func (c *recordingConn) ExecContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Result, error) {
	c.c.record(statementName(query))
	return driver.RowsAffected(1), nil
}

func (c *recordingConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	c.c.record(statementName(query))
	return &typeRows{value: c.c.storedType}, nil
}

type recordingTx struct{ c *recordingConnector }

func (t recordingTx) Commit() error { t.c.record("COMMIT"); return nil }
func (t recordingTx) Rollback() error { t.c.record("ROLLBACK"); return nil }

type typeRows struct {
	value int64
	done  bool
}

func (r *typeRows) Columns() []string { return []string{"type_id"} }
func (r *typeRows) Close() error { return nil }
func (r *typeRows) Next(dest []driver.Value) error {
	if r.done {
		return io.EOF
	}
	r.done = true
	dest[0] = r.value
	return nil
}

// statementName keeps the verb and target table, e.g. "INSERT INTO guilds_channels"
func statementName(query string) string {
	fields := strings.Fields(query)
	if len(fields) > 3 {
		fields = fields[:3]
	}
	return strings.Join(fields, " ")
}

func newRecordingRepository(t *testing.T, storedType models.ChannelType) (*GuildChannelRepository, *recordingConnector) {
	t.Helper()

	connector := &recordingConnector{storedType: int64(storedType)}
	db := sql.OpenDB(connector)
	t.Cleanup(func() { _ = db.Close() })

	return NewGuildChannelRepository(db), connector
}

// ============================================================================
// Save Statement Tests
// ============================================================================

func TestGuildChannelRepository_SaveStatements(t *testing.T) {
	tests := []struct {
		name       string
		storedType models.ChannelType
		channel    *models.GuildChannel
		expected   []string
	}{
		{
			name:       "text with topic",
			storedType: models.ChannelTypeGuildText,
			channel:    models.NewTextChannel(100, 1, "general", 0, "chat"),
			expected: []string{
				"BEGIN",
				"INSERT INTO guilds_channels",
				"INSERT INTO guilds_text_channels",
				"DELETE FROM guilds_voice_channels",
				"COMMIT",
			},
		},
		{
			name:       "voice",
			storedType: models.ChannelTypeGuildVoice,
			channel:    models.NewVoiceChannel(200, 1, "Lounge", 1, 64000, 10),
			expected: []string{
				"BEGIN",
				"INSERT INTO guilds_channels",
				"INSERT INTO guilds_voice_channels",
				"DELETE FROM guilds_text_channels",
				"COMMIT",
			},
		},
		{
			name:       "text turned into news keeps the text row",
			storedType: models.ChannelTypeGuildText,
			channel:    models.NewGuildChannel(100, 1, "announcements", 3, models.ChannelTypeGuildNews),
			expected: []string{
				"BEGIN",
				"INSERT INTO guilds_channels",
				"DELETE FROM guilds_voice_channels",
				"COMMIT",
			},
		},
		{
			name:       "voice saved as text keeps the voice row",
			storedType: models.ChannelTypeGuildVoice,
			channel:    models.NewTextChannel(200, 1, "renamed", 2, "chat"),
			expected: []string{
				"BEGIN",
				"INSERT INTO guilds_channels",
				"DELETE FROM guilds_text_channels",
				"COMMIT",
			},
		},
		{
			name:       "category saved as text drops both rows",
			storedType: models.ChannelTypeGuildCategory,
			channel:    models.NewTextChannel(300, 1, "general", 0, "chat"),
			expected: []string{
				"BEGIN",
				"INSERT INTO guilds_channels",
				"DELETE FROM guilds_text_channels",
				"DELETE FROM guilds_voice_channels",
				"COMMIT",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, connector := newRecordingRepository(t, tt.storedType)

			require.NoError(t, repo.Save(context.Background(), tt.channel, 1))
			assert.Equal(t, tt.expected, connector.recorded())
		})
	}
}
