package infrastructure

import (
	"database/sql"
	"strings"
	"sync"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const sqliteDriverName = "sqlite3_role_catalog"

var registerSQLiteDriver sync.Once

// sqliteDialector opens SQLite through a driver whose lower() folds Unicode
// the way strings.ToLower does. The built-in only folds ASCII, which would
// make title search on SQLite disagree with MySQL and the memory store.
func sqliteDialector(dsn string) gorm.Dialector {
	registerSQLiteDriver.Do(func() {
		sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc("lower", strings.ToLower, true)
			},
		})
	})
	return sqlite.New(sqlite.Config{DriverName: sqliteDriverName, DSN: dsn})
}
