package db

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/logger"
)

func openWithQueryLogger(t *testing.T, buf *bytes.Buffer, slow time.Duration) *gorm.DB {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: buf, Format: "json"})
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: newQueryLogger(logg, slow)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return conn
}

func TestQueryLoggerReportsFailuresAndSlowQueries(t *testing.T) {
	buf := &bytes.Buffer{}
	conn := openWithQueryLogger(t, buf, time.Nanosecond)

	if err := conn.Exec("SELECT 1").Error; err != nil {
		t.Fatalf("select: %v", err)
	}
	if !strings.Contains(buf.String(), "db.slow_query") {
		t.Fatalf("expected slow query log, got %s", buf.String())
	}

	buf.Reset()
	if err := conn.Exec("SELECT * FROM missing_table").Error; err == nil {
		t.Fatal("expected query error")
	}
	out := buf.String()
	if !strings.Contains(out, "db.query_failed") || !strings.Contains(out, "missing_table") {
		t.Fatalf("expected failed query log, got %s", out)
	}
}

func TestQueryLoggerSilentMode(t *testing.T) {
	buf := &bytes.Buffer{}
	conn := openWithQueryLogger(t, buf, time.Nanosecond)
	conn = conn.Session(&gorm.Session{Logger: conn.Logger.LogMode(gormlogger.Silent)})

	_ = conn.Exec("SELECT * FROM missing_table").Error
	if buf.Len() != 0 {
		t.Fatalf("expected no output in silent mode, got %s", buf.String())
	}
}
