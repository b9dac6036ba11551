package db_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	dbadapter "taskbot/internal/adapter/db"
)

type SQLiteRepositorySuite struct {
	RepositorySuite
}

func TestSQLiteRepositorySuite(t *testing.T) {
	suite.Run(t, new(SQLiteRepositorySuite))
}

func (s *SQLiteRepositorySuite) SetupSuite() {
	db, err := dbadapter.Open("sqlite3", ":memory:")
	s.Require().NoError(err)
	s.DB = db
}

func (s *SQLiteRepositorySuite) TearDownSuite() {
	if s.DB != nil {
		s.Require().NoError(s.DB.Close())
	}
}
