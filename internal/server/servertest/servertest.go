// Package servertest runs the full HTTP stack on an in-memory SQLite store
// for client-side tests.
package servertest

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Eursukkul/club-cms/internal/auth"
	"github.com/Eursukkul/club-cms/internal/models"
	"github.com/Eursukkul/club-cms/internal/repository"
	"github.com/Eursukkul/club-cms/internal/server"
	"github.com/Eursukkul/club-cms/internal/service"
	"github.com/Eursukkul/club-cms/pkg/database"
)

const (
	Username = "admin"
	Password = "test-password"
)

type Server struct {
	*httptest.Server
	Auth *auth.Authenticator
}

// Start serves a fresh store. With secured set, writes need a token for
// Username/Password.
func Start(tb testing.TB, secured bool) *Server {
	tb.Helper()

	db, err := database.NewSQLiteDB(":memory:")
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}

	var authenticator *auth.Authenticator
	if secured {
		hash, err := auth.HashPassword(Password)
		if err != nil {
			tb.Fatalf("hash password: %v", err)
		}
		authenticator = auth.NewAuthenticator(Username, hash, "servertest-secret", time.Hour)
	}

	e := server.New(server.Deps{
		Events:      service.NewRecordService[models.Event](repository.NewGormRecordRepository[models.Event](db), nil),
		Workshops:   service.NewRecordService[models.Workshop](repository.NewGormRecordRepository[models.Workshop](db), nil),
		Auth:        authenticator,
		CORSOrigins: []string{"*"},
	})

	srv := &Server{Server: httptest.NewServer(e), Auth: authenticator}
	tb.Cleanup(func() {
		srv.Close()
		_ = database.Close(db)
	})
	return srv
}

// Token issues an admin token directly, skipping the login round-trip.
func (s *Server) Token(tb testing.TB) string {
	tb.Helper()
	if s.Auth == nil {
		return ""
	}
	token, _, err := s.Auth.Issue(Username)
	if err != nil {
		tb.Fatalf("issue token: %v", err)
	}
	return token
}
