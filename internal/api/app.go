package api

import (
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/auth"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/config"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/detect"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/device"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/session"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/storage"
)

// App is what handlers see of the composition root.
type App interface {
	Logger() internal.Logger
	Config() *config.Config
	Users() storage.UserRepository
	SnoreLogs() storage.SnoreLogRepository
	PumpLogs() storage.PumpLogRepository
	Device() *device.Client
	Detector() detect.Detector
	Sessions() *session.Registry
	JWT() *auth.JWTManager
}

// Server holds the process-scoped services, constructed once at
// startup and passed to handlers by reference.
type Server struct {
	Log      internal.Logger
	Cfg      *config.Config
	Repos    *storage.Repositories
	Dev      *device.Client
	Det      detect.Detector
	Registry *session.Registry
	Tokens   *auth.JWTManager
}

func (s *Server) Logger() internal.Logger               { return s.Log }
func (s *Server) Config() *config.Config                { return s.Cfg }
func (s *Server) Users() storage.UserRepository         { return s.Repos.Users }
func (s *Server) SnoreLogs() storage.SnoreLogRepository { return s.Repos.SnoreLogs }
func (s *Server) PumpLogs() storage.PumpLogRepository   { return s.Repos.PumpLogs }
func (s *Server) Device() *device.Client                { return s.Dev }
func (s *Server) Detector() detect.Detector             { return s.Det }
func (s *Server) Sessions() *session.Registry           { return s.Registry }
func (s *Server) JWT() *auth.JWTManager                 { return s.Tokens }

var _ App = (*Server)(nil)
