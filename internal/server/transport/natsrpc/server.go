// Package natsrpc is the request/reply boundary of the auth service. Each
// operation listens on "<prefix>.<cmd>" in a queue group, decodes a JSON
// payload, and always replies with a response object: service failures are
// reshaped into {..nulls.., message} and never propagate to the wire as
// transport errors.
package natsrpc

import (
	"context"

	"github.com/dkuznecov/authgate/internal/logging"
	"github.com/dkuznecov/authgate/internal/server/auth"
	"github.com/dkuznecov/authgate/internal/server/models"
	"github.com/dkuznecov/authgate/internal/server/services"
	"github.com/nats-io/nats.go"
)

// Command names, appended to the subject prefix.
const (
	CmdLogin        = "login"
	CmdRegister     = "register"
	CmdRefreshToken = "refresh-token"
	CmdVerifyJWT    = "verify-jwt"
	CmdGetUserByID  = "get-user-by-id"
)

// AuthService is the orchestration contract the transport consumes.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	Register(ctx context.Context, email, username, password string) (*models.User, *services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	VerifyToken(token string) *auth.Claims
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

type Server struct {
	nc         *nats.Conn
	auth       AuthService
	logger     logging.Logger
	prefix     string
	queueGroup string
	subs       []*nats.Subscription
}

func NewServer(nc *nats.Conn, a AuthService, l logging.Logger, prefix, queueGroup string) *Server {
	return &Server{
		nc:         nc,
		auth:       a,
		logger:     l.With("module", "natsrpc_server"),
		prefix:     prefix,
		queueGroup: queueGroup,
	}
}

func (s *Server) subject(cmd string) string {
	if s.prefix == "" {
		return cmd
	}
	return s.prefix + "." + cmd
}

// Run subscribes all handlers and blocks until the context is cancelled,
// then drains the subscriptions so in-flight requests finish.
func (s *Server) Run(ctx context.Context) error {

	handlers := map[string]nats.MsgHandler{
		CmdLogin:        s.handleLogin,
		CmdRegister:     s.handleRegister,
		CmdRefreshToken: s.handleRefreshToken,
		CmdVerifyJWT:    s.handleVerifyJWT,
		CmdGetUserByID:  s.handleGetUserByID,
	}

	for cmd, handler := range handlers {
		sub, err := s.nc.QueueSubscribe(s.subject(cmd), s.queueGroup, handler)
		if err != nil {
			s.unsubscribeAll()
			return err
		}
		s.subs = append(s.subs, sub)
	}

	s.logger.Info(ctx, "Listening for requests", "prefix", s.prefix, "queue_group", s.queueGroup)

	<-ctx.Done()

	s.logger.Info(ctx, "Stopping NATS RPC server...")
	for _, sub := range s.subs {
		_ = sub.Drain()
	}

	return nil
}

func (s *Server) unsubscribeAll() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	s.subs = nil
}
