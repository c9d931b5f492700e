package natsrpc

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dkuznecov/authgate/internal/common"
	"github.com/nats-io/nats.go"
)

const msgInvalidRequest = "invalid request"

// failureMessage maps a service failure to the fixed text of the error
// taxonomy. Anything outside the taxonomy collapses to "internal error";
// diagnostic detail stays in server logs.
func failureMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrorConflict),
		errors.Is(err, common.ErrorNotFound):
		return err.Error()
	default:
		return common.ErrorInternal.Error()
	}
}

func (s *Server) respond(msg *nats.Msg, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error(context.Background(), "response marshal failed", "subject", msg.Subject, "error", err.Error())
		return
	}
	if err := msg.Respond(data); err != nil {
		s.logger.Error(context.Background(), "respond failed", "subject", msg.Subject, "error", err.Error())
	}
}

func (s *Server) handleLogin(msg *nats.Msg) {
	s.respond(msg, s.login(context.Background(), msg.Data))
}

func (s *Server) login(ctx context.Context, data []byte) LoginResponse {
	var req LoginRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return LoginResponse{Message: msgInvalidRequest}
	}

	pair, err := s.auth.Login(ctx, req.User, req.Password)
	if err != nil {
		return LoginResponse{Message: failureMessage(err)}
	}

	return LoginResponse{Token: &pair.AccessToken, RefreshToken: &pair.RefreshToken}
}

func (s *Server) handleRegister(msg *nats.Msg) {
	s.respond(msg, s.register(context.Background(), msg.Data))
}

func (s *Server) register(ctx context.Context, data []byte) RegisterResponse {
	var req RegisterRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return RegisterResponse{Message: msgInvalidRequest}
	}

	user, pair, err := s.auth.Register(ctx, req.Email, req.Username, req.Password)
	if err != nil {
		return RegisterResponse{Message: failureMessage(err)}
	}

	s.logger.Info(ctx, "Registered", "user_id", user.ID)
	return RegisterResponse{User: user, Token: &pair.AccessToken, RefreshToken: &pair.RefreshToken}
}

func (s *Server) handleRefreshToken(msg *nats.Msg) {
	s.respond(msg, s.refreshToken(context.Background(), msg.Data))
}

func (s *Server) refreshToken(ctx context.Context, data []byte) RefreshTokenResponse {
	var req RefreshTokenRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return RefreshTokenResponse{Message: msgInvalidRequest}
	}

	pair, err := s.auth.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return RefreshTokenResponse{Message: failureMessage(err)}
	}

	return RefreshTokenResponse{Token: &pair.AccessToken, RefreshToken: &pair.RefreshToken}
}

func (s *Server) handleVerifyJWT(msg *nats.Msg) {
	s.respond(msg, s.verifyJWT(msg.Data))
}

// verifyJWT replies with the claims object, or JSON null for an invalid
// token. Verification never produces an error reply.
func (s *Server) verifyJWT(data []byte) any {
	var req VerifyJWTRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil
	}

	claims := s.auth.VerifyToken(req.Token)
	if claims == nil {
		return nil
	}
	return claims
}

func (s *Server) handleGetUserByID(msg *nats.Msg) {
	s.respond(msg, s.getUserByID(context.Background(), msg.Data))
}

// getUserByID replies with the user object (password hash stripped), or JSON
// null when the id is unknown or the request is malformed.
func (s *Server) getUserByID(ctx context.Context, data []byte) any {
	var req GetUserByIDRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil
	}

	user, err := s.auth.GetUserByID(ctx, req.UserID)
	if err != nil {
		return nil
	}
	return user
}
