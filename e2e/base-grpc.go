package e2e

import (
	"chat-service/api/chatv1"
	"chat-service/auth"
	"chat-service/infrastructure/grpc/client"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

type BaseGrpcSuite struct {
	suite.Suite
	Config Config
	tokens *auth.TokenManager
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseGrpcSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.ServerAddr == "" {
		s.T().Skip("CHAT_SERVER_ADDR is not set")
	}
	s.Require().NotEmpty(s.Config.JwtSecret, "JWT_ACCESS_TOKEN_SECRET is required to sign test tokens")
	s.tokens = auth.NewTokenManager(s.Config.JwtSecret, s.Config.JwtIssuer, time.Hour)
}

// GrpcConn opens a connection authenticated as userID, logging every call
func (s *BaseGrpcSuite) GrpcConn(t *testing.T, name, userID string) (chatv1.ChatServiceClient, *grpc.ClientConn) {
	// 1. Print a colorized header for the connection step in logs
	header := fmt.Sprintf("  ====== %s (%s) ======", name, userID)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)

	token, err := s.tokens.GenerateToken(userID, []string{"user"})
	s.Require().NoError(err)

	// 2. Log each call, with JSON bodies when E2E_DEBUG_JSON is enabled
	chatClient, conn, err := client.NewChatClient(s.Config.ServerAddr, token,
		grpc.WithChainUnaryInterceptor(func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
			start := time.Now()
			err := invoker(ctx, method, req, reply, cc, opts...)

			logBuilder := strings.Builder{}
			fmt.Fprintf(&logBuilder, "GRPC %s [%s] in %v", method, status.Code(err), time.Since(start))

			if s.Config.DebugJSON {
				fmt.Fprintln(&logBuilder, "\nREQUEST:")
				fmt.Fprintln(&logBuilder, indent(req))
				if err != nil {
					fmt.Fprintln(&logBuilder, "ERROR:", err)
				} else {
					fmt.Fprintln(&logBuilder, "RESPONSE:")
					fmt.Fprintln(&logBuilder, indent(reply))
				}
			}
			t.Log(logBuilder.String())
			return err
		}),
	)
	s.Require().NoError(err, "Failed to connect to gRPC server at "+s.Config.ServerAddr)
	return chatClient, conn
}

// As provides a chat client authenticated as userID within a contextual test step
func (s *BaseGrpcSuite) As(userID, name string, fn func(ctx context.Context, client chatv1.ChatServiceClient)) {
	chatClient, conn := s.GrpcConn(s.T(), name, userID)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), s.Config.Timeout)
	defer cancel()

	fn(ctx, chatClient)
}

func indent(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}
