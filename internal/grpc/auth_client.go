// Package grpc calls the auth and user collaborator services.
//
// Requests and replies are structpb.Struct messages, so the collaborators must
// accept that schema on these method names. Replace them with generated
// ValidateToken and BulkUsers stubs once the proto packages are published;
// a server expecting typed request messages will not decode a Struct.
package grpc

import (
	"context"
	"errors"

	ggrpc "google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/models"
)

const validateTokenMethod = "/auth.AuthService/ValidateToken"

var ErrInvalidToken = errors.New("invalid token")

// AuthClient wraps the auth-service gRPC API.
type AuthClient struct {
	conn ggrpc.ClientConnInterface
}

// NewAuthClient constructs the wrapper.
func NewAuthClient(conn ggrpc.ClientConnInterface) *AuthClient {
	return &AuthClient{conn: conn}
}

// ValidateToken verifies the bearer token and returns the caller identity.
func (a *AuthClient) ValidateToken(ctx context.Context, token string) (models.Identity, error) {
	if token == "" {
		return models.Identity{}, ErrInvalidToken
	}
	req, err := structpb.NewStruct(map[string]interface{}{"token": token})
	if err != nil {
		return models.Identity{}, err
	}

	resp := &structpb.Struct{}
	if err := a.conn.Invoke(ctx, validateTokenMethod, req, resp); err != nil {
		return models.Identity{}, err
	}

	fields := resp.GetFields()
	userID := int(fields["user_id"].GetNumberValue())
	if !fields["valid"].GetBoolValue() || userID == 0 {
		return models.Identity{}, ErrInvalidToken
	}

	role := models.RoleUser
	if models.Role(fields["role"].GetStringValue()) == models.RoleAdmin {
		role = models.RoleAdmin
	}
	return models.Identity{UserID: userID, Role: role}, nil
}
