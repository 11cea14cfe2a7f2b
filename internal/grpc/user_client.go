package grpc

import (
	"context"

	ggrpc "google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/models"
)

const bulkUsersMethod = "/user.UserInternal/BulkUsers"

// UserClient wraps the user-service gRPC API.
type UserClient struct {
	conn ggrpc.ClientConnInterface
}

// NewUserClient constructs the wrapper.
func NewUserClient(conn ggrpc.ClientConnInterface) *UserClient {
	return &UserClient{conn: conn}
}

// BulkUsers fetches display profiles for several users in one call.
func (u *UserClient) BulkUsers(ctx context.Context, ids []int) ([]models.UserProfile, error) {
	if len(ids) == 0 {
		return []models.UserProfile{}, nil
	}
	values := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		values = append(values, id)
	}
	req, err := structpb.NewStruct(map[string]interface{}{"ids": values})
	if err != nil {
		return nil, err
	}

	resp := &structpb.Struct{}
	if err := u.conn.Invoke(ctx, bulkUsersMethod, req, resp); err != nil {
		return nil, err
	}

	users := resp.GetFields()["users"].GetListValue().GetValues()
	out := make([]models.UserProfile, 0, len(users))
	for _, v := range users {
		fields := v.GetStructValue().GetFields()
		id := int(fields["id"].GetNumberValue())
		if id == 0 {
			continue
		}
		out = append(out, models.UserProfile{
			ID:    id,
			Name:  fields["name"].GetStringValue(),
			Photo: fields["photo"].GetStringValue(),
		})
	}
	return out, nil
}
