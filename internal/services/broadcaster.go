package services

import (
	"context"
	"log"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/models"
)

// Broadcaster delivers outbound events to live connections. The websocket hub
// implements it.
type Broadcaster interface {
	EmitToRoom(room string, event string, payload any)
	EmitToUser(userID int, event string, payload any)
}

// Directory is the read-only user lookup used to populate payloads.
type Directory interface {
	BulkUsers(ctx context.Context, ids []int) ([]models.UserProfile, error)
}

// lookupProfiles never fails: users the directory cannot resolve keep only their id.
func lookupProfiles(ctx context.Context, dir Directory, ids ...int) map[int]models.UserProfile {
	out := make(map[int]models.UserProfile, len(ids))
	for _, id := range ids {
		out[id] = models.UserProfile{ID: id}
	}
	if dir == nil || len(ids) == 0 {
		return out
	}
	users, err := dir.BulkUsers(ctx, ids)
	if err != nil {
		log.Printf("directory lookup failed ids=%v: %v", ids, err)
		return out
	}
	for _, u := range users {
		if _, ok := out[u.ID]; ok {
			out[u.ID] = u
		}
	}
	return out
}

func displayName(p models.UserProfile) string {
	if p.Name == "" {
		return "Someone"
	}
	return p.Name
}
