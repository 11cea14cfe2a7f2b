package services

import (
	"github.com/hackwithroshan/atootbandhan-sub000/internal/mocks"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/models"
)

var (
	alice = models.Identity{UserID: 1, Role: models.RoleUser}
	bob   = models.Identity{UserID: 2, Role: models.RoleUser}
	admin = models.Identity{UserID: 99, Role: models.RoleAdmin}
)

type fixture struct {
	store     *mocks.Store
	bus       *mocks.Broadcaster
	notifier  *Notifier
	messenger *Messenger
	interests *InterestService
	tickets   *TicketService
}

func newFixture(dir Directory) *fixture {
	store := mocks.NewStore()
	bus := &mocks.Broadcaster{}
	notifier := NewNotifier(store.Notifications, bus, 50)
	messenger := NewMessenger(store.Conversations, store.Messages, notifier, dir, bus)
	return &fixture{
		store:     store,
		bus:       bus,
		notifier:  notifier,
		messenger: messenger,
		interests: NewInterestService(store.Interests, messenger, notifier, dir),
		tickets:   NewTicketService(store.Tickets, bus),
	}
}

func usersReached(emissions []mocks.Emission) map[int]bool {
	out := map[int]bool{}
	for _, e := range emissions {
		out[e.UserID] = true
	}
	return out
}
