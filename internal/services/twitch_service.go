package services

import (
	"context"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sorteoslive/sorteos-backend/internal/models"
	"github.com/sorteoslive/sorteos-backend/pkg/twitchapi"
)

// TwitchService proxies helix lookups for the host console, passing the
// user's bearer token through verbatim. Responses are cached briefly so
// repeated pool refreshes during a raffle don't hammer the helix rate
// limits.
type TwitchService struct {
	client *twitchapi.Client
	cache  *lru.Cache
	ttl    time.Duration
}

type cacheEntry struct {
	value     interface{}
	fetchedAt time.Time
}

// NewTwitchService creates a new TwitchService
func NewTwitchService(client *twitchapi.Client, cacheSize int, ttl time.Duration) (*TwitchService, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}
	return &TwitchService{
		client: client,
		cache:  cache,
		ttl:    ttl,
	}, nil
}

// GetChatters returns the viewers currently in the user's chat.
func (s *TwitchService) GetChatters(ctx context.Context, user *models.User) ([]twitchapi.Chatter, error) {
	key := "chatters:" + user.UID
	if cached, ok := s.lookup(key); ok {
		return cached.([]twitchapi.Chatter), nil
	}

	chatters, err := s.client.GetChatters(ctx, user.Token, user.UID)
	if err != nil {
		slog.Error("Twitch API error (chatters)", "error", err, "uid", user.UID)
		return nil, err
	}
	s.store(key, chatters)
	return chatters, nil
}

// GetSubscribers returns the subscribers of the given broadcaster,
// defaulting to the user's own channel.
func (s *TwitchService) GetSubscribers(ctx context.Context, user *models.User, broadcasterID string) ([]twitchapi.Subscriber, error) {
	if broadcasterID == "" {
		broadcasterID = user.UID
	}
	key := "subscribers:" + broadcasterID
	if cached, ok := s.lookup(key); ok {
		return cached.([]twitchapi.Subscriber), nil
	}

	subs, err := s.client.GetSubscribers(ctx, user.Token, broadcasterID)
	if err != nil {
		slog.Error("Twitch API error (subscribers)", "error", err, "broadcasterId", broadcasterID)
		return nil, err
	}
	s.store(key, subs)
	return subs, nil
}

// GetFollowers returns the followers of the given broadcaster, defaulting
// to the user's own channel.
func (s *TwitchService) GetFollowers(ctx context.Context, user *models.User, broadcasterID string) ([]twitchapi.Follower, error) {
	if broadcasterID == "" {
		broadcasterID = user.UID
	}
	key := "followers:" + broadcasterID
	if cached, ok := s.lookup(key); ok {
		return cached.([]twitchapi.Follower), nil
	}

	followers, err := s.client.GetFollowers(ctx, user.Token, broadcasterID)
	if err != nil {
		slog.Error("Twitch API error (followers)", "error", err, "broadcasterId", broadcasterID)
		return nil, err
	}
	s.store(key, followers)
	return followers, nil
}

// GetModeratedChannels returns the channels the user moderates.
func (s *TwitchService) GetModeratedChannels(ctx context.Context, user *models.User) ([]twitchapi.Channel, error) {
	key := "moderated:" + user.UID
	if cached, ok := s.lookup(key); ok {
		return cached.([]twitchapi.Channel), nil
	}

	channels, err := s.client.GetModeratedChannels(ctx, user.Token, user.UID)
	if err != nil {
		slog.Error("Twitch API error (moderated channels)", "error", err, "uid", user.UID)
		return nil, err
	}
	s.store(key, channels)
	return channels, nil
}

func (s *TwitchService) lookup(key string) (interface{}, bool) {
	raw, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	entry := raw.(cacheEntry)
	if time.Since(entry.fetchedAt) > s.ttl {
		s.cache.Remove(key)
		return nil, false
	}
	return entry.value, true
}

func (s *TwitchService) store(key string, value interface{}) {
	s.cache.Add(key, cacheEntry{value: value, fetchedAt: time.Now()})
}
