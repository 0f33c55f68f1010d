package client

import (
	"context"
	"errors"
	"net/url"
)

// GetCurrentUser returns the current user's profile.
func (c *Client) GetCurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.Get(ctx, "/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetPlaybackState returns the current playback state, or nil when nothing
// is playing anywhere.
func (c *Client) GetPlaybackState(ctx context.Context) (*PlaybackState, error) {
	var state PlaybackState
	if err := c.Get(ctx, "/me/player", &state); err != nil {
		return nil, err
	}
	if state.Device.ID == "" && state.Item == nil {
		return nil, nil
	}
	return &state, nil
}

// GetTrack returns the catalog entry of a track.
func (c *Client) GetTrack(ctx context.Context, id string) (*Track, error) {
	if id == "" {
		return nil, errors.New("track id cannot be empty")
	}
	var track Track
	if err := c.Get(ctx, "/tracks/"+url.PathEscape(id), &track); err != nil {
		return nil, err
	}
	return &track, nil
}
