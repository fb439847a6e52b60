// Copyright (c) 2024 RoseLoverX

package telegram

import (
	"context"
	"time"

	mtproto "github.com/amarnathcjd/mtproto"
)

// onServerObject receives unsolicited objects on the reading goroutine of
// the main session. Handling them may invoke requests, so they are only
// queued here.
func (c *Client) onServerObject(obj any) bool {
	u, ok := obj.(Updates)
	if !ok {
		return false
	}
	c.updates.push(u)
	return true
}

// updatesLoop runs until Stop queues a nil Updates.
func (c *Client) updatesLoop(ctx context.Context) {
	for {
		u := c.updates.pop()
		if u == nil {
			return
		}
		c.handleUpdates(ctx, u)
	}
}

// handleUpdates unpacks an updates container, caches the peers it carries
// and queues every update for the dispatcher.
func (c *Client) handleUpdates(ctx context.Context, updates Updates) {
	c.lastUpdate.Store(time.Now().UnixNano())

	switch u := updates.(type) {
	case *UpdatesObj:
		c.handleUpdateList(ctx, u.Updates, u.Users, u.Chats)
	case *UpdatesCombined:
		c.handleUpdateList(ctx, u.Updates, u.Users, u.Chats)
	case *UpdateShortMessage:
		c.handleShortMessage(ctx, u.Pts, u.PtsCount, u.Date)
	case *UpdateShortChatMessage:
		c.handleShortMessage(ctx, u.Pts, u.PtsCount, u.Date)
	case *UpdateShort:
		c.dispatcher.Push(u.Update, map[int64]User{}, map[int64]Chat{})
	case *UpdatesTooLong:
		c.Log.Info("updates too long, fetching state")
		if _, err := UpdatesGetState(ctx, c); err != nil {
			c.Log.Warn("fetching state: %v", err)
		}
	default:
		c.Log.Debug("ignoring %T", updates)
	}
}

func (c *Client) handleUpdateList(ctx context.Context, list []Update, users []User, chats []Chat) {
	isMin, err := c.fetchPeers(ctx, users, chats)
	if err != nil {
		c.Log.Warn("caching peers: %v", err)
	}
	userMap, chatMap := indexPeers(users, chats)

	for _, upd := range list {
		switch upd := upd.(type) {
		case *UpdateChannelTooLong:
			c.Log.Info("channel %d too long (pts %d)", upd.ChannelID, upd.Pts)
		case *UpdateNewChannelMessage:
			if isMin {
				c.completeMinMessage(ctx, upd, userMap, chatMap)
			}
		}
		c.dispatcher.Push(upd, userMap, chatMap)
	}
}

// completeMinMessage fetches the full sender and chat of a channel message
// that arrived with min peers only.
func (c *Client) completeMinMessage(ctx context.Context, upd *UpdateNewChannelMessage, users map[int64]User, chats map[int64]Chat) {
	msg, ok := upd.Message.(*MessageObj)
	if !ok {
		return
	}
	peer, ok := msg.PeerID.(*PeerChannel)
	if !ok {
		return
	}
	channel, err := c.resolveInputChannel(ctx, GetPeerID(peer))
	if err != nil {
		c.Log.Debug("min message in unknown channel %d: %v", peer.ChannelID, err)
		return
	}
	diff, err := UpdatesGetChannelDifference(ctx, c, &UpdatesGetChannelDifferenceParams{
		Channel: channel,
		Filter: &ChannelMessagesFilterObj{
			Ranges: []*MessageRange{{MinID: msg.ID, MaxID: msg.ID}},
		},
		Pts:   upd.Pts - upd.PtsCount,
		Limit: upd.Pts,
	})
	if err != nil {
		if !mtproto.MatchError(err, "CHANNEL_PRIVATE") {
			c.Log.Warn("fetching channel difference: %v", err)
		}
		return
	}
	full, ok := diff.(*UpdatesChannelDifferenceObj)
	if !ok {
		return
	}
	if _, err := c.fetchPeers(ctx, full.Users, full.Chats); err != nil {
		c.Log.Warn("caching peers: %v", err)
	}
	moreUsers, moreChats := indexPeers(full.Users, full.Chats)
	for id, u := range moreUsers {
		users[id] = u
	}
	for id, ch := range moreChats {
		chats[id] = ch
	}
}

// handleShortMessage replaces the stripped down short message updates with
// the full message from getDifference.
func (c *Client) handleShortMessage(ctx context.Context, pts, ptsCount, date int32) {
	diff, err := UpdatesGetDifference(ctx, c, &UpdatesGetDifferenceParams{
		Pts:  pts - ptsCount,
		Date: date,
		Qts:  -1,
	})
	if err != nil {
		c.Log.Warn("fetching difference: %v", err)
		return
	}
	full, ok := diff.(*UpdatesDifferenceObj)
	if !ok {
		return
	}
	if _, err := c.fetchPeers(ctx, full.Users, full.Chats); err != nil {
		c.Log.Warn("caching peers: %v", err)
	}
	switch {
	case len(full.NewMessages) > 0:
		users, chats := indexPeers(full.Users, full.Chats)
		c.dispatcher.Push(&UpdateNewMessage{
			Message:  full.NewMessages[0],
			Pts:      pts,
			PtsCount: ptsCount,
		}, users, chats)
	case len(full.OtherUpdates) > 0:
		c.dispatcher.Push(full.OtherUpdates[0], map[int64]User{}, map[int64]Chat{})
	}
}

// watchdog asks for the update state when nothing arrived for a whole
// interval, which makes the server resume sending updates.
func (c *Client) watchdog(ctx context.Context) {
	ticker := time.NewTicker(c.watchdogInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		last := time.Unix(0, c.lastUpdate.Load())
		if time.Since(last) < c.watchdogInterval {
			continue
		}
		c.Log.Debug("no updates since %s, fetching state", last.Format(time.RFC3339))
		if _, err := UpdatesGetState(ctx, c); err != nil {
			c.Log.Warn("fetching state: %v", err)
			continue
		}
		c.lastUpdate.Store(time.Now().UnixNano())
	}
}
