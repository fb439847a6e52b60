// Copyright (c) 2024 RoseLoverX

package telegram

import (
	"context"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	mtproto "github.com/amarnathcjd/mtproto"
	"github.com/amarnathcjd/mtproto/internal/session"
)

// ErrPeerIDInvalid is returned for peers that are neither cached nor
// resolvable without an access hash.
var ErrPeerIDInvalid = errors.New("PEER_ID_INVALID")

// fetchPeers stores every user and chat in the peer directory. min
// entries carry no usable access hash and are skipped; isMin reports
// whether any was seen.
func (c *Client) fetchPeers(ctx context.Context, users []User, chats []Chat) (isMin bool, err error) {
	peers := make([]session.Peer, 0, len(users)+len(chats))

	for _, u := range users {
		user, ok := u.(*UserObj)
		if !ok {
			continue
		}
		if user.Min() {
			isMin = true
			continue
		}
		typ := session.PeerUser
		if user.Bot() {
			typ = session.PeerBot
		}
		peers = append(peers, session.Peer{
			ID:         user.ID,
			AccessHash: user.AccessHash,
			Type:       typ,
			Username:   strings.ToLower(primaryUsername(user.Username, user.Usernames)),
			Phone:      user.Phone,
		})
	}

	for _, ch := range chats {
		switch ch := ch.(type) {
		case *ChatObj:
			peers = append(peers, session.Peer{ID: -ch.ID, Type: session.PeerGroup})
		case *ChatForbidden:
			peers = append(peers, session.Peer{ID: -ch.ID, Type: session.PeerGroup})
		case *Channel:
			if ch.Min() {
				isMin = true
				continue
			}
			peers = append(peers, session.Peer{
				ID:         session.MarkChannelID(ch.ID),
				AccessHash: ch.AccessHash,
				Type:       channelType(ch.Broadcast()),
				Username:   strings.ToLower(primaryUsername(ch.Username, ch.Usernames)),
			})
		case *ChannelForbidden:
			peers = append(peers, session.Peer{
				ID:         session.MarkChannelID(ch.ID),
				AccessHash: ch.AccessHash,
				Type:       channelType(ch.Broadcast),
			})
		}
	}

	if len(peers) == 0 {
		return isMin, nil
	}
	if err := c.storage.UpdatePeers(ctx, peers); err != nil {
		return isMin, errors.Wrap(err, "caching peers")
	}
	return isMin, nil
}

func channelType(broadcast bool) session.PeerType {
	if broadcast {
		return session.PeerChannel
	}
	return session.PeerSupergroup
}

// ResolvePeer turns a marked id, "@username", "+phone", "me" or a t.me
// link into an InputPeer, from the peer directory when possible.
func (c *Client) ResolvePeer(ctx context.Context, peer any) (InputPeer, error) {
	switch p := peer.(type) {
	case InputPeer:
		return p, nil
	case int:
		return c.resolveID(ctx, int64(p))
	case int32:
		return c.resolveID(ctx, int64(p))
	case int64:
		return c.resolveID(ctx, p)
	case string:
		return c.resolveString(ctx, p)
	case *ChatInfo:
		return c.resolveID(ctx, p.ID)
	case *UserInfo:
		return c.resolveID(ctx, p.ID)
	}
	return nil, errors.Errorf("cannot resolve peer of type %T", peer)
}

func (c *Client) resolveString(ctx context.Context, s string) (InputPeer, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "me", "self":
		return &InputPeerSelf{}, nil
	}
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "t.me/")
	s = strings.TrimPrefix(s, "@")

	if id, err := strconv.ParseInt(s, 10, 64); err == nil && !strings.HasPrefix(s, "+") {
		return c.resolveID(ctx, id)
	}

	phone := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '+' || r == '-' {
			return -1
		}
		return r
	}, s)
	if phone != "" && strings.IndexFunc(phone, func(r rune) bool { return r < '0' || r > '9' }) < 0 {
		p, err := c.storage.GetPeerByPhone(ctx, phone)
		if err != nil {
			return nil, errors.Wrapf(err, "phone %s", phone)
		}
		return inputPeerOf(p)
	}
	return c.resolveUsername(ctx, s)
}

// resolveUsername serves fresh cache entries and asks the server for
// missing or expired ones.
func (c *Client) resolveUsername(ctx context.Context, username string) (InputPeer, error) {
	username = strings.ToLower(username)
	p, err := c.storage.GetPeerByUsername(ctx, username)
	if err == nil {
		return inputPeerOf(p)
	}
	if !errors.Is(err, session.ErrPeerNotFound) {
		return nil, err
	}

	resolved, err := ContactsResolveUsername(ctx, c, username)
	if err != nil {
		return nil, err
	}
	if _, err := c.fetchPeers(ctx, resolved.Users, resolved.Chats); err != nil {
		return nil, err
	}
	p, err = c.storage.GetPeerByID(ctx, GetPeerID(resolved.Peer))
	if err != nil {
		return nil, errors.Wrapf(err, "resolved @%s", username)
	}
	return inputPeerOf(p)
}

func (c *Client) resolveID(ctx context.Context, id int64) (InputPeer, error) {
	if me := c.Self(); me != nil && me.ID == id {
		return &InputPeerSelf{}, nil
	}
	p, err := c.storage.GetPeerByID(ctx, id)
	if err == nil {
		return inputPeerOf(p)
	}
	if !errors.Is(err, session.ErrPeerNotFound) {
		return nil, err
	}

	kind, err := session.GetPeerType(id)
	if err != nil {
		return nil, errors.Wrap(ErrPeerIDInvalid, err.Error())
	}
	switch kind {
	case session.KindUser:
		users, err := UsersGetUsers(ctx, c, &InputUserObj{UserID: id})
		if err != nil {
			if mtproto.MatchError(err, "USER_ID_INVALID") {
				return nil, errors.Wrapf(ErrPeerIDInvalid, "user %d", id)
			}
			return nil, err
		}
		if _, err := c.fetchPeers(ctx, users, nil); err != nil {
			return nil, err
		}
		if p, err = c.storage.GetPeerByID(ctx, id); err != nil {
			return nil, errors.Wrapf(ErrPeerIDInvalid, "user %d", id)
		}
		return inputPeerOf(p)
	case session.KindChat:
		return &InputPeerChat{ChatID: -id}, nil
	}
	return nil, errors.Wrapf(ErrPeerIDInvalid, "channel %d is not cached", id)
}

// inputPeerOf builds the InputPeer of a directory entry.
func inputPeerOf(p *session.Peer) (InputPeer, error) {
	switch p.Type {
	case session.PeerUser, session.PeerBot:
		return &InputPeerUser{UserID: p.ID, AccessHash: p.AccessHash}, nil
	case session.PeerGroup:
		return &InputPeerChat{ChatID: -p.ID}, nil
	case session.PeerChannel, session.PeerSupergroup:
		return &InputPeerChannel{ChannelID: session.GetChannelID(p.ID), AccessHash: p.AccessHash}, nil
	}
	return nil, errors.Errorf("peer %d has unknown type %q", p.ID, p.Type)
}

// resolveInputChannel is ResolvePeer narrowed to channels.
func (c *Client) resolveInputChannel(ctx context.Context, peer any) (InputChannel, error) {
	p, err := c.ResolvePeer(ctx, peer)
	if err != nil {
		return nil, err
	}
	ch, ok := p.(*InputPeerChannel)
	if !ok {
		return nil, errors.Errorf("%v is not a channel", peer)
	}
	return &InputChannelObj{ChannelID: ch.ChannelID, AccessHash: ch.AccessHash}, nil
}
