package models

// GuildChannelCollection is an immutable, ordered set of channels. Order is
// the order the channels were read from storage.
type GuildChannelCollection struct {
	channels []*GuildChannel
}

// NewGuildChannelCollection copies channels into a new collection
func NewGuildChannelCollection(channels ...*GuildChannel) GuildChannelCollection {
	items := make([]*GuildChannel, len(channels))
	copy(items, channels)
	return GuildChannelCollection{channels: items}
}

// Len returns the number of channels
func (c GuildChannelCollection) Len() int { return len(c.channels) }

// At returns the i-th channel
func (c GuildChannelCollection) At(i int) *GuildChannel { return c.channels[i] }

// Slice returns a copy of the underlying channels
func (c GuildChannelCollection) Slice() []*GuildChannel {
	out := make([]*GuildChannel, len(c.channels))
	copy(out, c.channels)
	return out
}

// ByID looks a channel up by id
func (c GuildChannelCollection) ByID(id ChannelID) (*GuildChannel, bool) {
	for _, ch := range c.channels {
		if ch.ID == id {
			return ch, true
		}
	}
	return nil, false
}

// IDs returns the channel ids in collection order
func (c GuildChannelCollection) IDs() []ChannelID {
	ids := make([]ChannelID, len(c.channels))
	for i, ch := range c.channels {
		ids[i] = ch.ID
	}
	return ids
}

// OfType returns a new collection holding only channels of type t
func (c GuildChannelCollection) OfType(t ChannelType) GuildChannelCollection {
	var items []*GuildChannel
	for _, ch := range c.channels {
		if ch.Type == t {
			items = append(items, ch)
		}
	}
	return GuildChannelCollection{channels: items}
}

// GuildMemberCollection is an immutable, ordered set of guild members
type GuildMemberCollection struct {
	members []*GuildMember
}

// NewGuildMemberCollection copies members into a new collection
func NewGuildMemberCollection(members ...*GuildMember) GuildMemberCollection {
	items := make([]*GuildMember, len(members))
	copy(items, members)
	return GuildMemberCollection{members: items}
}

// Len returns the number of members
func (c GuildMemberCollection) Len() int { return len(c.members) }

// At returns the i-th member
func (c GuildMemberCollection) At(i int) *GuildMember { return c.members[i] }

// Slice returns a copy of the underlying members
func (c GuildMemberCollection) Slice() []*GuildMember {
	out := make([]*GuildMember, len(c.members))
	copy(out, c.members)
	return out
}

// ByUserID looks a member up by user id
func (c GuildMemberCollection) ByUserID(id UserID) (*GuildMember, bool) {
	for _, m := range c.members {
		if m.UserID == id {
			return m, true
		}
	}
	return nil, false
}

// WithRole returns a new collection holding only members that hold role id
func (c GuildMemberCollection) WithRole(id RoleID) GuildMemberCollection {
	var items []*GuildMember
	for _, m := range c.members {
		if m.HasRole(id) {
			items = append(items, m)
		}
	}
	return GuildMemberCollection{members: items}
}
