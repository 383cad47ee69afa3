package discord

import "github.com/disgoorg/snowflake/v2"

// Guild is the resolved view of a community the bot is a member of.
type Guild struct {
	ID   snowflake.ID
	Name string
}

// Role is the resolved marker role definition of a guild.
type Role struct {
	ID   snowflake.ID
	Name string
}

// Member is the resolved view of a guild member, including the current role
// assignment as Discord reports it.
type Member struct {
	ID          snowflake.ID
	DisplayName string
	RoleIDs     []snowflake.ID
}

// HasRole reports whether the member currently holds the given role.
func (m *Member) HasRole(roleID snowflake.ID) bool {
	for _, id := range m.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

// ExtendPrompt carries the localized button labels for the extend action row
// attached to the return-day reminder.
type ExtendPrompt struct {
	GuildID        snowflake.ID
	TwoWeeksLabel  string
	FourWeeksLabel string
	CustomLabel    string
}

// Gateway resolves opaque identifiers into live Discord objects and performs
// the side effects the reconciliation sweep and the absence service need.
// Transient failures are masked as absent/false results; no call returns an
// error into the caller's control flow.
type Gateway interface {
	// ResolveGuild returns the guild or absent when the bot is no longer a
	// member. Absent is treated as permanent for the current sweep.
	ResolveGuild(guildID snowflake.ID) (*Guild, bool)

	// ResolveRole looks up a guild role by name. Absent means no role with
	// that name currently exists.
	ResolveRole(guildID snowflake.ID, name string) (*Role, bool)

	// ResolveMember returns the member, falling back to a live fetch when
	// the cached member list misses. Absent after both attempts means the
	// member has left the guild.
	ResolveMember(guildID, userID snowflake.ID) (*Member, bool)

	// SetRole grants or revokes a role. Failures (missing permission,
	// network fault) are logged and reported as false.
	SetRole(guildID, userID, roleID snowflake.ID, grant bool) bool

	// NotifyMember sends a direct message, optionally with an extend action
	// row. A member with closed DMs is an expected false.
	NotifyMember(userID snowflake.ID, content string, prompt *ExtendPrompt) bool

	// LogEvent sends a message to the guild's logging channel. Best-effort;
	// skipped when channelID is zero, failures only logged.
	LogEvent(guildID, channelID snowflake.ID, message string)
}
