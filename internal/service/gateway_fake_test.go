package service_test

import (
	"github.com/disgoorg/snowflake/v2"

	"absence-bot/pkg/discord"
)

type setRoleCall struct {
	GuildID snowflake.ID
	UserID  snowflake.ID
	RoleID  snowflake.ID
	Grant   bool
}

type notifyCall struct {
	UserID  snowflake.ID
	Content string
	Prompt  *discord.ExtendPrompt
}

type logCall struct {
	GuildID   snowflake.ID
	ChannelID snowflake.ID
	Message   string
}

// fakeGateway is an in-memory Gateway with recording of all side effects.
// SetRole mutates the member's role list on success so consecutive sweeps
// observe the state the previous one produced.
type fakeGateway struct {
	guilds  map[snowflake.ID]*discord.Guild
	roles   map[snowflake.ID]map[string]*discord.Role
	members map[snowflake.ID]map[snowflake.ID]*discord.Member

	failSetRole bool
	failNotify  bool

	setRoleCalls []setRoleCall
	notifyCalls  []notifyCall
	logCalls     []logCall

	nextID uint64
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		guilds:  make(map[snowflake.ID]*discord.Guild),
		roles:   make(map[snowflake.ID]map[string]*discord.Role),
		members: make(map[snowflake.ID]map[snowflake.ID]*discord.Member),
		nextID:  1000,
	}
}

func (g *fakeGateway) addGuild(id snowflake.ID, name string) {
	g.guilds[id] = &discord.Guild{ID: id, Name: name}
	if g.roles[id] == nil {
		g.roles[id] = make(map[string]*discord.Role)
	}
	if g.members[id] == nil {
		g.members[id] = make(map[snowflake.ID]*discord.Member)
	}
}

func (g *fakeGateway) addRole(guildID snowflake.ID, name string) *discord.Role {
	g.nextID++
	role := &discord.Role{ID: snowflake.ID(g.nextID), Name: name}
	g.roles[guildID][name] = role
	return role
}

func (g *fakeGateway) addMember(guildID, userID snowflake.ID, name string, roleIDs ...snowflake.ID) *discord.Member {
	member := &discord.Member{ID: userID, DisplayName: name, RoleIDs: roleIDs}
	g.members[guildID][userID] = member
	return member
}

func (g *fakeGateway) ResolveGuild(guildID snowflake.ID) (*discord.Guild, bool) {
	guild, ok := g.guilds[guildID]
	return guild, ok
}

func (g *fakeGateway) ResolveRole(guildID snowflake.ID, name string) (*discord.Role, bool) {
	role, ok := g.roles[guildID][name]
	return role, ok
}

func (g *fakeGateway) ResolveMember(guildID, userID snowflake.ID) (*discord.Member, bool) {
	member, ok := g.members[guildID][userID]
	return member, ok
}

func (g *fakeGateway) SetRole(guildID, userID, roleID snowflake.ID, grant bool) bool {
	g.setRoleCalls = append(g.setRoleCalls, setRoleCall{guildID, userID, roleID, grant})
	if g.failSetRole {
		return false
	}
	member, ok := g.members[guildID][userID]
	if !ok {
		return false
	}
	if grant {
		if !member.HasRole(roleID) {
			member.RoleIDs = append(member.RoleIDs, roleID)
		}
		return true
	}
	kept := member.RoleIDs[:0]
	for _, id := range member.RoleIDs {
		if id != roleID {
			kept = append(kept, id)
		}
	}
	member.RoleIDs = kept
	return true
}

func (g *fakeGateway) NotifyMember(userID snowflake.ID, content string, prompt *discord.ExtendPrompt) bool {
	g.notifyCalls = append(g.notifyCalls, notifyCall{userID, content, prompt})
	return !g.failNotify
}

func (g *fakeGateway) LogEvent(guildID, channelID snowflake.ID, message string) {
	if channelID == 0 {
		return
	}
	g.logCalls = append(g.logCalls, logCall{guildID, channelID, message})
}
