package tests

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/dsemenov-dev/dutymeter/internal/domain"
)

var (
	_ domain.SettingsRepository = (*MemorySettingsRepository)(nil)
	_ domain.PointsRepository   = (*MemoryPointsRepository)(nil)
	_ domain.WarningRepository  = (*MemoryWarningRepository)(nil)
	_ domain.DenyListRepository = (*MemoryDenyListRepository)(nil)
	_ domain.ModRoleRepository  = (*MemoryModRoleRepository)(nil)
	_ domain.RosterRepository   = (*MemoryRosterRepository)(nil)
	_ domain.Platform           = (*FakePlatform)(nil)
)

var ErrDMBlocked = errors.New("direct messages are blocked")

type DirectMessage struct {
	MemberID string
	Message  string
}

type ChannelMessage struct {
	ChannelID string
	Payload   *discordgo.MessageEmbed
}

type ModAction struct {
	Kind     string
	GuildID  string
	MemberID string
	Reason   string
}

// FakePlatform is a configurable, recording Platform for tests.
type FakePlatform struct {
	mu sync.Mutex

	Admins      map[string]bool     // memberID -> admin flag
	Roles       map[string][]string // memberID -> role IDs
	RoleHolders map[string][]string // roleID -> member IDs
	Guilds      []string
	BlockedDMs  map[string]bool // memberID -> DM delivery fails
	FailActions bool            // every moderation call fails

	// GuildGate, when set, makes GuildIDs hand control to the test: it sends
	// on the channel, then blocks until the test sends back.
	GuildGate chan struct{}

	DMs      []DirectMessage
	Channels []ChannelMessage
	Actions  []ModAction
}

func NewFakePlatform(guildIDs ...string) *FakePlatform {
	return &FakePlatform{
		Admins:      map[string]bool{},
		Roles:       map[string][]string{},
		RoleHolders: map[string][]string{},
		Guilds:      guildIDs,
		BlockedDMs:  map[string]bool{},
	}
}

func (p *FakePlatform) HasAdminPermission(_ context.Context, _ string, memberID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.Admins[memberID], nil
}

func (p *FakePlatform) MemberRoles(_ context.Context, _ string, memberID string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]string(nil), p.Roles[memberID]...), nil
}

func (p *FakePlatform) RoleMembers(_ context.Context, _ string, roleID string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]string(nil), p.RoleHolders[roleID]...), nil
}

func (p *FakePlatform) AddRole(_ context.Context, guildID string, memberID string, roleID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.FailActions {
		return errors.New("role assignment rejected")
	}

	p.Roles[memberID] = append(p.Roles[memberID], roleID)
	p.RoleHolders[roleID] = append(p.RoleHolders[roleID], memberID)
	p.Actions = append(p.Actions, ModAction{Kind: "addrole", GuildID: guildID, MemberID: memberID, Reason: roleID})

	return nil
}

func (p *FakePlatform) GuildIDs() []string {
	if p.GuildGate != nil {
		p.GuildGate <- struct{}{}
		<-p.GuildGate
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]string(nil), p.Guilds...)
}

func (p *FakePlatform) SendDirectMessage(_ context.Context, memberID string, message string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.BlockedDMs[memberID] {
		return ErrDMBlocked
	}

	p.DMs = append(p.DMs, DirectMessage{MemberID: memberID, Message: message})

	return nil
}

func (p *FakePlatform) SendChannelMessage(channelID string, payload *discordgo.MessageEmbed) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Channels = append(p.Channels, ChannelMessage{ChannelID: channelID, Payload: payload})

	return nil
}

func (p *FakePlatform) ApplyTimeout(_ context.Context, guildID string, memberID string, _ time.Duration, reason string) error {
	return p.record("timeout", guildID, memberID, reason)
}

func (p *FakePlatform) ClearTimeout(_ context.Context, guildID string, memberID string) error {
	return p.record("untimeout", guildID, memberID, "")
}

func (p *FakePlatform) BanMember(_ context.Context, guildID string, memberID string, reason string) error {
	return p.record("ban", guildID, memberID, reason)
}

func (p *FakePlatform) UnbanMember(_ context.Context, guildID string, memberID string) error {
	return p.record("unban", guildID, memberID, "")
}

func (p *FakePlatform) record(kind string, guildID string, memberID string, reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.FailActions {
		return errors.New(kind + " rejected")
	}

	p.Actions = append(p.Actions, ModAction{Kind: kind, GuildID: guildID, MemberID: memberID, Reason: reason})

	return nil
}

// DirectMessages returns a copy of the recorded DMs.
func (p *FakePlatform) DirectMessages() []DirectMessage {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]DirectMessage(nil), p.DMs...)
}
