// Package domain holds the entities, errors and contracts shared across the
// moderation ledger. Repositories own all persisted state; nothing outside
// the store layer caches rows between calls.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Well known per-guild setting keys. An absent key disables the feature.
const (
	KeyQuotaAmount = "quota_amount"
	KeyAdminRole   = "admin_role"
	KeyLogChannel  = "log_channel"
)

type PointBalance struct {
	GuildID  string `json:"guild_id"`
	MemberID string `json:"member_id"`
	Value    int64  `json:"value"`
}

type Warning struct {
	WarningID int64     `json:"warning_id"`
	GuildID   string    `json:"guild_id"`
	MemberID  string    `json:"member_id"`
	Reason    string    `json:"reason"`
	CreatedOn time.Time `json:"created_on"`
}

type DenyListEntry struct {
	GuildID   string    `json:"guild_id"`
	MemberID  string    `json:"member_id"`
	Reason    string    `json:"reason"`
	CreatedOn time.Time `json:"created_on"`
}

type SettingsRepository interface {
	Get(ctx context.Context, guildID string, key string) (int64, error)
	Set(ctx context.Context, guildID string, key string, value int64) error
	Delete(ctx context.Context, guildID string, key string) error
}

type PointsRepository interface {
	// Adjust applies delta atomically, creating the row at zero first when
	// missing, and returns the new balance. Balances may go negative.
	Adjust(ctx context.Context, guildID string, memberID string, delta int64) (int64, error)
	Balance(ctx context.Context, guildID string, memberID string) (int64, error)
	Balances(ctx context.Context, guildID string) ([]PointBalance, error)
	ResetGuild(ctx context.Context, guildID string) error
}

type WarningRepository interface {
	Add(ctx context.Context, warning *Warning) error
	List(ctx context.Context, guildID string, memberID string) ([]Warning, error)
	// RemoveOne deletes at most one warning matching the reason, returning
	// ErrNoResult when nothing matched.
	RemoveOne(ctx context.Context, guildID string, memberID string, reason string) error
	RemoveAll(ctx context.Context, guildID string, memberID string) error
}

type DenyListRepository interface {
	Upsert(ctx context.Context, entry DenyListEntry) error
	Remove(ctx context.Context, guildID string, memberID string) error
	Get(ctx context.Context, guildID string, memberID string) (DenyListEntry, error)
}

type ModRoleRepository interface {
	Add(ctx context.Context, guildID string, roleID string) error
	Remove(ctx context.Context, guildID string, roleID string) error
	Roles(ctx context.Context, guildID string) ([]string, error)
}

type RosterRepository interface {
	Add(ctx context.Context, guildID string, memberID string) error
	Members(ctx context.Context, guildID string) ([]string, error)
	Clear(ctx context.Context, guildID string) error
}

// Platform is the narrow surface of the chat platform the engine depends on.
// Permission answers are treated as ground truth and never duplicated locally.
type Platform interface {
	HasAdminPermission(ctx context.Context, guildID string, memberID string) (bool, error)
	MemberRoles(ctx context.Context, guildID string, memberID string) ([]string, error)
	RoleMembers(ctx context.Context, guildID string, roleID string) ([]string, error)
	AddRole(ctx context.Context, guildID string, memberID string, roleID string) error
	GuildIDs() []string
	SendDirectMessage(ctx context.Context, memberID string, message string) error
	SendChannelMessage(channelID string, payload *discordgo.MessageEmbed) error
	ApplyTimeout(ctx context.Context, guildID string, memberID string, duration time.Duration, reason string) error
	ClearTimeout(ctx context.Context, guildID string, memberID string) error
	BanMember(ctx context.Context, guildID string, memberID string, reason string) error
	UnbanMember(ctx context.Context, guildID string, memberID string) error
}
